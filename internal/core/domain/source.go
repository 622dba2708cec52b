package domain

// SourceFile is the raw content of a script, split into lines without terminators.
type SourceFile struct {
	Path  string
	Lines []string
}
