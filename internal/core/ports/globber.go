package ports

// Globber expands filesystem patterns for $(wildcard ...).
//
//go:generate mockgen -source=globber.go -destination=mocks/mock_globber.go -package=mocks
type Globber interface {
	// Glob returns the paths matching pattern in lexical order, or nil when nothing matches.
	Glob(pattern string) ([]string, error)
}
