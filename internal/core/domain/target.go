package domain

import "slices"

// Target is a named unit of work: the targets it depends on and the raw commands it runs.
// Dependencies may name targets that do not exist; that is only checked when resolving a plan.
type Target struct {
	Name         InternedString
	Dependencies []InternedString
	Commands     []string
	// Line is the 1-based line of the target's most recent header.
	Line int
}

// Clone returns a deep copy of t.
func (t Target) Clone() Target {
	return Target{
		Name:         t.Name,
		Dependencies: slices.Clone(t.Dependencies),
		Commands:     slices.Clone(t.Commands),
		Line:         t.Line,
	}
}
