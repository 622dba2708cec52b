package domain

import (
	"maps"
	"slices"
	"time"
)

// ExpansionMode selects how `$(...)` references in commands are expanded.
type ExpansionMode string

const (
	// ExpansionTree parses references into an expression tree, supporting nesting and repetition.
	ExpansionTree ExpansionMode = "tree"
	// ExpansionLegacy substitutes variables in declaration order and evaluates only the
	// first wildcard and the first patsubst call of a command.
	ExpansionLegacy ExpansionMode = "legacy"
)

// DefaultDebounce is the default quiet period before watch mode re-runs.
const DefaultDebounce = 300 * time.Millisecond

// Settings are the project-level defaults read from bmake.yaml. Command-line flags override them.
type Settings struct {
	Script    string
	Target    string
	Jobs      int
	Expansion ExpansionMode
	Output    string
	Cache     bool
	Env       map[string]string
	Watch     WatchSettings
}

// WatchSettings configure `bmake watch`.
type WatchSettings struct {
	Patterns []string
	Debounce time.Duration
}

// DefaultSettings returns the settings used when no bmake.yaml exists.
func DefaultSettings() Settings {
	return Settings{
		Target:    DefaultTarget,
		Jobs:      1,
		Expansion: ExpansionTree,
		Output:    "auto",
		Env:       map[string]string{},
		Watch: WatchSettings{
			Debounce: DefaultDebounce,
		},
	}
}

// EnvList returns Env as sorted KEY=VALUE pairs.
func (s Settings) EnvList() []string {
	keys := slices.Sorted(maps.Keys(s.Env))
	res := make([]string, 0, len(keys))
	for _, k := range keys {
		res = append(res, k+"="+s.Env[k])
	}
	return res
}
