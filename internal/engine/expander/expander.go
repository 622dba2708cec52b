// Package expander resolves $(NAME), $(wildcard ...) and $(patsubst ...) references in commands.
package expander

import (
	"strings"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
)

// Expander expands the raw commands of a script right before they run.
// It is stateless between calls and safe for concurrent use if its Globber is.
type Expander struct {
	globber ports.Globber
	mode    domain.ExpansionMode
}

// New creates an Expander. An empty mode selects domain.ExpansionTree.
func New(globber ports.Globber, mode domain.ExpansionMode) *Expander {
	if mode == "" {
		mode = domain.ExpansionTree
	}
	return &Expander{globber: globber, mode: mode}
}

// Mode returns the expansion mode in use.
func (e *Expander) Mode() domain.ExpansionMode {
	return e.mode
}

// Expand returns raw with every reference resolved against vars.
// Undefined variables and malformed calls are left as written.
func (e *Expander) Expand(raw string, vars domain.VariableLookup) string {
	if e.mode == domain.ExpansionLegacy {
		return e.expandLegacy(raw, vars)
	}

	ev := &evaluator{
		expander: e,
		vars:     vars,
		active:   make(map[string]bool),
	}
	return ev.eval(Parse(raw))
}

type evaluator struct {
	expander *Expander
	vars     domain.VariableLookup
	// active holds the variables currently being expanded, to stop reference cycles.
	active map[string]bool
}

func (ev *evaluator) eval(expr Expr) string {
	var sb strings.Builder
	for _, n := range expr {
		switch n := n.(type) {
		case Literal:
			sb.WriteString(n.Text)
		case VariableRef:
			sb.WriteString(ev.variable(n))
		case WildcardCall:
			sb.WriteString(ev.expander.wildcard(ev.eval(n.Args)))
		case PatsubstCall:
			out, ok := patsubst(ev.eval(n.Args))
			if !ok {
				out = n.Raw
			}
			sb.WriteString(out)
		}
	}
	return sb.String()
}

func (ev *evaluator) variable(ref VariableRef) string {
	name := ev.eval(ref.Name)
	value, ok := ev.vars.Lookup(name)
	if !ok || ev.active[name] {
		return ref.Raw
	}

	ev.active[name] = true
	defer delete(ev.active, name)

	return ev.eval(Parse(value))
}

// wildcard globs every whitespace-separated pattern in args and joins the matches with
// single spaces. Invalid patterns match nothing.
func (e *Expander) wildcard(args string) string {
	if e.globber == nil {
		return ""
	}

	var matches []string
	for _, pattern := range strings.Fields(args) {
		found, err := e.globber.Glob(pattern)
		if err != nil {
			continue
		}
		matches = append(matches, found...)
	}
	return strings.Join(matches, " ")
}

// patsubst evaluates "OLD,NEW,TEXT". It reports false unless args split into exactly
// three parts on the first two commas.
func patsubst(args string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(args), ",", 3)
	if len(parts) != 3 {
		return "", false
	}

	old, repl, text := parts[0], parts[1], parts[2]
	if old == "" {
		return text, true
	}
	return strings.ReplaceAll(text, old, repl), true
}
