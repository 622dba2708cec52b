package expander

import (
	"strings"

	"go.trai.ch/bmake/internal/core/domain"
)

const (
	legacyWildcard = "$(wildcard"
	legacyPatsubst = "$(patsubst"
)

// expandLegacy is the single-pass expansion: each variable is substituted once, in
// first-declaration order, then only the first wildcard call and the first patsubst
// call are evaluated. A call ends at the first ")" after it, so calls cannot nest.
func (e *Expander) expandLegacy(raw string, vars domain.VariableLookup) string {
	line := raw
	for _, v := range vars.Variables() {
		line = strings.ReplaceAll(line, refOpen+v.Name+refClose, v.Value)
	}

	line = replaceFirstCall(line, legacyWildcard, func(args string) (string, bool) {
		return e.wildcard(args), true
	})
	return replaceFirstCall(line, legacyPatsubst, patsubst)
}

func replaceFirstCall(line, token string, eval func(args string) (string, bool)) string {
	start := strings.Index(line, token)
	if start < 0 {
		return line
	}

	argsStart := start + len(token)
	end := strings.Index(line[argsStart:], refClose)
	if end < 0 {
		return line
	}
	end += argsStart

	out, ok := eval(strings.TrimSpace(line[argsStart:end]))
	if !ok {
		return line
	}
	return line[:start] + out + line[end+len(refClose):]
}
