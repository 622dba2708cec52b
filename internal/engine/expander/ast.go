package expander

import "strings"

const (
	refOpen  = "$("
	refClose = ")"
)

// Node is one element of a parsed command.
type Node interface {
	node()
}

// Expr is a parsed command: a sequence of nodes evaluated and concatenated in order.
type Expr []Node

// Literal is text copied to the output unchanged.
type Literal struct {
	Text string
}

// VariableRef is a $(NAME) reference. Name may itself contain references.
type VariableRef struct {
	Name Expr
	// Raw is the reference as written, used when the variable is undefined.
	Raw string
}

// WildcardCall is a $(wildcard PATTERNS) call.
type WildcardCall struct {
	Args Expr
	Raw  string
}

// PatsubstCall is a $(patsubst OLD,NEW,TEXT) call.
type PatsubstCall struct {
	Args Expr
	Raw  string
}

func (Literal) node()      {}
func (VariableRef) node()  {}
func (WildcardCall) node() {}
func (PatsubstCall) node() {}

// Parse tokenises s into an expression tree. It never fails: the opening "$(" of
// an unterminated reference is kept as literal text and scanning resumes after it.
func Parse(s string) Expr {
	var expr Expr
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			expr = append(expr, Literal{Text: lit.String()})
			lit.Reset()
		}
	}

	for len(s) > 0 {
		start := strings.Index(s, refOpen)
		if start < 0 {
			lit.WriteString(s)
			break
		}

		end := matchClose(s, start+len(refOpen))
		if end < 0 {
			lit.WriteString(s[:start+len(refOpen)])
			s = s[start+len(refOpen):]
			continue
		}

		lit.WriteString(s[:start])
		flush()

		raw := s[start : end+1]
		expr = append(expr, parseReference(raw, s[start+len(refOpen):end]))
		s = s[end+1:]
	}

	flush()
	return expr
}

// matchClose returns the index of the parenthesis closing a reference whose body
// starts at from, or -1 if the reference is unterminated.
func matchClose(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseReference(raw, body string) Node {
	if args, ok := callArgs(body, "wildcard"); ok {
		return WildcardCall{Args: Parse(args), Raw: raw}
	}
	if args, ok := callArgs(body, "patsubst"); ok {
		return PatsubstCall{Args: Parse(args), Raw: raw}
	}
	return VariableRef{Name: Parse(body), Raw: raw}
}

// callArgs reports whether body is a call of the named function and returns its
// argument text. The function name must be followed by whitespace.
func callArgs(body, fn string) (string, bool) {
	rest, ok := strings.CutPrefix(body, fn)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}
