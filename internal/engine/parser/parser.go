// Package parser turns the lines of a script into a domain.Script.
package parser

import (
	"fmt"
	"strings"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parse builds a Script from the lines of the script called name.
//
// The grammar is line oriented and parsed in a single pass:
//
//	# comment
//	NAME = value
//	target: dep1 dep2
//	    command
//
// An indented line belongs to the most recent target header. Assignments may appear
// anywhere and do not close the current target. Any other line is an error.
func Parse(name string, lines []string) (*domain.Script, error) {
	p := &parser{
		name:    name,
		builder: domain.NewScriptBuilder(name),
	}

	for i, raw := range lines {
		if err := p.parseLine(i+1, strings.TrimRight(raw, "\r")); err != nil {
			return nil, err
		}
	}

	return p.builder.Build(), nil
}

type parser struct {
	name    string
	builder *domain.ScriptBuilder
	current domain.InternedString
	open    bool
}

func (p *parser) parseLine(lineNo int, line string) error {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}

	indented := isIndented(line)

	switch {
	case indented && p.open:
		p.builder.AddCommand(p.current, text)
		return nil
	case strings.Contains(text, "="):
		return p.parseAssignment(lineNo, text)
	case !indented && strings.Contains(text, ":"):
		return p.parseHeader(lineNo, text)
	default:
		return p.lineError(domain.ErrUnrecognizedLine, lineNo, text)
	}
}

func (p *parser) parseAssignment(lineNo int, text string) error {
	name, value, _ := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return p.lineError(domain.ErrEmptyVariableName, lineNo, text)
	}

	p.builder.SetVariable(name, strings.TrimSpace(value), lineNo)
	return nil
}

func (p *parser) parseHeader(lineNo int, text string) error {
	name, deps, _ := strings.Cut(text, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return p.lineError(domain.ErrEmptyTargetName, lineNo, text)
	}

	p.current = p.builder.DeclareTarget(name, strings.Fields(deps), lineNo)
	p.open = true
	return nil
}

func (p *parser) lineError(sentinel error, lineNo int, text string) error {
	err := zerr.Wrap(sentinel, fmt.Sprintf("line %d", lineNo))
	err = zerr.With(err, "line", lineNo)
	err = zerr.With(err, "text", text)
	if p.name != "" {
		err = zerr.With(err, "script", p.name)
	}
	return err
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
