// Package domain contains the core models of bmake: scripts, targets, execution plans and reports.
package domain

import "slices"

// Variable is a script variable with its raw, unexpanded value.
type Variable struct {
	Name  string
	Value string
	// Line is the 1-based line of the assignment that set Value.
	Line int
}

// VariableLookup gives read access to the variables of a script.
type VariableLookup interface {
	// Lookup returns the raw value of the named variable.
	Lookup(name string) (string, bool)
	// Variables returns all variables in first-declaration order, each holding its latest value.
	Variables() []Variable
}

// Script is a parsed script. It is read-only once built.
type Script struct {
	path        string
	vars        map[string]Variable
	varOrder    []string
	targets     map[InternedString]Target
	targetOrder []InternedString
}

var _ VariableLookup = (*Script)(nil)

// Path returns the file the script was parsed from, or "" for in-memory scripts.
func (s *Script) Path() string {
	return s.path
}

// Lookup returns the raw value of the named variable.
func (s *Script) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v.Value, ok
}

// Variables returns all variables in first-declaration order.
func (s *Script) Variables() []Variable {
	res := make([]Variable, 0, len(s.varOrder))
	for _, name := range s.varOrder {
		res = append(res, s.vars[name])
	}
	return res
}

// Target returns a copy of the named target.
func (s *Script) Target(name string) (Target, bool) {
	return s.TargetByName(NewInternedString(name))
}

// TargetByName returns a copy of the target with the given interned name.
func (s *Script) TargetByName(name InternedString) (Target, bool) {
	t, ok := s.targets[name]
	if !ok {
		return Target{}, false
	}
	return t.Clone(), true
}

// HasTarget reports whether a target with the given name is declared.
func (s *Script) HasTarget(name InternedString) bool {
	_, ok := s.targets[name]
	return ok
}

// TargetNames returns target names in first-declaration order.
func (s *Script) TargetNames() []string {
	return Strings(s.targetOrder)
}

// Targets returns copies of all targets in first-declaration order.
func (s *Script) Targets() []Target {
	res := make([]Target, 0, len(s.targetOrder))
	for _, name := range s.targetOrder {
		res = append(res, s.targets[name].Clone())
	}
	return res
}

// TargetCount returns the number of declared targets.
func (s *Script) TargetCount() int {
	return len(s.targetOrder)
}

// ScriptBuilder assembles a Script. It must not be used after Build.
type ScriptBuilder struct {
	s *Script
}

// NewScriptBuilder returns a builder for a script read from path.
func NewScriptBuilder(path string) *ScriptBuilder {
	return &ScriptBuilder{
		s: &Script{
			path:    path,
			vars:    make(map[string]Variable),
			targets: make(map[InternedString]Target),
		},
	}
}

// SetVariable assigns a variable. A later assignment replaces the value
// but keeps the position of the first declaration.
func (b *ScriptBuilder) SetVariable(name, value string, line int) {
	if _, exists := b.s.vars[name]; !exists {
		b.s.varOrder = append(b.s.varOrder, name)
	}
	b.s.vars[name] = Variable{Name: name, Value: value, Line: line}
}

// DeclareTarget declares a target, replacing the dependencies and commands of any
// earlier declaration with the same name.
func (b *ScriptBuilder) DeclareTarget(name string, deps []string, line int) InternedString {
	key := NewInternedString(name)
	if _, exists := b.s.targets[key]; !exists {
		b.s.targetOrder = append(b.s.targetOrder, key)
	}
	b.s.targets[key] = Target{
		Name:         key,
		Dependencies: NewInternedStrings(deps),
		Line:         line,
	}
	return key
}

// AddCommand appends a command to a target previously declared with DeclareTarget.
// Commands for unknown targets are ignored.
func (b *ScriptBuilder) AddCommand(target InternedString, command string) {
	t, ok := b.s.targets[target]
	if !ok {
		return
	}
	t.Commands = append(slices.Clip(t.Commands), command)
	b.s.targets[target] = t
}

// Build returns the assembled script.
func (b *ScriptBuilder) Build() *Script {
	s := b.s
	b.s = nil
	return s
}
