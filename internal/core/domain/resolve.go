package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.trai.ch/zerr"
)

// maxSuggestionDistance bounds the edit distance of a "did you mean" suggestion.
const maxSuggestionDistance = 2

// ExecutionPlan is the ordered list of targets to run for a set of requested roots.
// Every target appears once and after all of its dependencies.
type ExecutionPlan struct {
	Roots []InternedString
	Order []InternedString
}

// Names returns the plan order as plain strings.
func (p *ExecutionPlan) Names() []string {
	return Strings(p.Order)
}

// Len returns the number of targets in the plan.
func (p *ExecutionPlan) Len() int {
	return len(p.Order)
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

type resolver struct {
	script *Script
	state  map[InternedString]visitState
	path   []InternedString
	order  []InternedString
}

// Resolve computes the execution plan for the given roots with a depth-first
// topological sort. Roots and dependencies are visited in declared order, so the
// plan is deterministic for a given script.
//
// It fails with ErrUndefinedTarget when a root or a reachable dependency is not
// declared, and with ErrCyclicDependency when the reachable graph contains a cycle.
func Resolve(script *Script, roots ...string) (*ExecutionPlan, error) {
	if len(roots) == 0 {
		return nil, ErrNoTargetsSpecified
	}

	r := &resolver{
		script: script,
		state:  make(map[InternedString]visitState, script.TargetCount()),
		order:  make([]InternedString, 0, script.TargetCount()),
	}

	rootNames := NewInternedStrings(roots)
	for _, root := range rootNames {
		if err := r.visit(root, InternedString{}); err != nil {
			return nil, err
		}
	}

	return &ExecutionPlan{Roots: rootNames, Order: r.order}, nil
}

func (r *resolver) visit(name, requiredBy InternedString) error {
	switch r.state[name] {
	case visited:
		return nil
	case visiting:
		return r.cycleError(name)
	case unvisited:
	}

	target, ok := r.script.targets[name]
	if !ok {
		return r.undefinedError(name, requiredBy)
	}

	r.state[name] = visiting
	r.path = append(r.path, name)

	for _, dep := range target.Dependencies {
		if err := r.visit(dep, name); err != nil {
			return err
		}
	}

	r.path = r.path[:len(r.path)-1]
	r.state[name] = visited
	r.order = append(r.order, name)
	return nil
}

// cycleError reports the cycle closed by revisiting dep, e.g. "a -> b -> a".
func (r *resolver) cycleError(dep InternedString) error {
	start := 0
	for i, node := range r.path {
		if node == dep {
			start = i
			break
		}
	}

	parts := make([]string, 0, len(r.path)-start+1)
	for _, node := range r.path[start:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())

	return zerr.With(
		zerr.Wrap(ErrCyclicDependency, "cannot order targets"),
		"cycle", strings.Join(parts, " -> "),
	)
}

func (r *resolver) undefinedError(name, requiredBy InternedString) error {
	err := zerr.With(
		zerr.Wrap(ErrUndefinedTarget, fmt.Sprintf("cannot resolve %q", name.String())),
		"target", name.String(),
	)
	if !requiredBy.IsZero() {
		err = zerr.With(err, "required_by", requiredBy.String())
	}
	if suggestion := SuggestTarget(name.String(), r.script.TargetNames()); suggestion != "" {
		err = zerr.With(err, "suggestion", suggestion)
	}
	return err
}

// SuggestTarget returns the declared target name closest to name, or "" when
// nothing is close enough. Subsequence matches win; otherwise the candidate with
// the smallest edit distance within maxSuggestionDistance is returned.
func SuggestTarget(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", maxSuggestionDistance+1
	for _, candidate := range candidates {
		if d := fuzzy.LevenshteinDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}
