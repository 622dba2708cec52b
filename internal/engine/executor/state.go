package executor

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"go.trai.ch/bmake/internal/core/domain"
)

type result struct {
	name   domain.InternedString
	target domain.TargetResult
}

type runState struct {
	ctx    context.Context
	e      *Executor
	script *domain.Script
	opts   Options
	report *domain.ExecutionReport
	jobs   int

	position     map[domain.InternedString]int
	deps         map[domain.InternedString][]domain.InternedString
	dependents   map[domain.InternedString][]domain.InternedString
	inDegree     map[domain.InternedString]int
	started      map[domain.InternedString]bool
	fingerprints map[domain.InternedString]string

	ready     []domain.InternedString
	active    int
	failed    bool
	resultsCh chan result
	errs      error
}

func newRunState(
	ctx context.Context,
	e *Executor,
	script *domain.Script,
	plan *domain.ExecutionPlan,
	opts Options,
	report *domain.ExecutionReport,
) *runState {
	jobs := max(opts.Jobs, 1)
	count := plan.Len()

	s := &runState{
		ctx:          ctx,
		e:            e,
		script:       script,
		opts:         opts,
		report:       report,
		jobs:         jobs,
		position:     make(map[domain.InternedString]int, count),
		deps:         make(map[domain.InternedString][]domain.InternedString, count),
		dependents:   make(map[domain.InternedString][]domain.InternedString, count),
		inDegree:     make(map[domain.InternedString]int, count),
		started:      make(map[domain.InternedString]bool, count),
		fingerprints: make(map[domain.InternedString]string, count),
		resultsCh:    make(chan result, jobs),
	}

	for i, name := range plan.Order {
		s.position[name] = i
	}

	for _, name := range plan.Order {
		target, _ := script.TargetByName(name)

		// Only dependencies that are part of this plan gate the target; repeated
		// dependency names count once.
		seen := make(map[domain.InternedString]bool, len(target.Dependencies))
		for _, dep := range target.Dependencies {
			if _, planned := s.position[dep]; !planned || seen[dep] {
				continue
			}
			seen[dep] = true
			s.deps[name] = append(s.deps[name], dep)
			s.dependents[dep] = append(s.dependents[dep], name)
		}
		s.inDegree[name] = len(s.deps[name])

		if s.inDegree[name] == 0 {
			s.ready = append(s.ready, name)
		}
	}

	return s
}

func (s *runState) run() error {
	for {
		s.schedule()
		if s.active == 0 {
			break
		}
		s.handleResult(<-s.resultsCh)
	}

	s.finish()

	if err := s.ctx.Err(); err != nil {
		s.errs = errors.Join(s.errs, err)
	}
	return s.errs
}

func (s *runState) stopped() bool {
	return s.failed || s.ctx.Err() != nil
}

// schedule starts ready targets, lowest plan position first, until the job limit is
// reached. With a single job this runs targets exactly in plan order.
func (s *runState) schedule() {
	for len(s.ready) > 0 && s.active < s.jobs && !s.stopped() {
		name := s.ready[0]
		s.ready = s.ready[1:]

		if s.started[name] {
			continue
		}
		s.started[name] = true

		depPrints := make([]string, 0, len(s.deps[name]))
		for _, dep := range s.deps[name] {
			depPrints = append(depPrints, s.fingerprints[dep])
		}

		s.report.Target(name.String()).Status = domain.StatusRunning
		s.active++
		go s.executeTarget(name, depPrints)
	}
}

func (s *runState) handleResult(res result) {
	s.active--

	*s.report.Target(res.name.String()) = res.target
	s.complete(res.target)

	switch res.target.Status {
	case domain.StatusCompleted, domain.StatusCached:
		s.fingerprints[res.name] = res.target.Fingerprint
		for _, dependent := range s.dependents[res.name] {
			s.inDegree[dependent]--
			if s.inDegree[dependent] == 0 {
				s.enqueue(dependent)
			}
		}
	case domain.StatusFailed:
		s.failed = true
		s.errs = errors.Join(s.errs, res.target.Err)
	}
}

func (s *runState) enqueue(name domain.InternedString) {
	i, _ := slices.BinarySearchFunc(s.ready, name, func(a, b domain.InternedString) int {
		return cmp.Compare(s.position[a], s.position[b])
	})
	s.ready = slices.Insert(s.ready, i, name)
}

// finish marks every target that never started as skipped.
func (s *runState) finish() {
	for i := range s.report.Targets {
		t := &s.report.Targets[i]
		if t.Status.IsTerminal() {
			continue
		}
		t.Status = domain.StatusSkipped
		s.complete(*t)
	}
	s.report.Finished = time.Now()
}

func (s *runState) complete(t domain.TargetResult) {
	s.e.renderer.OnTargetComplete(t.Name, t.Status, t.Duration(), t.Err)
	s.e.metrics.ObserveTarget(t.Name, t.Status, t.Duration())
}
