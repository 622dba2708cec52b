// Package executor runs the targets of an execution plan.
package executor

import (
	"context"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
)

// Expander resolves the references in a raw command.
type Expander interface {
	Expand(raw string, vars domain.VariableLookup) string
}

// Options control a single execution.
type Options struct {
	// Jobs is the maximum number of targets running at once. Values below 1 mean 1.
	Jobs int
	// UseCache skips targets whose fingerprint matches their last successful run.
	UseCache bool
	// Root is the project directory the run store is keyed on.
	Root string
	// Env holds extra "KEY=VALUE" pairs passed to every command.
	Env []string
}

// Executor runs the commands of planned targets through a CommandRunner.
type Executor struct {
	runner   ports.CommandRunner
	expander Expander
	store    ports.RunStore
	tracer   ports.Tracer
	renderer ports.Renderer
	metrics  ports.Metrics
	logger   ports.Logger
}

// New creates an Executor. The store, tracer, renderer, metrics and logger are optional;
// a nil store disables the run cache.
func New(
	runner ports.CommandRunner,
	expander Expander,
	store ports.RunStore,
	tracer ports.Tracer,
	renderer ports.Renderer,
	metrics ports.Metrics,
	logger ports.Logger,
) *Executor {
	e := &Executor{
		runner:   runner,
		expander: expander,
		store:    store,
		tracer:   tracer,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
	}
	if e.tracer == nil {
		e.tracer = noopTracer{}
	}
	if e.renderer == nil {
		e.renderer = noopRenderer{}
	}
	if e.metrics == nil {
		e.metrics = noopMetrics{}
	}
	if e.logger == nil {
		e.logger = noopLogger{}
	}
	return e
}

// Execute runs every target of plan. Targets start only after all their dependencies
// completed, and each target runs at most once.
//
// When a command fails no further target is started, targets already running finish,
// and every target that never started is reported as skipped. The returned error wraps
// each target failure. When ctx is cancelled the running targets are reported as
// cancelled and the context error is returned.
//
// The report is returned even when err is non-nil.
func (e *Executor) Execute(
	ctx context.Context,
	script *domain.Script,
	plan *domain.ExecutionPlan,
	opts Options,
) (*domain.ExecutionReport, error) {
	report := domain.NewExecutionReport(plan)

	ctx, span := e.tracer.Start(ctx, "run")
	defer span.End()
	span.SetAttribute("bmake.run_id", report.RunID)
	span.SetAttribute("bmake.targets", plan.Len())

	order := plan.Names()
	e.tracer.EmitPlan(ctx, order)
	e.renderer.OnPlanEmit(report.Roots, order)

	state := newRunState(ctx, e, script, plan, opts, report)
	err := state.run()
	if err != nil {
		span.RecordError(err)
	}

	e.renderer.OnRunComplete(report)
	return report, err
}
