package executor

import (
	"context"
	"time"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
)

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

func (noopTracer) EmitPlan(context.Context, []string) {}

type noopSpan struct{}

func (noopSpan) Write(p []byte) (int, error) { return len(p), nil }
func (noopSpan) End()                        {}
func (noopSpan) RecordError(error)           {}
func (noopSpan) SetAttribute(string, any)    {}

type noopRenderer struct{}

func (noopRenderer) OnPlanEmit(_, _ []string)                                           {}
func (noopRenderer) OnTargetStart(string, time.Time)                                    {}
func (noopRenderer) OnCommand(_, _ string)                                              {}
func (noopRenderer) OnTargetLog(string, domain.Stream, []byte)                          {}
func (noopRenderer) OnTargetComplete(string, domain.TargetStatus, time.Duration, error) {}
func (noopRenderer) OnRunComplete(*domain.ExecutionReport)                              {}
func (noopRenderer) Stop() error                                                        { return nil }

type noopMetrics struct{}

func (noopMetrics) ObserveCommand(string, int, time.Duration)                {}
func (noopMetrics) ObserveTarget(string, domain.TargetStatus, time.Duration) {}

type noopLogger struct{}

func (noopLogger) Info(string) {}
func (noopLogger) Warn(string) {}
func (noopLogger) Error(error) {}
