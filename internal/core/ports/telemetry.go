package ports

import (
	"context"
	"io"
	"time"

	"go.trai.ch/bmake/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
	// EmitPlan records the planned target order on the span in ctx.
	EmitPlan(ctx context.Context, order []string)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Metrics records run statistics.
type Metrics interface {
	// ObserveCommand records one executed command.
	ObserveCommand(target string, exitCode int, elapsed time.Duration)
	// ObserveTarget records a target reaching a terminal status.
	ObserveTarget(target string, status domain.TargetStatus, elapsed time.Duration)
}
