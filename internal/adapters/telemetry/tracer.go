package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/bmake/internal/core/ports"
)

// InstrumentationName names the tracer bmake creates its spans with.
const InstrumentationName = "go.trai.ch/bmake"

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracerFromProvider creates a tracer from tp.
func NewOTelTracerFromProvider(tp trace.TracerProvider) *OTelTracer {
	return &OTelTracer{tracer: tp.Tracer(InstrumentationName)}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)

	s := &OTelSpan{span: span}
	if span.IsRecording() {
		s.batcher = NewBatchProcessor(0, 0, s.addOutputEvent)
	}
	return ctx, s
}

// EmitPlan adds the planned target order as an event to the span in ctx.
func (t *OTelTracer) EmitPlan(ctx context.Context, order []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("targets", order),
		))
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
// Output written to it is recorded as "output" events, one per batch.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End flushes pending output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span and marks it failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write records command output on the span.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher == nil {
		return len(p), nil
	}
	return s.batcher.Write(p)
}

func (s *OTelSpan) addOutputEvent(data []byte) {
	s.span.AddEvent("output", trace.WithAttributes(
		attribute.String("text", strings.TrimSuffix(string(data), "\n")),
	))
}
