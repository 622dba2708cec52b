package telemetry

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileExporter writes the spans of a run as JSON to a trace file.
type FileExporter struct {
	file     *os.File
	provider *sdktrace.TracerProvider
}

// NewFileExporter creates path (and its directory) and returns an exporter writing to it.
func NewFileExporter(path string) (*FileExporter, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTraceExportFailed.Error()), "path", path)
	}

	//nolint:gosec // The trace file path is chosen by the user
	f, err := os.Create(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTraceExportFailed.Error()), "path", path)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		_ = f.Close()
		return nil, zerr.Wrap(err, domain.ErrTraceExportFailed.Error())
	}

	return &FileExporter{
		file:     f,
		provider: sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp)),
	}, nil
}

// Tracer returns a tracer whose spans end up in the trace file.
func (e *FileExporter) Tracer() *OTelTracer {
	return NewOTelTracerFromProvider(e.provider)
}

// Shutdown flushes every span and closes the trace file.
func (e *FileExporter) Shutdown(ctx context.Context) error {
	return errors.Join(e.provider.Shutdown(ctx), e.file.Close())
}
