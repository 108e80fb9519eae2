package telemetry

import (
	"context"

	"go.trai.ch/fastbuild/internal/core/ports"
)

// NoopTracer is a Tracer that records nothing. It is the default when
// tracing is not enabled.
type NoopTracer struct{}

var _ ports.Tracer = NoopTracer{}

// Noop returns a tracer that records nothing.
func Noop() NoopTracer {
	return NoopTracer{}
}

// Start returns the context unchanged and a no-op span.
func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) Write(p []byte) (int, error) { return len(p), nil }
func (noopSpan) End()                        {}
func (noopSpan) RecordError(error)           {}
func (noopSpan) SetAttribute(string, any)    {}
