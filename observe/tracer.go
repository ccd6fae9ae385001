package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with cache-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartRevalidation starts a span covering one background refresh.
	StartRevalidation(ctx context.Context, kind, key string) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer backed by the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartRevalidation(ctx context.Context, kind, key string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "cache.revalidate."+kind,
		trace.WithAttributes(
			attribute.String("cache.kind", kind),
			attribute.String("cache.key", key),
		),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// nopTracer produces inert spans.
type nopTracer struct {
	tracer trace.Tracer
}

// NewNopTracer returns a Tracer whose spans are never exported.
func NewNopTracer() Tracer {
	return &nopTracer{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *nopTracer) StartRevalidation(ctx context.Context, kind, key string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "noop")
}

func (t *nopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}

// Ensure implementations satisfy Tracer.
var (
	_ Tracer = (*tracerImpl)(nil)
	_ Tracer = (*nopTracer)(nil)
)
