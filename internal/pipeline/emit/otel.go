package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter forwards each pipeline event as a span event on one tracing
// span per rewritten function, annotated stage-by-stage. Each span is
// started from context.Background(), so each function shows up in a trace
// backend as its own trace.
type OTelEmitter struct {
	tracer trace.Tracer
	spans  map[string]trace.Span
	ctxs   map[string]context.Context
}

// NewOTelEmitter builds an OTelEmitter reporting through tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
		ctxs:   make(map[string]context.Context),
	}
}

// span returns the in-flight span for fn, starting one if this is the first
// event seen for it.
func (o *OTelEmitter) span(fn string) trace.Span {
	if s, ok := o.spans[fn]; ok {
		return s
	}
	ctx, span := o.tracer.Start(context.Background(), "gocoro.rewrite")
	span.SetAttributes(attribute.String("gocoro.fn", fn))
	o.spans[fn] = span
	o.ctxs[fn] = ctx
	return span
}

func (o *OTelEmitter) Emit(e Event) {
	span := o.span(e.Fn)
	attrs := []attribute.KeyValue{
		attribute.String("stage", string(e.Stage)),
	}
	for k, v := range e.Meta {
		attrs = append(attrs, attribute.String(k, toString(v)))
	}
	span.AddEvent(e.Msg, trace.WithAttributes(attrs...))
	if e.Stage == StageEmit {
		span.End()
		delete(o.spans, e.Fn)
		delete(o.ctxs, e.Fn)
	}
}

func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, e := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.Emit(e)
	}
	return nil
}

// Flush ends any spans left open (a rewrite that errored before reaching
// StageEmit never closes its own span).
func (o *OTelEmitter) Flush(context.Context) error {
	for fn, span := range o.spans {
		span.End()
		delete(o.spans, fn)
		delete(o.ctxs, fn)
	}
	return nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
