package logx

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"
)

// traceHandler stamps records with the ids of the span active in ctx.
type traceHandler struct {
	slog.Handler
}

func newTraceHandler(h slog.Handler) slog.Handler {
	return &traceHandler{Handler: h}
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(spanAttrs(ctx)...)
	return h.Handler.Handle(ctx, r)
}

// spanAttrs returns the trace and span ids of the span active in ctx, or nil.
func spanAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String(KeyTraceID, sc.TraceID().String()),
		slog.String(KeySpanID, sc.SpanID().String()),
	}
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}
