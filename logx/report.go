package logx

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/capai/xcommon/sentryx"
)

// Reporter receives records at or above the report level.
type Reporter interface {
	Report(ctx context.Context, level slog.Level, msg string, err error, attrs map[string]any)
}

// SentryReporter sends forwarded records through sentryx, so the flavour
// rules (flush in functions) apply to logs as well.
type SentryReporter struct{}

func (SentryReporter) Report(ctx context.Context, level slog.Level, msg string, err error, attrs map[string]any) {
	opts := []sentryx.MessageOption{
		sentryx.WithLevel(sentryLevel(level)),
		sentryx.WithContext("log", attrs),
	}
	if err != nil {
		sentryx.CaptureException(ctx, err, append(opts, sentryx.WithExtra("log.message", msg))...)
		return
	}
	sentryx.SendMessage(ctx, msg, opts...)
}

func sentryLevel(l slog.Level) sentry.Level {
	switch {
	case l >= slog.LevelError:
		return sentry.LevelError
	case l >= slog.LevelWarn:
		return sentry.LevelWarning
	case l >= slog.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}

// reportHandler forwards records at or above min to the reporter. It sits
// outside the level filter of the wrapped handler, so a record can be
// reported without being written.
type reportHandler struct {
	slog.Handler
	reporter Reporter
	min      slog.Level
	prefix   string
	fields   []field
}

// field is an attr already flattened to its dotted key.
type field struct {
	key   string
	value slog.Value
}

func newReportHandler(h slog.Handler, r Reporter, min slog.Level) slog.Handler {
	return &reportHandler{Handler: h, reporter: r, min: min}
}

func (h *reportHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.min || h.Handler.Enabled(ctx, l)
}

func (h *reportHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.Handler.Enabled(ctx, r.Level) {
		err = h.Handler.Handle(ctx, r)
	}
	if r.Level < h.min {
		return err
	}

	out := make(map[string]any, len(h.fields)+r.NumAttrs()+2)
	var cause error
	add := func(f field) {
		if e, ok := f.value.Any().(error); ok && (f.key == "err" || f.key == "error") {
			cause = e
			out[f.key] = e.Error()
			return
		}
		out[f.key] = f.value.Any()
	}
	for _, f := range h.fields {
		add(f)
	}
	r.Attrs(func(a slog.Attr) bool {
		for _, f := range flatten(h.prefix, a, nil) {
			add(f)
		}
		return true
	})
	for _, a := range spanAttrs(ctx) {
		out[a.Key] = a.Value.Any()
	}

	h.reporter.Report(ctx, r.Level, r.Message, cause, out)
	return err
}

func (h *reportHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]field, 0, len(h.fields)+len(attrs))
	fields = append(fields, h.fields...)
	for _, a := range attrs {
		fields = flatten(h.prefix, a, fields)
	}
	return &reportHandler{
		Handler:  h.Handler.WithAttrs(attrs),
		reporter: h.reporter,
		min:      h.min,
		prefix:   h.prefix,
		fields:   fields,
	}
}

func (h *reportHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &reportHandler{
		Handler:  h.Handler.WithGroup(name),
		reporter: h.reporter,
		min:      h.min,
		prefix:   h.prefix + name + ".",
		fields:   h.fields,
	}
}

// flatten appends a to dst under prefix, expanding group values into dotted
// keys. Empty attrs are dropped and inline groups keep the outer prefix.
func flatten(prefix string, a slog.Attr, dst []field) []field {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range v.Group() {
			dst = flatten(p, ga, dst)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: v})
}
