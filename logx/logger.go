// Package logx builds the slog logger shared by services: JSON in deployed
// environments, text locally, trace ids from the active span and error
// records forwarded to Sentry.
package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// New builds a logger from cfg without touching slog's default.
func New(cfg Config, opts ...Option) *slog.Logger {
	o := newOptions(opts)

	hopts := &slog.HandlerOptions{Level: parseLevel(cfg.Level, slog.LevelInfo)}

	var h slog.Handler
	if useText(cfg, o.out) {
		h = slog.NewTextHandler(o.out, hopts)
	} else {
		h = slog.NewJSONHandler(o.out, hopts)
	}
	h = newTraceHandler(h)

	if !strings.EqualFold(strings.TrimSpace(cfg.ReportLevel), reportOff) && o.reporter != nil {
		h = newReportHandler(h, o.reporter, parseLevel(cfg.ReportLevel, slog.LevelError))
	}

	l := slog.New(h)
	if len(o.attrs) > 0 {
		args := make([]any, 0, len(o.attrs))
		for _, a := range o.attrs {
			args = append(args, a)
		}
		l = l.With(args...)
	}
	return l
}

// Setup builds the logger and installs it as slog's default.
func Setup(cfg Config, opts ...Option) *slog.Logger {
	l := New(cfg, opts...)
	slog.SetDefault(l)
	return l
}

func useText(cfg Config, out io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case FormatJSON:
		return false
	case FormatText:
		return true
	}
	if strings.EqualFold(cfg.Environment, "local") {
		return true
	}
	if f, ok := out.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
