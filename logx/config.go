package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"

	reportOff = "off"
)

type Config struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info" mapstructure:"level" koanf:"level" yaml:"level"`
	Format      string `env:"LOG_FORMAT" mapstructure:"format" koanf:"format" yaml:"format"` // json, text or empty to detect
	Environment string `env:"ENVIRONMENT" envDefault:"local" mapstructure:"environment" koanf:"environment" yaml:"environment"`
	ReportLevel string `env:"LOG_REPORT_LEVEL" envDefault:"error" mapstructure:"report_level" koanf:"report_level" yaml:"report_level"` // "off" disables forwarding
}

type options struct {
	out      io.Writer
	reporter Reporter
	attrs    []slog.Attr
}

type Option func(*options)

func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithReporter replaces the Sentry reporter used for forwarded records.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithAttrs adds attributes to every record, e.g. the service name.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return fallback
	}
	return l
}

func newOptions(opts []Option) *options {
	o := &options{out: os.Stdout, reporter: SentryReporter{}}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
