package sentryx

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	defaultEnvironment  = "local"
	defaultFlushTimeout = 2 * time.Second
)

// Config holds the client settings shared by both flavours.
type Config struct {
	DSN              string            `env:"SENTRY_DSN" mapstructure:"dsn" koanf:"dsn" yaml:"dsn"`
	Environment      string            `env:"ENVIRONMENT" envDefault:"local" mapstructure:"environment" koanf:"environment" yaml:"environment"`
	Release          string            `env:"SENTRY_RELEASE" mapstructure:"release" koanf:"release" yaml:"release"`
	ImageTag         string            `env:"IMAGE_TAG" mapstructure:"image_tag" koanf:"image_tag" yaml:"image_tag"`
	ServiceName      string            `env:"OTEL_SERVICE_NAME" mapstructure:"service_name" koanf:"service_name" yaml:"service_name"`
	SampleRate       float64           `env:"SENTRY_SAMPLE_RATE" envDefault:"1.0" mapstructure:"sample_rate" koanf:"sample_rate" yaml:"sample_rate"`
	TracesSampleRate float64           `env:"SENTRY_TRACES_SAMPLE_RATE" envDefault:"1.0" mapstructure:"traces_sample_rate" koanf:"traces_sample_rate" yaml:"traces_sample_rate"`
	EnableTracing    bool              `env:"SENTRY_ENABLE_TRACING" envDefault:"true" mapstructure:"enable_tracing" koanf:"enable_tracing" yaml:"enable_tracing"`
	SendDefaultPII   bool              `env:"SENTRY_SEND_DEFAULT_PII" envDefault:"true" mapstructure:"send_default_pii" koanf:"send_default_pii" yaml:"send_default_pii"`
	AttachStacktrace bool              `env:"SENTRY_ATTACH_STACKTRACE" envDefault:"true" mapstructure:"attach_stacktrace" koanf:"attach_stacktrace" yaml:"attach_stacktrace"`
	Debug            bool              `env:"SENTRY_DEBUG" mapstructure:"debug" koanf:"debug" yaml:"debug"`
	FlushTimeout     time.Duration     `env:"SENTRY_FLUSH_TIMEOUT" envDefault:"2s" mapstructure:"flush_timeout" koanf:"flush_timeout" yaml:"flush_timeout"`
	Tags             map[string]string `env:"SENTRY_TAGS" mapstructure:"tags" koanf:"tags" yaml:"tags"`
}

func (c Config) environment() string {
	if c.Environment == "" {
		return defaultEnvironment
	}
	return c.Environment
}

func (c Config) flushTimeout() time.Duration {
	if c.FlushTimeout <= 0 {
		return defaultFlushTimeout
	}
	return c.FlushTimeout
}

type options struct {
	flavor     Flavor
	lookup     LookupFunc
	log        *slog.Logger
	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
	hostname   func() (string, error)
}

type Option func(*options)

// WithFlavor bypasses detection.
func WithFlavor(f Flavor) Option {
	return func(o *options) { o.flavor = f }
}

// WithLookupEnv replaces os.Getenv as the source of the function signal.
func WithLookupEnv(fn LookupFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.lookup = fn
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithBeforeSend installs a hook that can modify or drop every event.
func WithBeforeSend(fn func(*sentry.Event, *sentry.EventHint) *sentry.Event) Option {
	return func(o *options) { o.beforeSend = fn }
}

func newOptions(opts []Option) *options {
	o := &options{
		flavor:   FlavorAuto,
		lookup:   os.Getenv,
		log:      slog.Default(),
		hostname: os.Hostname,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
