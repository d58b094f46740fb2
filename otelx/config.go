package otelx

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeManual     Mode = "manual"     // OTLP/HTTP exporters built from Config
	ModeAutoExport Mode = "autoexport" // exporters picked from OTEL_* env vars
)

type Config struct {
	Mode            Mode              `env:"OTEL_MODE" envDefault:"manual" mapstructure:"mode" koanf:"mode" yaml:"mode"`
	Endpoint        string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT" mapstructure:"endpoint" koanf:"endpoint" yaml:"endpoint"`
	ServiceName     string            `env:"OTEL_SERVICE_NAME" mapstructure:"service_name" koanf:"service_name" yaml:"service_name"`
	ServiceVersion  string            `env:"IMAGE_TAG" mapstructure:"service_version" koanf:"service_version" yaml:"service_version"`
	ApplicationName string            `env:"OTEL_APPLICATION_NAME" mapstructure:"application_name" koanf:"application_name" yaml:"application_name"`
	Environment     string            `env:"ENVIRONMENT" envDefault:"local" mapstructure:"environment" koanf:"environment" yaml:"environment"`
	SendDataKey     string            `env:"CORALOGIX_SEND_DATA_KEY" mapstructure:"send_data_key" koanf:"send_data_key" yaml:"send_data_key"`
	Headers         map[string]string `env:"OTEL_EXTRA_HEADERS" mapstructure:"headers" koanf:"headers" yaml:"headers"`
	Propagators     []string          `env:"OTEL_PROPAGATORS" envDefault:"tracecontext,baggage" envSeparator:"," mapstructure:"propagators" koanf:"propagators" yaml:"propagators"`
	MetricInterval  time.Duration     `env:"OTEL_METRIC_INTERVAL" envDefault:"60s" mapstructure:"metric_interval" koanf:"metric_interval" yaml:"metric_interval"`
	Prometheus      bool              `env:"OTEL_PROMETHEUS_ENABLED" mapstructure:"prometheus" koanf:"prometheus" yaml:"prometheus"`
	SentryBridge    bool              `env:"OTEL_SENTRY_BRIDGE" envDefault:"true" mapstructure:"sentry_bridge" koanf:"sentry_bridge" yaml:"sentry_bridge"`
}

const defaultMetricInterval = 60 * time.Second

func (c Config) metricInterval() time.Duration {
	if c.MetricInterval <= 0 {
		return defaultMetricInterval
	}
	return c.MetricInterval
}

type options struct {
	log        *slog.Logger
	registerer prometheus.Registerer
	setGlobals bool
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithPrometheusRegisterer sets where the Prometheus reader registers its
// collector. Defaults to prometheus.DefaultRegisterer, which httpx serves.
func WithPrometheusRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		if r != nil {
			o.registerer = r
		}
	}
}

// WithoutGlobals keeps the providers off the otel globals.
func WithoutGlobals() Option {
	return func(o *options) { o.setGlobals = false }
}

func newOptions(opts []Option) *options {
	o := &options{
		log:        slog.Default(),
		registerer: prometheus.DefaultRegisterer,
		setGlobals: true,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
