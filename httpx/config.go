package httpx

import "time"

type Config struct {
	Name string `env:"HTTP_NAME" mapstructure:"name" koanf:"name" yaml:"name"`
	Addr string `env:"HTTP_ADDR" mapstructure:"addr" koanf:"addr" yaml:"addr"`

	// Timeouts
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" mapstructure:"read_header_timeout" koanf:"read_header_timeout" yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" mapstructure:"read_timeout" koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" mapstructure:"write_timeout" koanf:"write_timeout" yaml:"write_timeout"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" mapstructure:"idle_timeout" koanf:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" mapstructure:"shutdown_timeout" koanf:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Gin
	GinMode string `env:"GIN_MODE" mapstructure:"gin_mode" koanf:"gin_mode" yaml:"gin_mode"` // gin.ReleaseMode / gin.DebugMode / gin.TestMode

	// Features
	Metrics   MetricsConfig   `envPrefix:"HTTP_METRICS_" mapstructure:"metrics" koanf:"metrics" yaml:"metrics"`
	Tracing   TracingConfig   `envPrefix:"HTTP_TRACING_" mapstructure:"tracing" koanf:"tracing" yaml:"tracing"`
	Sentry    SentryConfig    `envPrefix:"HTTP_SENTRY_" mapstructure:"sentry" koanf:"sentry" yaml:"sentry"`
	Profiling ProfilingConfig `envPrefix:"PYROSCOPE_" mapstructure:"profiling" koanf:"profiling" yaml:"profiling"`
	Pprof     PprofConfig     `envPrefix:"HTTP_PPROF_" mapstructure:"pprof" koanf:"pprof" yaml:"pprof"`
}

func defaultConfig() Config {
	return Config{
		Name:              "http",
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		GinMode:           "release",
		Metrics:           MetricsConfig{Path: defaultMetricsPath},
		Tracing:           TracingConfig{Instrumentation: InstrumentGin, ExcludePaths: []string{HealthPath}},
		Sentry:            SentryConfig{Repanic: true, FlushTimeout: 2 * time.Second},
		Pprof:             PprofConfig{Prefix: defaultPprofPrefix},
	}
}
