package httpx

const defaultMetricsPath = "/metrics"

type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" mapstructure:"enabled" koanf:"enabled" yaml:"enabled"`
	Path    string `env:"PATH" mapstructure:"path" koanf:"path" yaml:"path"` // default "/metrics"

	// only applied to a registry passed with WithMetricsRegistry;
	// the default registry already carries both collectors.
	EnableGoCollector      bool `env:"GO_COLLECTOR" envDefault:"true" mapstructure:"go_collector" koanf:"go_collector" yaml:"go_collector"`
	EnableProcessCollector bool `env:"PROCESS_COLLECTOR" envDefault:"true" mapstructure:"process_collector" koanf:"process_collector" yaml:"process_collector"`
}

func NewMetricConfig(opts ...MetricsOption) MetricsConfig {
	cfg := MetricsConfig{
		Enabled:                true,
		Path:                   defaultMetricsPath,
		EnableGoCollector:      true,
		EnableProcessCollector: true,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func DisableMetrics() MetricsConfig {
	return MetricsConfig{Enabled: false}
}

type MetricsOption func(*MetricsConfig)

func WithMetricsPath(path string) MetricsOption {
	return func(c *MetricsConfig) {
		if path != "" {
			c.Path = path
		}
	}
}

func WithGoCollector(enabled bool) MetricsOption {
	return func(c *MetricsConfig) { c.EnableGoCollector = enabled }
}

func WithProcessCollector(enabled bool) MetricsOption {
	return func(c *MetricsConfig) { c.EnableProcessCollector = enabled }
}
