package httpx

// Instrumentation selects how inbound requests are traced.
type Instrumentation string

const (
	InstrumentGin  Instrumentation = "gin"  // otelgin middleware, spans named by route template
	InstrumentHTTP Instrumentation = "http" // otelhttp handler wrapping the whole engine
)

type TracingConfig struct {
	Enabled         bool            `env:"ENABLED" mapstructure:"enabled" koanf:"enabled" yaml:"enabled"`
	Instrumentation Instrumentation `env:"INSTRUMENTATION" mapstructure:"instrumentation" koanf:"instrumentation" yaml:"instrumentation"`
	// ExcludePaths are served without a span.
	ExcludePaths []string `env:"EXCLUDE_PATHS" envSeparator:"," mapstructure:"exclude_paths" koanf:"exclude_paths" yaml:"exclude_paths"`
}

type TracingOption func(*TracingConfig)

func WithInstrumentation(i Instrumentation) TracingOption {
	return func(c *TracingConfig) { c.Instrumentation = i }
}

// WithExcludePaths replaces the default exclusion list (the health check).
func WithExcludePaths(paths ...string) TracingOption {
	return func(c *TracingConfig) { c.ExcludePaths = append([]string{}, paths...) }
}

func NewTracingConfig(opts ...TracingOption) TracingConfig {
	cfg := TracingConfig{
		Enabled:         true,
		Instrumentation: InstrumentGin,
		ExcludePaths:    []string{HealthPath},
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
