package httpx

const defaultPprofPrefix = "/debug/pprof"

type PprofConfig struct {
	Enabled bool   `env:"ENABLED" mapstructure:"enabled" koanf:"enabled" yaml:"enabled"`
	Prefix  string `env:"PREFIX" mapstructure:"prefix" koanf:"prefix" yaml:"prefix"` // default: "/debug/pprof"
}

type PprofOption func(*PprofConfig)

func WithPprofPrefix(prefix string) PprofOption {
	return func(c *PprofConfig) { c.Prefix = prefix }
}

func EnablePprof(opts ...PprofOption) PprofConfig {
	cfg := PprofConfig{
		Enabled: true,
		Prefix:  defaultPprofPrefix,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func DisablePprof() PprofConfig { return PprofConfig{Enabled: false} }
