package httpx

type ProfilingConfig struct {
	Enabled       bool              `env:"ENABLED" mapstructure:"enabled" koanf:"enabled" yaml:"enabled"`
	ServerAddress string            `env:"SERVER_ADDRESS" mapstructure:"server_address" koanf:"server_address" yaml:"server_address"` // e.g. http://pyroscope.monitoring:4040
	Tags          map[string]string `env:"TAGS" mapstructure:"tags" koanf:"tags" yaml:"tags"`                                       // env, version, pod, etc
	TagByRoute    bool              `env:"TAG_BY_ROUTE" envDefault:"true" mapstructure:"tag_by_route" koanf:"tag_by_route" yaml:"tag_by_route"`
	MutexRate     int               `env:"MUTEX_RATE" mapstructure:"mutex_rate" koanf:"mutex_rate" yaml:"mutex_rate"`
	BlockRate     int               `env:"BLOCK_RATE" mapstructure:"block_rate" koanf:"block_rate" yaml:"block_rate"`
}

type ProfilingOption func(*ProfilingConfig)

func WithProfilingTags(tags map[string]string) ProfilingOption {
	return func(c *ProfilingConfig) {
		if tags == nil {
			return
		}
		c.Tags = make(map[string]string, len(tags))
		for k, v := range tags {
			c.Tags[k] = v
		}
	}
}

func WithProfilingTagByRoute(enabled bool) ProfilingOption {
	return func(c *ProfilingConfig) { c.TagByRoute = enabled }
}

func WithProfilingMutexRate(rate int) ProfilingOption {
	return func(c *ProfilingConfig) { c.MutexRate = rate }
}

func WithProfilingBlockRate(rate int) ProfilingOption {
	return func(c *ProfilingConfig) { c.BlockRate = rate }
}

func NewProfilingConfig(serverAddr string, opts ...ProfilingOption) ProfilingConfig {
	cfg := ProfilingConfig{
		Enabled:       true,
		ServerAddress: serverAddr,
		TagByRoute:    true,
		Tags:          map[string]string{},
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
