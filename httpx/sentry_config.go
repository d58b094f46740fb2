package httpx

import "time"

type SentryConfig struct {
	Enabled bool `env:"ENABLED" mapstructure:"enabled" koanf:"enabled" yaml:"enabled"`
	// Repanic hands the panic on to gin.Recovery after it is reported.
	Repanic bool `env:"REPANIC" envDefault:"true" mapstructure:"repanic" koanf:"repanic" yaml:"repanic"`
	// FlushTimeout bounds the flush of buffered events on Stop.
	FlushTimeout time.Duration `env:"FLUSH_TIMEOUT" envDefault:"2s" mapstructure:"flush_timeout" koanf:"flush_timeout" yaml:"flush_timeout"`
}
