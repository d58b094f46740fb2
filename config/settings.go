package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/capai/xcommon/error/xerr"
	"github.com/capai/xcommon/httpx"
	"github.com/capai/xcommon/logx"
	"github.com/capai/xcommon/otelx"
	"github.com/capai/xcommon/sentryx"
)

type Settings struct {
	// SentryFlavor overrides runtime detection when set.
	SentryFlavor sentryx.Flavor `env:"SENTRY_FLAVOR" mapstructure:"sentry_flavor" koanf:"sentry_flavor" yaml:"sentry_flavor"`

	Sentry sentryx.Config `mapstructure:"sentry" koanf:"sentry" yaml:"sentry"`
	Otel   otelx.Config   `mapstructure:"otel" koanf:"otel" yaml:"otel"`
	Log    logx.Config    `mapstructure:"log" koanf:"log" yaml:"log"`
	HTTP   httpx.Config   `mapstructure:"http" koanf:"http" yaml:"http"`
}

// Defaults returns Settings holding only the envDefault values, independent
// of the process environment.
func Defaults() (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: map[string]string{}}); err != nil {
		return Settings{}, fmt.Errorf("config: defaults: %w", err)
	}
	return s, nil
}

// Load fills Settings from the defaults, then from l.
func Load(ctx context.Context, l Loader, path string) (Settings, error) {
	s, err := Defaults()
	if err != nil {
		return Settings{}, err
	}
	if err := l.Load(ctx, path, &s); err != nil {
		return Settings{}, xerr.Configuration(xerr.CodeConfiguration,
			fmt.Sprintf("config: %s loader", l.Name()), err)
	}
	return s, nil
}
