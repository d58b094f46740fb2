// Package viperloader decodes settings from a YAML file overlaid with
// environment variables through spf13/viper.
package viperloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/capai/xcommon/config"
)

const (
	dotEnvPath = ".env"
	decoderTag = "mapstructure"
	configType = "yaml"
)

var _ config.Loader = (*Loader)(nil)

type Loader struct {
	dotEnv string
}

type Option func(*Loader)

// WithDotEnv seeds the environment from a dotenv file before binding.
// Defaults to ".env"; a missing file is skipped.
func WithDotEnv(path string) Option {
	return func(l *Loader) { l.dotEnv = path }
}

func New(opts ...Option) *Loader {
	l := &Loader{dotEnv: dotEnvPath}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) Name() string { return "viper" }

// Load merges, lowest precedence first: the YAML file at path, the dotenv
// file, the process environment. Variables are bound by the `env` tag of
// each field of dst.
func (l *Loader) Load(ctx context.Context, path string, dst any) error {
	if dst == nil {
		return errors.New("viperloader: Load called with nil destination")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(false)

	if path != "" {
		if err := mergeConfigIgnoreNotFound(v, path, configType, "viperloader: read "+path); err != nil {
			return err
		}
	}

	if l.dotEnv != "" {
		if err := godotenv.Load(l.dotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("viperloader: read %s: %w", l.dotEnv, err)
		}
	}

	for _, b := range envBindings(dst) {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("viperloader: bind %s: %w", b.key, err)
		}
	}

	if err := v.Unmarshal(dst, func(c *mapstructure.DecoderConfig) {
		c.TagName = decoderTag
		c.WeaklyTypedInput = true // "8080" -> int
	}); err != nil {
		return fmt.Errorf("viperloader: unmarshal: %w", err)
	}
	return nil
}

// mergeConfigIgnoreNotFound sets the config file (and optional type), merges it,
// and returns nil if the file is missing, or a wrapped error otherwise.
func mergeConfigIgnoreNotFound(v *viper.Viper, path, cfgType, errPrefix string) error {
	v.SetConfigFile(path)
	if cfgType != "" {
		v.SetConfigType(cfgType)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", errPrefix, err)
		}
	}
	return nil
}
