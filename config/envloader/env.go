// Package envloader decodes settings from process environment variables,
// optionally seeded from a dotenv file, using `env` struct tags.
package envloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/capai/xcommon/config"
)

const (
	errScope   = "envloader"
	dotEnvPath = ".env"
)

var _ config.Loader = (*Loader)(nil)

type Loader struct {
	prefix string
}

type Option func(*Loader)

// WithPrefix only reads variables named prefix + tag.
func WithPrefix(prefix string) Option {
	return func(l *Loader) { l.prefix = prefix }
}

func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) Name() string { return "env" }

// Load seeds the environment from the dotenv file at path (".env" when
// empty, skipped when missing) without overriding variables already set,
// then parses the environment into dst.
func (l *Loader) Load(ctx context.Context, path string, dst any) error {
	if dst == nil {
		return fmt.Errorf("%s: Load called with nil destination", errScope)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if path == "" {
		path = dotEnvPath
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: read %s: %w", errScope, path, err)
	}

	if err := env.ParseWithOptions(dst, env.Options{Prefix: l.prefix}); err != nil {
		return fmt.Errorf("%s: parse: %w", errScope, err)
	}
	return nil
}

// Load parses the environment into dst with the default loader.
func Load(dst any) error {
	return New().Load(context.Background(), "", dst)
}
