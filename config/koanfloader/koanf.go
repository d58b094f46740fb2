// Package koanfloader decodes settings from a YAML file overlaid with
// prefixed environment variables through knadh/koanf.
package koanfloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/capai/xcommon/config"
)

const (
	delim     = "."
	nestSep   = "__"
	decodeTag = "koanf"
)

var _ config.Loader = (*Loader)(nil)

// Loader maps PREFIX + SECTION__FIELD variables onto section.field keys, so
// XC_SENTRY__DSN sets sentry.dsn when the prefix is "XC_".
type Loader struct {
	prefix string
}

type Option func(*Loader)

func WithPrefix(prefix string) Option {
	return func(l *Loader) { l.prefix = prefix }
}

func New(opts ...Option) *Loader {
	l := &Loader{prefix: "XC_"}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) Name() string { return "koanf" }

// Load reads the YAML file at path (skipped when empty or missing), then the
// prefixed environment, and decodes the result into dst by `koanf` tags.
func (l *Loader) Load(ctx context.Context, path string, dst any) error {
	if dst == nil {
		return errors.New("koanfloader: Load called with nil destination")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	k := koanf.New(delim)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("koanfloader: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(delim, env.Opt{
		Prefix:        l.prefix,
		TransformFunc: l.transform,
	}), nil); err != nil {
		return fmt.Errorf("koanfloader: read env: %w", err)
	}

	if err := k.UnmarshalWithConf("", dst, koanf.UnmarshalConf{Tag: decodeTag}); err != nil {
		return fmt.Errorf("koanfloader: unmarshal: %w", err)
	}
	return nil
}

func (l *Loader) transform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, l.prefix)
	key = strings.ReplaceAll(strings.ToLower(key), nestSep, delim)
	return key, value
}
