// Package config aggregates the settings of every xcommon component and
// loads them through interchangeable Loader implementations.
package config

import (
	"context"
)

// Loader decodes configuration into dst. path is loader specific: a dotenv
// file for envloader, a YAML file for viperloader and koanfloader. A missing
// file is not an error.
type Loader interface {
	Load(ctx context.Context, path string, dst any) error
	Name() string
}
