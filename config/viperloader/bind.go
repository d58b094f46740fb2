package viperloader

import (
	"reflect"
	"strings"
)

type binding struct {
	key string // dotted mapstructure path
	env string
}

// envBindings walks dst and pairs the mapstructure path of every field that
// carries an `env` tag with its variable name, honouring `envPrefix` on
// nested structs.
func envBindings(dst any) []binding {
	t := reflect.TypeOf(dst)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []binding
	collect(t, "", "", &out)
	return out
}

func collect(t reflect.Type, keyPrefix, envPrefix string, out *[]binding) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := tagName(f)
		if name == "-" {
			continue
		}
		key := name
		if keyPrefix != "" {
			key = keyPrefix + "." + name
		}

		if envName, ok := f.Tag.Lookup("env"); ok {
			envName, _, _ = strings.Cut(envName, ",")
			*out = append(*out, binding{key: key, env: envPrefix + envName})
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			collect(ft, key, envPrefix+f.Tag.Get("envPrefix"), out)
		}
	}
}

func tagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}
