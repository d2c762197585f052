// Package config decodes process configuration (unit count, heap-size
// analogue, remove mode, debug level) the way
// fs/config/configstruct + fs/config/configmap decode an rclone
// backend's Options: reflect over struct tags, pull each field's value
// out of a Getter by its snake_case name.
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Getter is the minimal lookup a config source must provide, mirroring
// configmap.Getter.
type Getter interface {
	Get(key string) (value string, ok bool)
}

// Item describes one struct field Set can assign into.
type Item struct {
	Name  string
	Field string
	Value any
	Set   func(value string) error
}

// Items walks in (a pointer to a struct) and returns one Item per
// field, recursing into embedded/nested struct fields the way
// configstruct.Items does, skipping fields tagged `config:"-"`.
func Items(in any) ([]Item, error) {
	v := reflect.ValueOf(in)
	if v.Kind() != reflect.Ptr {
		return nil, errors.New("argument must be a pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, errors.New("argument must be a pointer to a struct")
	}
	return items(v, "")
}

func items(v reflect.Value, prefix string) ([]Item, error) {
	t := v.Type()
	var out []Item
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		tag, tagged := field.Tag.Lookup("config")
		if tag == "-" {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && !tagged && field.Type.Name() != "Tristate" {
			nested, err := items(fv, prefix)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		name := tag
		if name == "" {
			name = toSnakeCase(field.Name)
		}
		name = prefix + name
		fvCopy := fv
		out = append(out, Item{
			Name:  name,
			Field: field.Name,
			Value: fv.Interface(),
			Set:   func(value string) error { return assign(fvCopy, value) },
		})
	}
	return out, nil
}

// Set reads each item's named key out of g and assigns it, the way
// configstruct.Set populates a backend Options struct from the config
// file + environment + command-line overrides configmap.Mapper layers
// together.
func Set(g Getter, in any) error {
	items, err := Items(in)
	if err != nil {
		return err
	}
	for _, item := range items {
		value, ok := g.Get(item.Name)
		if !ok {
			continue
		}
		if err := item.Set(value); err != nil {
			return errors.Wrapf(err, "couldn't parse config item %q = %q as %T", item.Name, value, item.Value)
		}
	}
	return nil
}

func assign(fv reflect.Value, value string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		fv.SetUint(n)
	default:
		return fmt.Errorf("unsupported config field kind %s", fv.Kind())
	}
	return nil
}

// toSnakeCase converts CamelCase to snake_case, matching
// configstruct's field-name default.
func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
