package store

import (
	"reflect"
	"slices"
	"strings"
)

// Pick returns the named top-level fields of doc, keyed by json name, with
// their typed values. Unknown names are ignored. doc must be a struct or a
// pointer to one.
func Pick(doc any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	rv := reflect.ValueOf(doc)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonName(field)
		if name == "" || !slices.Contains(keys, name) {
			continue
		}
		out[name] = rv.Field(i).Interface()
	}
	return out
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}
