package grid

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// ValueOf resolves a dotted attribute path against a record. It understands
// types.FieldGetter, string-keyed maps, JSON documents (json.RawMessage or
// []byte) and structs (matched by field name or json tag). Missing values
// resolve to nil.
func ValueOf(rec types.Record, path string) any {
	if rec == nil || path == "" {
		return nil
	}
	switch t := rec.(type) {
	case json.RawMessage:
		return jsonValue(t, path)
	case []byte:
		return jsonValue(t, path)
	}

	// A field named with dots wins over nested lookup.
	if v, ok := field(rec, path); ok {
		return v
	}
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		return nil
	}
	v, ok := field(rec, head)
	if !ok {
		return nil
	}
	return ValueOf(v, rest)
}

func jsonValue(doc []byte, path string) any {
	r := gjson.GetBytes(doc, path)
	if !r.Exists() {
		return nil
	}
	return r.Value()
}

func field(rec any, name string) (any, bool) {
	switch t := rec.(type) {
	case types.FieldGetter:
		return t.Field(name)
	case map[string]any:
		v, ok := t[name]
		return v, ok
	case map[string]string:
		v, ok := t[name]
		return v, ok
	}

	rv := reflect.ValueOf(rec)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		sf, ok := structField(rv.Type(), name)
		if !ok {
			return nil, false
		}
		return rv.FieldByIndex(sf.Index).Interface(), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
	return nil, false
}

// structField finds an exported field by json tag, exact name or
// case-insensitive name, in that order.
func structField(t reflect.Type, name string) (reflect.StructField, bool) {
	var fold reflect.StructField
	var folded bool
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag == name {
			return sf, true
		}
		if sf.Name == name {
			return sf, true
		}
		if !folded && strings.EqualFold(sf.Name, name) {
			fold, folded = sf, true
		}
	}
	return fold, folded
}

// fieldNames lists the attributes of rec for column guessing.
func fieldNames(rec types.Record) []string {
	switch t := rec.(type) {
	case types.FieldLister:
		return t.FieldNames()
	case map[string]any:
		return sortedKeys(t)
	case json.RawMessage:
		return jsonKeys(t)
	case []byte:
		return jsonKeys(t)
	}
	rv := reflect.ValueOf(rec)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		switch tag {
		case "-":
			continue
		case "":
			names = append(names, sf.Name)
		default:
			names = append(names, tag)
		}
	}
	return names
}

func jsonKeys(doc []byte) []string {
	var names []string
	gjson.ParseBytes(doc).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
