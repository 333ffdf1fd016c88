package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a record within one render pass. A key is either scalar
// (string, number, ...) or composite (a set of named fields). The zero Key
// means "no key" and is used for root scoping and absent parents.
//
// A scalar key must not serialize to text starting with "{" (leading spaces
// ignored): that form is reserved for composite keys. See Validate.
type Key struct {
	scalar    any
	composite map[string]any
	set       bool
}

// NewKey wraps v as a Key. Maps with string keys become composite keys, an
// existing Key is returned unchanged, and nil yields the zero Key.
func NewKey(v any) Key {
	switch t := v.(type) {
	case nil:
		return Key{}
	case Key:
		return t
	case map[string]any:
		return CompositeKey(t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return CompositeKey(m)
	default:
		return Key{scalar: v, set: true}
	}
}

// CompositeKey builds a key from named fields. The field map is copied.
func CompositeKey(fields map[string]any) Key {
	if len(fields) == 0 {
		return Key{}
	}
	m := make(map[string]any, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return Key{composite: m, set: true}
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool { return !k.set }

// IsComposite reports whether k was built from named fields.
func (k Key) IsComposite() bool { return k.composite != nil }

// Value returns the scalar value or a copy of the composite fields.
func (k Key) Value() any {
	if k.composite != nil {
		m := make(map[string]any, len(k.composite))
		for f, v := range k.composite {
			m[f] = v
		}
		return m
	}
	return k.scalar
}

// String serializes the key. Scalar keys stringify directly; composite keys
// encode as a JSON object with field names in sorted order, so two equal
// composite keys always produce the same token regardless of how their
// fields were inserted. The zero Key serializes to "".
func (k Key) String() string {
	if !k.set {
		return ""
	}
	if k.composite != nil {
		// encoding/json sorts map keys.
		b, err := json.Marshal(k.composite)
		if err != nil {
			return fmt.Sprint(k.composite)
		}
		return string(b)
	}
	switch v := k.scalar.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Equal reports whether both keys serialize to the same token.
func (k Key) Equal(other Key) bool {
	return k.set == other.set && k.String() == other.String()
}

// Validate returns an error wrapping ErrInvalidKey when k is a scalar key
// whose serialization would parse back as a composite key.
func (k Key) Validate() error {
	if k.set && k.composite == nil {
		if s := k.String(); strings.HasPrefix(strings.TrimSpace(s), "{") {
			return fmt.Errorf("%w: scalar key %q starts with \"{\"", ErrInvalidKey, s)
		}
	}
	return nil
}

// ParseKey is the inverse of Key.String for valid keys. Text starting with
// "{" must be a JSON object and yields a composite key, the empty string
// yields the zero Key and anything else is a scalar string key.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, nil
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return Key{scalar: s, set: true}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, s, err)
	}
	if dec.More() {
		return Key{}, fmt.Errorf("%w: %q: trailing data", ErrInvalidKey, s)
	}
	if len(fields) == 0 {
		return Key{}, fmt.Errorf("%w: %q: empty composite key", ErrInvalidKey, s)
	}
	return Key{composite: fields, set: true}, nil
}
