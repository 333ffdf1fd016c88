// Package markup serializes HTML tags and attributes for the grid renderer.
package markup

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
)

// Attrs holds HTML attributes. Values may be strings, numbers, booleans
// (true renders the bare attribute, false omits it), string slices (joined
// with spaces) or any JSON-encodable value.
type Attrs map[string]any

// attrOrder lists attributes rendered first, in this order. The remaining
// attributes follow in lexical order so output is deterministic.
var attrOrder = []string{
	"type", "id", "class", "name", "value", "href", "src", "for",
	"action", "method", "selected", "checked", "readonly", "disabled",
	"multiple", "size", "maxlength", "width", "height", "rows", "cols",
	"alt", "title", "rel", "media",
}

var attrRank = func() map[string]int {
	m := make(map[string]int, len(attrOrder))
	for i, a := range attrOrder {
		m[a] = i
	}
	return m
}()

// voidElements never have content or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Clone returns a shallow copy of a. Slice values are copied so AddClass on
// the clone never touches the original.
func (a Attrs) Clone() Attrs {
	c := make(Attrs, len(a))
	for k, v := range a {
		if s, ok := v.([]string); ok {
			v = append([]string(nil), s...)
		}
		c[k] = v
	}
	return c
}

// FromMap converts a plain map into Attrs, cloning it.
func FromMap(m map[string]any) Attrs {
	return Attrs(m).Clone()
}

// Pop removes key from a and returns its string value, or def when absent.
func (a Attrs) Pop(key, def string) string {
	v, ok := a[key]
	if !ok {
		return def
	}
	delete(a, key)
	if s := valueString(v); s != "" {
		return s
	}
	return def
}

// AddClass appends CSS classes to the class attribute, skipping duplicates.
func (a Attrs) AddClass(classes ...string) {
	existing := classList(a["class"])
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c] = true
	}
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if !seen[f] {
				seen[f] = true
				existing = append(existing, f)
			}
		}
	}
	if len(existing) > 0 {
		a["class"] = existing
	}
}

func classList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(t)
	case []string:
		return append([]string(nil), t...)
	default:
		return strings.Fields(fmt.Sprint(t))
	}
}

// Encode escapes s for use as HTML text or attribute content.
func Encode(s string) string {
	return html.EscapeString(s)
}

// Tag renders an element. Content is inserted verbatim; void elements
// ignore it.
func Tag(name, content string, attrs Attrs) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	b.WriteString(RenderAttrs(attrs))
	b.WriteByte('>')
	if voidElements[name] {
		return b.String()
	}
	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
	return b.String()
}

// RenderAttrs renders attrs with a leading space before each attribute.
func RenderAttrs(attrs Attrs) string {
	if len(attrs) == 0 {
		return ""
	}
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := attrRank[names[i]]
		rj, jok := attrRank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return names[i] < names[j]
		}
	})

	var b strings.Builder
	for _, name := range names {
		v := attrs[name]
		switch t := v.(type) {
		case nil:
			continue
		case bool:
			if t {
				b.WriteByte(' ')
				b.WriteString(name)
			}
			continue
		}
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(Encode(valueString(v)))
		b.WriteByte('"')
	}
	return b.String()
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, " ")
	case fmt.Stringer:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
