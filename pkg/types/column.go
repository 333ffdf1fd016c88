package types

import (
	"fmt"
	"regexp"
)

// FormatText is the default column format.
const FormatText = "text"

// columnShorthand is the grammar for "attribute[:format[:label]]".
var columnShorthand = regexp.MustCompile(`^([^:]+)(:(\w*))?(:(.*))?$`)

// ValueFunc computes a cell value for a record instead of reading an
// attribute.
type ValueFunc func(rec Record, key Key, index int) (any, error)

// OptionsFunc computes HTML attributes for a row or cell.
type OptionsFunc func(rec Record, key Key, index int) (map[string]any, error)

// ColumnSpec describes one table column. It is immutable once the grid is
// constructed.
type ColumnSpec struct {
	// Attribute names the record field rendered in the column. Dotted paths
	// reach into nested maps and JSON documents.
	Attribute string `mapstructure:"attribute" yaml:"attribute"`

	// Value overrides Attribute when set.
	Value ValueFunc `mapstructure:"-" yaml:"-"`

	// Format selects the formatter rule (text, raw, ntext, integer, decimal,
	// percent, boolean, date, datetime, email, url). Empty means text.
	Format string `mapstructure:"format" yaml:"format"`

	// Label is the header text. Empty means the humanized attribute name.
	Label string `mapstructure:"label" yaml:"label"`

	// EncodeLabel controls HTML escaping of Label. Nil means true.
	EncodeLabel *bool `mapstructure:"encode_label" yaml:"encode_label"`

	// Header, when non-empty, replaces the label as raw header markup.
	Header string `mapstructure:"header" yaml:"header"`

	// Footer is raw footer cell markup.
	Footer string `mapstructure:"footer" yaml:"footer"`

	// Visible drops the column entirely when false. Nil means true.
	Visible *bool `mapstructure:"visible" yaml:"visible"`

	// Options are the attributes of the column's <col> element. Any column
	// with options makes the table emit a <colgroup>.
	Options map[string]any `mapstructure:"options" yaml:"options"`

	HeaderOptions  map[string]any `mapstructure:"header_options" yaml:"header_options"`
	ContentOptions map[string]any `mapstructure:"content_options" yaml:"content_options"`
	FooterOptions  map[string]any `mapstructure:"footer_options" yaml:"footer_options"`

	// ContentOptionsFunc overrides ContentOptions per row.
	ContentOptionsFunc OptionsFunc `mapstructure:"-" yaml:"-"`
}

// IsVisible reports whether the column is rendered.
func (c ColumnSpec) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// ShouldEncodeLabel reports whether the label is HTML-escaped.
func (c ColumnSpec) ShouldEncodeLabel() bool {
	return c.EncodeLabel == nil || *c.EncodeLabel
}

// ParseColumn parses the "attribute[:format[:label]]" shorthand. An empty
// format falls back to FormatText; a missing label is left empty for the
// renderer to humanize.
func ParseColumn(shorthand string) (ColumnSpec, error) {
	m := columnShorthand.FindStringSubmatch(shorthand)
	if m == nil {
		return ColumnSpec{}, fmt.Errorf("%w: %w: %q must be \"attribute\", \"attribute:format\" or \"attribute:format:label\"",
			ErrConfiguration, ErrInvalidColumn, shorthand)
	}
	spec := ColumnSpec{
		Attribute: m[1],
		Format:    m[3],
		Label:     m[5],
	}
	if spec.Format == "" {
		spec.Format = FormatText
	}
	return spec, nil
}

// Bool returns a pointer to b, for the optional flags of ColumnSpec.
func Bool(b bool) *bool { return &b }
