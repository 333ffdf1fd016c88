package grid

import (
	"fmt"

	"github.com/mesh-intelligence/treegrid/internal/markup"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Column renders the cells of one table column.
type Column struct {
	spec      types.ColumnSpec
	label     string
	formatter Formatter
	emptyCell string
}

// ParseColumns builds column specs from shorthand strings
// ("attribute[:format[:label]]") and types.ColumnSpec values.
func ParseColumns(defs ...any) ([]types.ColumnSpec, error) {
	specs := make([]types.ColumnSpec, 0, len(defs))
	for i, d := range defs {
		switch t := d.(type) {
		case string:
			spec, err := types.ParseColumn(t)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		case types.ColumnSpec:
			specs = append(specs, t)
		case *types.ColumnSpec:
			if t == nil {
				return nil, fmt.Errorf("%w: column %d is nil", types.ErrConfiguration, i)
			}
			specs = append(specs, *t)
		default:
			return nil, fmt.Errorf("%w: column %d has unsupported type %T", types.ErrConfiguration, i, d)
		}
	}
	return specs, nil
}

// newColumn validates spec and resolves its label.
func newColumn(spec types.ColumnSpec, f Formatter, emptyCell string) (*Column, error) {
	if spec.Attribute == "" && spec.Value == nil && spec.Header == "" && spec.Label == "" {
		return nil, fmt.Errorf("%w: column needs an attribute, a value func or a label", types.ErrConfiguration)
	}
	if spec.Format == "" {
		spec.Format = types.FormatText
	}
	if !f.Supports(spec.Format) {
		return nil, fmt.Errorf("%w: column %q: unknown format %q", types.ErrConfiguration, spec.Attribute, spec.Format)
	}
	label := spec.Label
	if label == "" {
		label = Humanize(spec.Attribute)
	}
	return &Column{spec: spec, label: label, formatter: f, emptyCell: emptyCell}, nil
}

// Spec returns the column descriptor.
func (c *Column) Spec() types.ColumnSpec { return c.spec }

// Label returns the resolved header label.
func (c *Column) Label() string { return c.label }

// RenderHeaderCell renders the <th> of the column.
func (c *Column) RenderHeaderCell() string {
	content := c.spec.Header
	if content == "" {
		content = c.label
		if c.spec.ShouldEncodeLabel() {
			content = markup.Encode(content)
		}
	}
	return markup.Tag("th", c.orEmpty(content), markup.FromMap(c.spec.HeaderOptions))
}

// RenderFooterCell renders the footer <td> of the column.
func (c *Column) RenderFooterCell() string {
	return markup.Tag("td", c.orEmpty(c.spec.Footer), markup.FromMap(c.spec.FooterOptions))
}

// RenderDataCell renders the body <td> of the column for one record.
func (c *Column) RenderDataCell(rec types.Record, key types.Key, index int) (string, error) {
	opts := c.spec.ContentOptions
	if c.spec.ContentOptionsFunc != nil {
		var err error
		opts, err = c.spec.ContentOptionsFunc(rec, key, index)
		if err != nil {
			return "", fmt.Errorf("column %q options: %w", c.spec.Attribute, err)
		}
	}
	value, err := c.value(rec, key, index)
	if err != nil {
		return "", err
	}
	content, err := c.formatter.Format(value, c.spec.Format)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", c.spec.Attribute, err)
	}
	return markup.Tag("td", c.orEmpty(content), markup.FromMap(opts)), nil
}

func (c *Column) value(rec types.Record, key types.Key, index int) (any, error) {
	if c.spec.Value != nil {
		v, err := c.spec.Value(rec, key, index)
		if err != nil {
			return nil, fmt.Errorf("column %q value: %w", c.spec.Attribute, err)
		}
		return v, nil
	}
	return ValueOf(rec, c.spec.Attribute), nil
}

func (c *Column) orEmpty(content string) string {
	if content == "" {
		return c.emptyCell
	}
	return content
}
