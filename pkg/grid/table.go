package grid

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/treegrid/internal/markup"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// tableRenderer assembles the table of one render pass.
type tableRenderer struct {
	cfg       *Config
	columns   []*Column
	annotator *Annotator
	source    types.RecordSource
}

// renderItems renders the <table> for a non-empty record list.
func (r *tableRenderer) renderItems(records []types.Record) (string, error) {
	body, err := r.renderTableBody(records)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, 4)
	if cg := r.renderColumnGroup(); cg != "" {
		parts = append(parts, cg)
	}
	if r.cfg.ShowHeader {
		parts = append(parts, r.renderTableHeader())
	}
	parts = append(parts, body)
	if r.cfg.ShowFooter {
		parts = append(parts, r.renderTableFooter())
	}
	return markup.Tag("table", strings.Join(parts, "\n"), markup.FromMap(r.cfg.TableOptions)), nil
}

// renderColumnGroup returns a <colgroup> when any column has options.
func (r *tableRenderer) renderColumnGroup() string {
	required := false
	for _, c := range r.columns {
		if len(c.spec.Options) > 0 {
			required = true
			break
		}
	}
	if !required {
		return ""
	}
	cols := make([]string, len(r.columns))
	for i, c := range r.columns {
		cols[i] = markup.Tag("col", "", markup.FromMap(c.spec.Options))
	}
	return markup.Tag("colgroup", strings.Join(cols, "\n"), nil)
}

func (r *tableRenderer) renderTableHeader() string {
	var cells strings.Builder
	for _, c := range r.columns {
		cells.WriteString(c.RenderHeaderCell())
	}
	row := markup.Tag("tr", cells.String(), markup.FromMap(r.cfg.HeaderRowOptions))
	return "<thead>\n" + row + "\n</thead>"
}

func (r *tableRenderer) renderTableFooter() string {
	var cells strings.Builder
	for _, c := range r.columns {
		cells.WriteString(c.RenderFooterCell())
	}
	row := markup.Tag("tr", cells.String(), markup.FromMap(r.cfg.FooterRowOptions))
	return "<tfoot>\n" + row + "\n</tfoot>"
}

// renderTableBody renders every record in order. Any failure aborts the
// pass: a partial tree would leave the client with dangling parents.
func (r *tableRenderer) renderTableBody(records []types.Record) (string, error) {
	rows := make([]string, 0, len(records))
	seen := make(map[string]int, len(records))
	for index, rec := range records {
		key, err := r.source.KeyOf(rec)
		if err != nil {
			return "", fmt.Errorf("row %d: key: %w", index, err)
		}
		if err := key.Validate(); err != nil {
			return "", fmt.Errorf("row %d: %w", index, err)
		}
		token := key.String()
		if prev, dup := seen[token]; dup {
			return "", fmt.Errorf("row %d: %w: key %q already used by row %d", index, types.ErrInvalidKey, token, prev)
		}
		seen[token] = index

		if r.cfg.BeforeRow != nil {
			extra, err := r.cfg.BeforeRow(rec, key, index)
			if err != nil {
				return "", fmt.Errorf("row %d (key %s): before row: %w", index, token, err)
			}
			if extra != "" {
				rows = append(rows, extra)
			}
		}

		row, err := r.renderTableRow(rec, key, index)
		if err != nil {
			return "", fmt.Errorf("row %d (key %s): %w", index, token, err)
		}
		rows = append(rows, row)

		if r.cfg.AfterRow != nil {
			extra, err := r.cfg.AfterRow(rec, key, index)
			if err != nil {
				return "", fmt.Errorf("row %d (key %s): after row: %w", index, token, err)
			}
			if extra != "" {
				rows = append(rows, extra)
			}
		}
	}
	return "<tbody>\n" + strings.Join(rows, "\n") + "\n</tbody>", nil
}

// renderTableRow renders one data row with its tree annotations.
func (r *tableRenderer) renderTableRow(rec types.Record, key types.Key, index int) (string, error) {
	var cells strings.Builder
	for _, c := range r.columns {
		cell, err := c.RenderDataCell(rec, key, index)
		if err != nil {
			return "", err
		}
		cells.WriteString(cell)
	}

	var attrs markup.Attrs
	if r.cfg.RowOptionsFunc != nil {
		opts, err := r.cfg.RowOptionsFunc(rec, key, index)
		if err != nil {
			return "", fmt.Errorf("row options: %w", err)
		}
		attrs = markup.FromMap(opts)
	} else {
		attrs = markup.FromMap(r.cfg.RowOptions)
	}

	meta, err := r.annotator.Annotate(rec, key, index)
	if err != nil {
		return "", err
	}
	meta.Apply(attrs)
	return markup.Tag("tr", cells.String(), attrs), nil
}

// renderEmpty renders the block shown when there are no records.
func renderEmpty(text string, options map[string]any) string {
	attrs := markup.FromMap(options)
	tag := attrs.Pop("tag", "div")
	return markup.Tag(tag, text, attrs)
}
