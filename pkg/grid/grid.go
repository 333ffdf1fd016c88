package grid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/treegrid/internal/markup"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Grid renders a record source as an annotated tree table. A Grid is not
// modified by Render and may be shared between goroutines.
type Grid struct {
	source    types.RecordSource
	tree      types.Hierarchy
	cfg       Config
	id        string
	columns   []*Column
	formatter Formatter
	emptyText string
	logger    *slog.Logger
}

// Output is the result of one render.
type Output struct {
	// ID is the id of the container element.
	ID string

	// HTML is the container with the table or the empty-state block.
	HTML string

	// Script attaches the client widget to the table.
	Script string

	// Lazy reports whether the client fetches children on expand.
	Lazy bool

	// Scoped reports whether the records were narrowed to one level.
	Scoped bool

	// Rows is the number of data rows rendered.
	Rows int

	// Token is the echoed correlation token, if any.
	Token string
}

// New creates a Grid. A nil tree is taken from source when the source
// implements types.Hierarchy. Invalid configuration yields an error wrapping
// types.ErrConfiguration.
func New(source types.RecordSource, tree types.Hierarchy, cfg Config) (*Grid, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: record source is required", types.ErrConfiguration)
	}
	if tree == nil {
		h, ok := source.(types.Hierarchy)
		if !ok {
			return nil, fmt.Errorf("%w: hierarchy accessors are required", types.ErrConfiguration)
		}
		tree = h
	}

	g := &Grid{
		source:    source,
		tree:      tree,
		cfg:       cfg,
		id:        cfg.ID,
		formatter: cfg.Formatter,
		emptyText: cfg.EmptyText,
		logger:    cfg.Logger,
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.formatter == nil {
		g.formatter = NewTextFormatter(cfg.Language)
	}
	if g.id == "" {
		if id, ok := cfg.Options["id"].(string); ok {
			g.id = id
		}
	}
	if g.id == "" {
		g.id = "treegrid-w" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if g.emptyText == "" {
		g.emptyText = newPrinter(parseLanguage(cfg.Language)).noResults()
	}

	columns, err := g.buildColumns(cfg.Columns)
	if err != nil {
		return nil, err
	}
	g.columns = columns
	return g, nil
}

// ID returns the id of the container element.
func (g *Grid) ID() string { return g.id }

// Columns returns the visible configured columns. It is empty when columns
// are guessed at render time.
func (g *Grid) Columns() []*Column {
	out := make([]*Column, len(g.columns))
	copy(out, g.columns)
	return out
}

// buildColumns validates specs and drops invisible columns.
func (g *Grid) buildColumns(specs []types.ColumnSpec) ([]*Column, error) {
	columns := make([]*Column, 0, len(specs))
	for i, spec := range specs {
		if !spec.IsVisible() {
			continue
		}
		c, err := newColumn(spec, g.formatter, g.cfg.EmptyCell)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		columns = append(columns, c)
	}
	return columns, nil
}

// columnsFor returns the configured columns, or guesses them from the first
// record.
func (g *Grid) columnsFor(records []types.Record) ([]*Column, error) {
	if len(g.cfg.Columns) > 0 || len(records) == 0 {
		return g.columns, nil
	}
	names := fieldNames(records[0])
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no columns configured and none can be guessed from %T", types.ErrConfiguration, records[0])
	}
	specs := make([]types.ColumnSpec, len(names))
	for i, name := range names {
		specs[i] = types.ColumnSpec{Attribute: name}
	}
	return g.buildColumns(specs)
}

// Render renders the grid for one request. Errors from the source, the
// accessors, the hooks or the columns abort the render.
func (g *Grid) Render(ctx context.Context, req Request) (*Output, error) {
	sc, err := g.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	records, err := sc.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	columns, err := g.columnsFor(records)
	if err != nil {
		return nil, err
	}

	var content string
	if len(records) == 0 {
		content = renderEmpty(g.emptyText, g.cfg.EmptyTextOptions)
	} else {
		tr := &tableRenderer{
			cfg:       &g.cfg,
			columns:   columns,
			annotator: NewAnnotator(g.tree, g.logger),
			source:    sc.source,
		}
		content, err = tr.renderItems(records)
		if err != nil {
			return nil, err
		}
	}

	attrs := markup.FromMap(g.cfg.Options)
	tag := attrs.Pop("tag", "div")
	attrs["id"] = g.id
	if sc.token != "" {
		attrs[TokenAttr] = sc.token
	}

	script, err := clientScript(g.id, g.clientOptions(sc, req))
	if err != nil {
		return nil, err
	}

	g.logger.Debug("rendered treegrid",
		"id", g.id,
		"node", req.NodeID,
		"rows", len(records),
		"scoped", sc.scoped,
		"lazy", sc.lazy,
	)
	return &Output{
		ID:     g.id,
		HTML:   markup.Tag(tag, content, attrs),
		Script: script,
		Lazy:   sc.lazy,
		Scoped: sc.scoped,
		Rows:   len(records),
		Token:  sc.token,
	}, nil
}
