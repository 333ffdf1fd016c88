package grid

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mesh-intelligence/treegrid/internal/markup"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Row attribute names and class prefixes read by the client widget.
const (
	AttrKey           = "data-key"
	AttrCount         = "data-count"
	ClassNodePrefix   = "treegrid-"
	ClassParentPrefix = "treegrid-parent-"
)

// RowMeta is the structural metadata of one row.
type RowMeta struct {
	Key        types.Key
	Parent     types.Key
	HasParent  bool
	ChildCount int
}

// Apply merges the metadata onto row attributes: the node and parent
// classes, data-key, and data-count when the node has children.
func (m RowMeta) Apply(attrs markup.Attrs) {
	token := m.Key.String()
	attrs[AttrKey] = token
	attrs.AddClass(ClassNodePrefix + token)
	if m.HasParent {
		attrs.AddClass(ClassParentPrefix + m.Parent.String())
	}
	if m.ChildCount > 0 {
		attrs[AttrCount] = strconv.Itoa(m.ChildCount)
	}
}

// Annotator derives row metadata from a Hierarchy. It looks at one record
// at a time and never relates rows to each other, so its cost is linear and
// it works for any way of storing the tree.
type Annotator struct {
	tree   types.Hierarchy
	logger *slog.Logger
}

// NewAnnotator creates an Annotator over tree.
func NewAnnotator(tree types.Hierarchy, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{tree: tree, logger: logger}
}

// Annotate computes the metadata of the record at index with the given key.
func (a *Annotator) Annotate(rec types.Record, key types.Key, index int) (RowMeta, error) {
	meta := RowMeta{Key: key}

	parent, ok, err := a.tree.ParentIDOf(rec, key, index)
	if err != nil {
		return RowMeta{}, fmt.Errorf("parent of %s: %w", key, err)
	}
	if ok && !parent.IsZero() {
		meta.Parent = parent
		meta.HasParent = true
	}

	count, err := a.tree.ChildCountOf(rec, key, index)
	if err != nil {
		return RowMeta{}, fmt.Errorf("child count of %s: %w", key, err)
	}
	if count < 0 {
		a.logger.Warn("negative child count treated as zero", "key", key.String(), "count", count)
		count = 0
	}
	meta.ChildCount = count
	return meta, nil
}
