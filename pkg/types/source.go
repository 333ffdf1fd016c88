package types

import "context"

// Record is one application entity rendered as a table row. The renderer
// never inspects it except through a Hierarchy, a RecordSource or column
// value resolution.
type Record = any

// RecordSource supplies the ordered records of one render pass and the key
// of each record.
type RecordSource interface {
	// Records returns the records in display order.
	Records(ctx context.Context) ([]Record, error)

	// KeyOf returns the unique key of rec. Keys must be unique within the
	// records returned by one Records call.
	KeyOf(rec Record) (Key, error)
}

// Scoper is implemented by sources that can narrow their records to the
// direct children of a node. Lazy loading depends on it.
type Scoper interface {
	// ScopeToChildrenOf returns a view of the source whose Records yields
	// only the direct children of parent. The zero Key selects root nodes.
	// The receiver is not modified. Sources backed by data that cannot be
	// queried hierarchically return an error wrapping ErrCapability.
	ScopeToChildrenOf(ctx context.Context, parent Key) (RecordSource, error)
}

// Pager is implemented by sources that sort or paginate their results. The
// grid calls WithoutPaging before every render, because a tree is
// meaningless if siblings are dropped or reordered.
type Pager interface {
	WithoutPaging() RecordSource
}

// Hierarchy derives the structure of a record. Implementations decide how
// the hierarchy is stored (adjacency list, materialized path, nested set).
type Hierarchy interface {
	// ParentIDOf returns the key of the parent of rec. ok is false for root
	// records.
	ParentIDOf(rec Record, key Key, index int) (parent Key, ok bool, err error)

	// ChildCountOf returns the number of children of rec. Whether the count
	// covers the whole backing store or only the records visible to the
	// current scope is up to the implementation; the renderer treats it as
	// advisory and only uses it to decide whether a node can be expanded.
	// Negative values are treated as zero.
	ChildCountOf(rec Record, key Key, index int) (int, error)
}

// TreeSource is a record source that carries its own hierarchy accessors
// and supports scoped queries.
type TreeSource interface {
	RecordSource
	Scoper
	Hierarchy
}

// FieldGetter is implemented by records that expose named fields to column
// value resolution.
type FieldGetter interface {
	Field(name string) (any, bool)
}

// FieldLister is implemented by records that can enumerate their fields. It
// is used to guess columns when none are configured.
type FieldLister interface {
	FieldNames() []string
}
