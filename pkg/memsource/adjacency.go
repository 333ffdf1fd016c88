package memsource

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// KeyFunc returns the key of a record.
type KeyFunc func(rec types.Record) (types.Key, error)

// ParentFunc returns the parent key of a record; ok is false for roots.
type ParentFunc func(rec types.Record) (parent types.Key, ok bool, err error)

// Adjacency is a tree stored as an adjacency list: every record names its
// parent. Child counts cover the whole list, not the current scope.
type Adjacency struct {
	tree *adjacencyTree

	// scoped is nil for the whole tree.
	scoped *types.Key
}

type adjacencyTree struct {
	records  []types.Record
	keys     []types.Key
	parents  []types.Key
	ordered  []int
	children map[string][]int
	index    map[string]int
	key      KeyFunc
}

// NewAdjacency indexes records. Keys must be unique. Records whose parent is
// not in the list are kept and rendered after the rooted nodes.
func NewAdjacency(records []types.Record, key KeyFunc, parent ParentFunc) (*Adjacency, error) {
	t := &adjacencyTree{
		records:  records,
		keys:     make([]types.Key, len(records)),
		parents:  make([]types.Key, len(records)),
		children: make(map[string][]int),
		index:    make(map[string]int, len(records)),
		key:      key,
	}
	for i, rec := range records {
		k, err := key(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: key: %w", i, err)
		}
		if k.IsZero() {
			return nil, fmt.Errorf("record %d: %w: empty key", i, types.ErrInvalidKey)
		}
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		id := k.String()
		if prev, dup := t.index[id]; dup {
			return nil, fmt.Errorf("record %d: %w: key %q already used by record %d", i, types.ErrInvalidKey, id, prev)
		}
		t.index[id] = i
		t.keys[i] = k

		p, ok, err := parent(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: parent: %w", i, err)
		}
		if ok {
			t.parents[i] = p
		}
		pid := t.parents[i].String()
		t.children[pid] = append(t.children[pid], i)
	}
	t.ordered = t.depthFirst()
	return &Adjacency{tree: t}, nil
}

// Nodes builds an Adjacency over nodes using NodeID and ParentID.
func Nodes(nodes []*types.Node) (*Adjacency, error) {
	records := make([]types.Record, len(nodes))
	for i, n := range nodes {
		records[i] = n
	}
	return NewAdjacency(records, NodeKey, NodeParent)
}

// NodeKey is the KeyFunc of *types.Node records.
func NodeKey(rec types.Record) (types.Key, error) {
	n, ok := rec.(*types.Node)
	if !ok {
		return types.Key{}, fmt.Errorf("%w: expected *types.Node, got %T", types.ErrInvalidData, rec)
	}
	if n.NodeID == "" {
		return types.Key{}, types.ErrInvalidID
	}
	return types.NewKey(n.NodeID), nil
}

// NodeParent is the ParentFunc of *types.Node records.
func NodeParent(rec types.Record) (types.Key, bool, error) {
	n, ok := rec.(*types.Node)
	if !ok {
		return types.Key{}, false, fmt.Errorf("%w: expected *types.Node, got %T", types.ErrInvalidData, rec)
	}
	if n.ParentID == "" {
		return types.Key{}, false, nil
	}
	return types.NewKey(n.ParentID), true, nil
}

// depthFirst orders records so that parents precede their children. Siblings
// keep their input order. Unreachable records follow in input order.
func (t *adjacencyTree) depthFirst() []int {
	out := make([]int, 0, len(t.records))
	visited := make([]bool, len(t.records))
	var walk func(i int)
	walk = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true
		out = append(out, i)
		for _, c := range t.children[t.keys[i].String()] {
			walk(c)
		}
	}
	for _, i := range t.children[types.Key{}.String()] {
		walk(i)
	}
	for i := range t.records {
		if !visited[i] {
			walk(i)
		}
	}
	return out
}

// Records implements types.RecordSource.
func (a *Adjacency) Records(ctx context.Context) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var idx []int
	if a.scoped == nil {
		idx = a.tree.ordered
	} else {
		idx = a.tree.children[a.scoped.String()]
	}
	out := make([]types.Record, len(idx))
	for i, j := range idx {
		out[i] = a.tree.records[j]
	}
	return out, nil
}

// KeyOf implements types.RecordSource.
func (a *Adjacency) KeyOf(rec types.Record) (types.Key, error) {
	return a.tree.key(rec)
}

// ScopeToChildrenOf implements types.Scoper. An unknown parent yields an
// empty view.
func (a *Adjacency) ScopeToChildrenOf(_ context.Context, parent types.Key) (types.RecordSource, error) {
	return &Adjacency{tree: a.tree, scoped: &parent}, nil
}

// ParentIDOf implements types.Hierarchy.
func (a *Adjacency) ParentIDOf(_ types.Record, key types.Key, _ int) (types.Key, bool, error) {
	i, ok := a.tree.index[key.String()]
	if !ok {
		return types.Key{}, false, fmt.Errorf("%w: key %s", types.ErrNotFound, key)
	}
	p := a.tree.parents[i]
	return p, !p.IsZero(), nil
}

// ChildCountOf implements types.Hierarchy.
func (a *Adjacency) ChildCountOf(_ types.Record, key types.Key, _ int) (int, error) {
	return len(a.tree.children[key.String()]), nil
}
