package sqlite

import (
	"context"

	"github.com/mesh-intelligence/treegrid/pkg/memsource"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

var _ types.TreeSource = (*Source)(nil)

// Source exposes the nodes of a Backend to the grid. Records are
// *types.Node values. Child counts cover the whole store.
type Source struct {
	backend *Backend
	parent  string
	scoped  bool
}

// Records implements types.RecordSource. The unscoped source lists parents
// before their children; a scoped source lists one level by position.
func (s *Source) Records(ctx context.Context) ([]types.Record, error) {
	var (
		nodes []*types.Node
		err   error
	)
	switch {
	case !s.scoped:
		nodes, err = s.backend.queryNodes(ctx, "")
	case s.parent == "":
		nodes, err = s.backend.queryNodes(ctx, " WHERE p.to_id IS NULL")
	default:
		nodes, err = s.backend.queryNodes(ctx, " WHERE p.to_id = ?", s.parent)
	}
	if err != nil {
		return nil, err
	}
	if !s.scoped {
		tree, err := memsource.Nodes(nodes)
		if err != nil {
			return nil, err
		}
		return tree.Records(ctx)
	}
	out := make([]types.Record, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out, nil
}

// KeyOf implements types.RecordSource.
func (s *Source) KeyOf(rec types.Record) (types.Key, error) {
	return memsource.NodeKey(rec)
}

// ScopeToChildrenOf implements types.Scoper.
func (s *Source) ScopeToChildrenOf(_ context.Context, parent types.Key) (types.RecordSource, error) {
	return &Source{backend: s.backend, parent: parent.String(), scoped: true}, nil
}

// ParentIDOf implements types.Hierarchy.
func (s *Source) ParentIDOf(rec types.Record, _ types.Key, _ int) (types.Key, bool, error) {
	return memsource.NodeParent(rec)
}

// ChildCountOf implements types.Hierarchy.
func (s *Source) ChildCountOf(rec types.Record, _ types.Key, _ int) (int, error) {
	n, ok := rec.(*types.Node)
	if !ok {
		return 0, types.ErrInvalidData
	}
	return n.ChildCount, nil
}
