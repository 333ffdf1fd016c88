package memsource

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Slice is a flat source that cannot be scoped, such as the result of a
// search. Limit emulates pagination; the grid removes it before rendering.
type Slice struct {
	Items []types.Record
	Key   KeyFunc
	Limit int
}

// Records implements types.RecordSource.
func (s *Slice) Records(ctx context.Context) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(s.Items)
	if s.Limit > 0 && s.Limit < n {
		n = s.Limit
	}
	out := make([]types.Record, n)
	copy(out, s.Items[:n])
	return out, nil
}

// KeyOf implements types.RecordSource.
func (s *Slice) KeyOf(rec types.Record) (types.Key, error) {
	if s.Key == nil {
		return types.Key{}, fmt.Errorf("%w: no key func", types.ErrConfiguration)
	}
	return s.Key(rec)
}

// ScopeToChildrenOf implements types.Scoper and always fails: a flat list
// has no hierarchy to query.
func (s *Slice) ScopeToChildrenOf(context.Context, types.Key) (types.RecordSource, error) {
	return nil, fmt.Errorf("%w: slice source cannot be scoped", types.ErrCapability)
}

// WithoutPaging implements types.Pager.
func (s *Slice) WithoutPaging() types.RecordSource {
	c := *s
	c.Limit = 0
	return &c
}
