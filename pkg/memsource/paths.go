package memsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// DefaultSeparator separates the segments of a materialized path.
const DefaultSeparator = "/"

// PathFunc returns the materialized path of a record, for example "1/4/9".
type PathFunc func(rec types.Record) (string, error)

// Paths is a tree stored as materialized paths. The key of a record is its
// full path and its parent is the path without the last segment. Records are
// rendered in path order as given; callers sort them so parents come first.
type Paths struct {
	records []types.Record
	paths   []string
	path    PathFunc
	sep     string
	counts  map[string]int

	// prefix is the parent path of a scoped view; scoped is false for the
	// whole tree.
	prefix string
	scoped bool
}

// NewPaths indexes records by path. An empty sep selects DefaultSeparator.
func NewPaths(records []types.Record, path PathFunc, sep string) (*Paths, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	p := &Paths{
		records: records,
		paths:   make([]string, len(records)),
		path:    path,
		sep:     sep,
		counts:  make(map[string]int),
	}
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		s, err := p.pathOf(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if prev, dup := seen[s]; dup {
			return nil, fmt.Errorf("record %d: %w: path %q already used by record %d", i, types.ErrInvalidKey, s, prev)
		}
		seen[s] = i
		p.paths[i] = s
		p.counts[p.parentPath(s)]++
	}
	return p, nil
}

func (p *Paths) pathOf(rec types.Record) (string, error) {
	s, err := p.path(rec)
	if err != nil {
		return "", err
	}
	s = strings.Trim(s, p.sep)
	if s == "" {
		return "", fmt.Errorf("%w: empty path", types.ErrInvalidKey)
	}
	return s, nil
}

// parentPath returns "" for top level paths.
func (p *Paths) parentPath(s string) string {
	i := strings.LastIndex(s, p.sep)
	if i < 0 {
		return ""
	}
	return s[:i]
}

// Records implements types.RecordSource.
func (p *Paths) Records(ctx context.Context) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.scoped {
		out := make([]types.Record, len(p.records))
		copy(out, p.records)
		return out, nil
	}
	var out []types.Record
	for i, s := range p.paths {
		if p.parentPath(s) == p.prefix {
			out = append(out, p.records[i])
		}
	}
	return out, nil
}

// KeyOf implements types.RecordSource.
func (p *Paths) KeyOf(rec types.Record) (types.Key, error) {
	s, err := p.pathOf(rec)
	if err != nil {
		return types.Key{}, err
	}
	return types.NewKey(s), nil
}

// ScopeToChildrenOf implements types.Scoper.
func (p *Paths) ScopeToChildrenOf(_ context.Context, parent types.Key) (types.RecordSource, error) {
	view := *p
	view.scoped = true
	view.prefix = ""
	if !parent.IsZero() {
		view.prefix = strings.Trim(parent.String(), p.sep)
	}
	return &view, nil
}

// ParentIDOf implements types.Hierarchy.
func (p *Paths) ParentIDOf(_ types.Record, key types.Key, _ int) (types.Key, bool, error) {
	parent := p.parentPath(key.String())
	if parent == "" {
		return types.Key{}, false, nil
	}
	return types.NewKey(parent), true, nil
}

// ChildCountOf implements types.Hierarchy. Counts cover every record.
func (p *Paths) ChildCountOf(_ types.Record, key types.Key, _ int) (int, error) {
	return p.counts[key.String()], nil
}
