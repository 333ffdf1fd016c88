package memsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

type folder struct {
	Path string
	Name string
}

func folderPath(rec types.Record) (string, error) {
	return rec.(folder).Path, nil
}

func sampleFolders(t *testing.T) *Paths {
	t.Helper()
	p, err := NewPaths([]types.Record{
		folder{Path: "usr", Name: "usr"},
		folder{Path: "usr/lib", Name: "lib"},
		folder{Path: "usr/lib/go", Name: "go"},
		folder{Path: "usr/bin", Name: "bin"},
		folder{Path: "etc", Name: "etc"},
	}, folderPath, "")
	require.NoError(t, err)
	return p
}

func TestPaths_Hierarchy(t *testing.T) {
	p := sampleFolders(t)

	parent, ok, err := p.ParentIDOf(nil, types.NewKey("usr/lib/go"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "usr/lib", parent.String())

	_, ok, err = p.ParentIDOf(nil, types.NewKey("etc"), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	for key, want := range map[string]int{"usr": 2, "usr/lib": 1, "usr/bin": 0, "etc": 0} {
		n, err := p.ChildCountOf(nil, types.NewKey(key), 0)
		require.NoError(t, err)
		assert.Equal(t, want, n, "children of %s", key)
	}
}

func TestPaths_ScopeToChildrenOf(t *testing.T) {
	p := sampleFolders(t)
	tests := []struct {
		name   string
		parent types.Key
		want   []string
	}{
		{name: "root level", want: []string{"usr", "etc"}},
		{name: "one level down", parent: types.NewKey("usr"), want: []string{"usr/lib", "usr/bin"}},
		{name: "trailing separator", parent: types.NewKey("usr/lib/"), want: []string{"usr/lib/go"}},
		{name: "leaf", parent: types.NewKey("etc"), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := p.ScopeToChildrenOf(context.Background(), tt.parent)
			require.NoError(t, err)
			got := keysOf(t, view)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Len(t, keysOf(t, p), 5)
}

func TestNewPaths_Errors(t *testing.T) {
	_, err := NewPaths([]types.Record{folder{Path: "a"}, folder{Path: "/a/"}}, folderPath, "/")
	assert.ErrorIs(t, err, types.ErrInvalidKey)

	_, err = NewPaths([]types.Record{folder{Path: "/"}}, folderPath, "/")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}

func TestPaths_CustomSeparator(t *testing.T) {
	p, err := NewPaths([]types.Record{folder{Path: "1"}, folder{Path: "1.2"}}, folderPath, ".")
	require.NoError(t, err)
	parent, ok, err := p.ParentIDOf(nil, types.NewKey("1.2"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", parent.String())
}
