package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

func attachTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { _ = b.Detach() })
	return b, dir
}

func addNode(t *testing.T, b *Backend, n *types.Node) string {
	t.Helper()
	id, err := b.SetNode(context.Background(), n)
	require.NoError(t, err)
	return id
}

func TestBackend_Attach(t *testing.T) {
	b, dir := attachTemp(t)

	for _, name := range []string{DBFile, nodesFile, linksFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach is idempotent")

	_, err = b.GetNode(context.Background(), "x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.SetNode(context.Background(), &types.Node{Name: "x"})
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend(nil)
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendPostgres}), types.ErrDSNEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendDynamoDB}), types.ErrBackendUnknown)
}

func TestBackend_SetNode(t *testing.T) {
	ctx := context.Background()
	b, _ := attachTemp(t)

	rootID := addNode(t, b, &types.Node{Name: "Root", Fields: map[string]any{"owner": "ann"}})
	parsed, err := uuid.Parse(rootID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	childID := addNode(t, b, &types.Node{Name: "Child", ParentID: rootID})
	addNode(t, b, &types.Node{NodeID: "leaf", Name: "Leaf", ParentID: childID})

	root, err := b.GetNode(ctx, rootID)
	require.NoError(t, err)
	assert.Equal(t, "Root", root.Name)
	assert.Empty(t, root.ParentID)
	assert.Equal(t, 1, root.ChildCount)
	assert.Equal(t, "ann", root.Fields["owner"])
	assert.False(t, root.CreatedAt.IsZero())

	leaf, err := b.GetNode(ctx, "leaf")
	require.NoError(t, err)
	assert.Equal(t, childID, leaf.ParentID)
	assert.Zero(t, leaf.ChildCount)

	t.Run("move to root", func(t *testing.T) {
		leaf.ParentID = rootID
		leaf.Name = "Moved"
		addNode(t, b, leaf)
		got, err := b.GetNode(ctx, "leaf")
		require.NoError(t, err)
		assert.Equal(t, rootID, got.ParentID)
		assert.Equal(t, "Moved", got.Name)

		root, err := b.GetNode(ctx, rootID)
		require.NoError(t, err)
		assert.Equal(t, 2, root.ChildCount)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			node    *types.Node
			wantErr error
		}{
			{name: "nil", node: nil, wantErr: types.ErrInvalidData},
			{name: "no name", node: &types.Node{}, wantErr: types.ErrInvalidName},
			{name: "missing parent", node: &types.Node{Name: "x", ParentID: "nope"}, wantErr: types.ErrInvalidParent},
			{name: "self parent", node: &types.Node{NodeID: "leaf", Name: "x", ParentID: "leaf"}, wantErr: types.ErrParentCycle},
			{name: "descendant parent", node: &types.Node{NodeID: rootID, Name: "Root", ParentID: childID}, wantErr: types.ErrParentCycle},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := b.SetNode(ctx, tt.node)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	_, err = b.GetNode(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	_, err = b.GetNode(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestJSONL_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b, dir := attachTemp(t)

	rootID := addNode(t, b, &types.Node{Name: "Root", Position: 1})
	addNode(t, b, &types.Node{NodeID: "c1", Name: "Child", ParentID: rootID, Fields: map[string]any{"size": 3}})
	require.NoError(t, b.Detach())

	// A malformed line must not prevent loading.
	f, err := os.OpenFile(filepath.Join(dir, nodesFile), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened := NewBackend(nil)
	require.NoError(t, reopened.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer reopened.Detach()

	child, err := reopened.GetNode(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, rootID, child.ParentID)
	assert.EqualValues(t, 3, child.Fields["size"])

	root, err := reopened.GetNode(ctx, rootID)
	require.NoError(t, err)
	assert.Equal(t, 1, root.Position)
	assert.Equal(t, 1, root.ChildCount)
}

func TestReadJSONL_MissingFile(t *testing.T) {
	records, err := readJSONL(filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteJSONL_ReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jsonl")
	require.NoError(t, writeJSONL(path, nil))
	recs, err := marshalAll([]linkJSON{{LinkID: "l1"}, {LinkID: "l2"}})
	require.NoError(t, err)
	require.NoError(t, writeJSONL(path, recs))

	got, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Contains(t, string(got[1]), `"link_id":"l2"`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be renamed away")
}
