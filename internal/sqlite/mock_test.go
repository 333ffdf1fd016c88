package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

var nodeColumns = []string{"node_id", "parent_id", "name", "position", "fields", "created_at", "child_count"}

func mockBackend(t *testing.T, backend string) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	b := NewBackend(nil)
	b.attachDB(db, backend)
	return b, mock
}

func TestRebind_Postgres(t *testing.T) {
	b := NewBackend(nil)
	b.config.Backend = types.BackendPostgres
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", b.rebind("SELECT 1 WHERE a = ? AND b = ?"))

	b.config.Backend = types.BackendSQLite
	assert.Equal(t, "a = ?", b.rebind("a = ?"))
}

func TestSource_PostgresPlaceholders(t *testing.T) {
	b, mock := mockBackend(t, types.BackendPostgres)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(time.RFC3339Nano)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.to_id = $1")).
		WithArgs("root").
		WillReturnRows(sqlmock.NewRows(nodeColumns).
			AddRow("c1", "root", "Child", 0, `{"k":"v"}`, created, 4))

	view, err := b.Source().ScopeToChildrenOf(context.Background(), types.NewKey("root"))
	require.NoError(t, err)
	records, err := view.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	n := records[0].(*types.Node)
	assert.Equal(t, "root", n.ParentID)
	assert.Equal(t, 4, n.ChildCount)
	assert.Equal(t, "v", n.Fields["k"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_QueryErrors(t *testing.T) {
	t.Run("query fails", func(t *testing.T) {
		b, mock := mockBackend(t, types.BackendSQLite)
		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT n.node_id").WillReturnError(boom)

		_, err := b.Source().Records(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad timestamp", func(t *testing.T) {
		b, mock := mockBackend(t, types.BackendSQLite)
		mock.ExpectQuery("SELECT n.node_id").
			WillReturnRows(sqlmock.NewRows(nodeColumns).AddRow("a", "", "A", 0, nil, "yesterday", 0))

		_, err := b.Source().Records(context.Background())
		assert.ErrorIs(t, err, types.ErrInvalidData)
	})

	t.Run("bad fields", func(t *testing.T) {
		b, mock := mockBackend(t, types.BackendSQLite)
		mock.ExpectQuery("SELECT n.node_id").
			WillReturnRows(sqlmock.NewRows(nodeColumns).AddRow("a", "", "A", 0, "{", time.Now().Format(time.RFC3339), 0))

		_, err := b.Source().Records(context.Background())
		assert.ErrorIs(t, err, types.ErrInvalidData)
	})
}

func TestBackend_SetNodeRollsBackOnInsertError(t *testing.T) {
	b, mock := mockBackend(t, types.BackendPostgres)
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO nodes")).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := b.SetNode(context.Background(), &types.Node{Name: "n"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
