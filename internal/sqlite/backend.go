// Package sqlite stores treegrid nodes in SQL. Parentage is kept as child_of
// rows in a links table. With the sqlite backend the JSONL files in the data
// directory are the source of truth and the database is rebuilt from them on
// Attach; with the postgres backend the database itself is authoritative.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// DBFile is the name of the SQLite database inside the data directory.
const DBFile = "treegrid.db"

// Backend owns the database connection of one data directory or DSN.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger

	// persist is false for postgres, which needs no JSONL files.
	persist bool
}

// NewBackend creates a detached backend. Call Attach before use.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach opens the store described by config. For sqlite it creates the
// data directory, recreates the database and loads the JSONL files.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	var (
		db  *sql.DB
		err error
	)
	switch config.Backend {
	case types.BackendSQLite:
		db, err = openSQLite(config.DataDir)
	case types.BackendPostgres:
		db, err = sql.Open("pgx", config.DSN)
	default:
		return fmt.Errorf("%w: %s is not a SQL backend", types.ErrBackendUnknown, config.Backend)
	}
	if err != nil {
		return err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	if config.Backend == types.BackendSQLite {
		dataDir := dataDirOrDot(config.DataDir)
		if err := initJSONLFiles(dataDir); err != nil {
			db.Close()
			return err
		}
		if err := loadAllJSONL(db, dataDir); err != nil {
			db.Close()
			return fmt.Errorf("load JSONL: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.persist = config.Backend == types.BackendSQLite
	b.attached = true
	b.logger.Debug("backend attached", "backend", config.Backend, "data_dir", config.DataDir)
	return nil
}

// attachDB attaches an already open database. It is used with sqlmock.
func (b *Backend) attachDB(db *sql.DB, backend string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.db = db
	b.config = types.Config{Backend: backend}
	b.attached = true
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Source returns a record source over all nodes.
func (b *Backend) Source() *Source {
	return &Source{backend: b}
}

func openSQLite(dataDir string) (*sql.DB, error) {
	dataDir = dataDirOrDot(dataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dataDir, DBFile)
	// The JSONL files are authoritative; start from an empty database.
	_ = os.Remove(dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, nil
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func dataDirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// rebind rewrites ? placeholders to $n for postgres.
func (b *Backend) rebind(query string) string {
	if b.config.Backend != types.BackendPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// checkAttached must be called with b.mu held.
func (b *Backend) checkAttached() error {
	if !b.attached {
		return types.ErrStoreDetached
	}
	return nil
}
