// Package backend opens the node store selected by types.Config.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/treegrid/internal/dynamo"
	"github.com/mesh-intelligence/treegrid/internal/sqlite"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Store is an opened node store.
type Store interface {
	// Source returns the store as a scoping record source.
	Source() types.TreeSource

	// AddNode creates a node and returns its id.
	AddNode(ctx context.Context, n *types.Node) (string, error)

	// Close releases the store.
	Close() error
}

// Open validates cfg and opens its backend.
func Open(ctx context.Context, cfg types.Config, logger *slog.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendSQLite, types.BackendPostgres:
		b := sqlite.NewBackend(logger)
		if err := b.Attach(cfg); err != nil {
			return nil, fmt.Errorf("attach %s: %w", cfg.Backend, err)
		}
		return &sqlStore{b: b}, nil
	case types.BackendDynamoDB:
		s, err := dynamo.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &dynamoStore{s: s}, nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

type sqlStore struct{ b *sqlite.Backend }

func (s *sqlStore) Source() types.TreeSource { return s.b.Source() }

func (s *sqlStore) AddNode(ctx context.Context, n *types.Node) (string, error) {
	return s.b.SetNode(ctx, n)
}

func (s *sqlStore) Close() error { return s.b.Detach() }

type dynamoStore struct{ s *dynamo.Store }

func (d *dynamoStore) Source() types.TreeSource { return d.s.Source() }

func (d *dynamoStore) AddNode(ctx context.Context, n *types.Node) (string, error) {
	return d.s.CreateNode(ctx, n)
}

// Close is a no-op; the AWS client holds no connections to release.
func (d *dynamoStore) Close() error { return nil }
