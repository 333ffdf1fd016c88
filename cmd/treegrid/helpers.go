package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/treegrid/internal/backend"
	"github.com/mesh-intelligence/treegrid/internal/paths"
	"github.com/mesh-intelligence/treegrid/pkg/grid"
)

// openStore resolves the data directory and opens the configured backend.
// The caller must Close the store.
func openStore(ctx context.Context) (backend.Store, string, error) {
	dataDir, err := paths.ResolveDataDir(flagDataDir, conf.DataDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve data dir: %w", err)
	}
	s, err := backend.Open(ctx, conf.Store(dataDir), log)
	if err != nil {
		return nil, "", err
	}
	return s, dataDir, nil
}

// newGrid builds the grid of the configuration file over s.
func newGrid(s backend.Store) (*grid.Grid, error) {
	cfg, err := conf.Grid.GridConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = log
	return grid.New(s.Source(), nil, cfg)
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
