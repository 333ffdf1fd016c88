// Command treegrid-lambda serves the tree from AWS Lambda behind an API
// Gateway HTTP API. Configuration comes from TREEGRID_* environment
// variables, or from config.yaml when TREEGRID_CONFIG_DIR is set.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mesh-intelligence/treegrid/internal/backend"
	"github.com/mesh-intelligence/treegrid/internal/config"
	"github.com/mesh-intelligence/treegrid/internal/logger"
	"github.com/mesh-intelligence/treegrid/internal/paths"
	"github.com/mesh-intelligence/treegrid/internal/server"
	"github.com/mesh-intelligence/treegrid/pkg/grid"
)

func main() {
	srv, err := setup(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "treegrid-lambda:", err)
		os.Exit(1)
	}
	lambda.Start(srv.HandleLambda)
}

func setup(ctx context.Context) (*server.Server, error) {
	v, err := config.Load(os.Getenv(paths.EnvConfigDir))
	if err != nil {
		return nil, err
	}
	f, err := config.Decode(v)
	if err != nil {
		return nil, err
	}
	// Lambda captures stderr; JSON lines are parsed by CloudWatch.
	log, err := logger.New(logger.Options{Level: f.LogLevel, Format: logger.FormatJSON})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	// The store stays open for the lifetime of the execution environment.
	s, err := backend.Open(ctx, f.Store(f.DataDir), log)
	if err != nil {
		return nil, err
	}
	cfg, err := f.Grid.GridConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = log
	g, err := grid.New(s.Source(), nil, cfg)
	if err != nil {
		return nil, err
	}
	return server.New(g, server.Options{Title: f.Title, Lang: f.Grid.Language, Logger: log})
}
