package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/treegrid/internal/config"
	"github.com/mesh-intelligence/treegrid/internal/logger"
	"github.com/mesh-intelligence/treegrid/internal/paths"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagLogLevel  string
	flagLogFormat string
)

// Set by PersistentPreRunE.
var (
	configDir string
	conf      *config.File
	log       *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "treegrid",
	Short:         "treegrid renders hierarchical records as a tree table",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		v, err := config.Load(dir)
		if err != nil {
			return err
		}
		f, err := config.Decode(v)
		if err != nil {
			return err
		}

		level, format := f.LogLevel, f.LogFormat
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		if flagLogFormat != "" {
			format = flagLogFormat
		}
		l, err := logger.New(logger.Options{Level: level, Format: format, W: cmd.ErrOrStderr()})
		if err != nil {
			return err
		}

		configDir, conf, log = dir, f, l
		slog.SetDefault(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory of the sqlite backend (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: auto, tint, text or json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(nodeCmd)
}

// exitCode maps errors caused by input to exitUserError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrConfiguration),
		errors.Is(err, types.ErrInvalidKey),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidParent),
		errors.Is(err, types.ErrParentCycle),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrDSNEmpty):
		return exitUserError
	default:
		return exitSysError
	}
}
