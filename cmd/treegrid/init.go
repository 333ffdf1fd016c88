package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/treegrid/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration and the node store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dataDir, err := openStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if flagJSON {
			return writeJSON(out, map[string]string{
				"config":  config.Path(configDir),
				"backend": conf.Backend,
				"data":    dataDir,
			})
		}
		fmt.Fprintln(out, "treegrid initialized")
		fmt.Fprintln(out, "  config: ", config.Path(configDir))
		fmt.Fprintln(out, "  backend:", conf.Backend)
		fmt.Fprintln(out, "  data:   ", dataDir)
		return nil
	},
}
