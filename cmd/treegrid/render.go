package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/treegrid/pkg/grid"
)

var (
	flagNode   string
	flagToken  string
	flagScript bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the tree table to stdout",
	Long: `Render prints the HTML the server would return for one request.

Example:
  treegrid render
  treegrid render --node 0190c2a4-... --token abc123
  treegrid render --script
  treegrid render --json`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&flagNode, "node", "", "render the children of this node id")
	renderCmd.Flags().StringVar(&flagToken, "token", "", "correlation token echoed on the container")
	renderCmd.Flags().BoolVar(&flagScript, "script", false, "also print the client script")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	g, err := newGrid(s)
	if err != nil {
		return err
	}
	out, err := g.Render(ctx, grid.Request{NodeID: flagNode, Token: flagToken})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, out)
	}
	fmt.Fprintln(w, out.HTML)
	if flagScript {
		fmt.Fprintf(w, "<script>%s</script>\n", out.Script)
	}
	return nil
}
