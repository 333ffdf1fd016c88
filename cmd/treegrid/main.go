// Command treegrid stores hierarchical nodes and renders them as a lazy
// loading tree table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "treegrid:", err)
		os.Exit(exitCode(err))
	}
}
