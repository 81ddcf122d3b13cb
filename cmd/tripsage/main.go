// README: Command-line client; runs one estimation without the HTTP server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tripsage",
		Short:        "Estimate trip fuel cost and CO2 emissions",
		SilenceUsage: true,
	}
	root.AddCommand(newEstimateCmd(), newOptionsCmd())
	return root
}
