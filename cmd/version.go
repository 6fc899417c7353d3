package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/energy"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of greencode",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "greencode %s (model %s)\n", Version, energy.ModelVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
