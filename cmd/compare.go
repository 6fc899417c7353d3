package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <path> <path> [path...]",
	Short: "Compare the footprint of several projects",
	Long:  `Analyses each project in turn and ranks them by estimated carbon.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := analysisOptions(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cmp, err := newAnalyzer().CompareProjects(ctx, args, opts)
		if err != nil {
			return err
		}
		return emit(cmd, cmp, func(w io.Writer) error {
			return renderComparison(w, cmp)
		})
	},
}

func init() {
	addModelFlags(compareCmd)
	addOutputFlags(compareCmd)
	compareCmd.Flags().Bool("gitignore", false, "also skip paths matched by each root .gitignore")
	rootCmd.AddCommand(compareCmd)
}
