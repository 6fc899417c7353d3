package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [path]",
	Short: "List recorded analysis runs",
	Long:  `Lists runs saved with "greencode analyze --save", newest first. With a path, only that project's runs are shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		filter := history.Filter{Limit: limit}
		if len(args) == 1 {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}
			filter.ProjectPath = abs
		}

		database, store, err := openHistory()
		if err != nil {
			return err
		}
		defer database.Close()

		runs, err := store.List(context.Background(), filter)
		if err != nil {
			return err
		}
		return emit(cmd, runs, func(w io.Writer) error {
			return renderHistory(w, runs)
		})
	},
}

func init() {
	addOutputFlags(historyCmd)
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
