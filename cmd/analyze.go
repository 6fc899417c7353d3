package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/progress"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Estimate the carbon footprint of a project",
	Long: `Walks the project tree, extracts structural features from every source
file, parses dependency manifests, detects frameworks and converts the
result into energy and carbon estimates with recommendations.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addModelFlags(analyzeCmd)
	addOutputFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("save", false, "record the run in the history database")
	analyzeCmd.Flags().Bool("gitignore", false, "also skip paths matched by the root .gitignore")
	analyzeCmd.Flags().Int("workers", 0, "feature extraction workers (overrides config)")
	analyzeCmd.Flags().Int("top", 5, "recommendations shown in text output (0 = all)")
	analyzeCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	opts, err := analysisOptions(cmd)
	if err != nil {
		return err
	}
	save, _ := cmd.Flags().GetBool("save")
	opts.Stamp = save

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newAnalyzer()
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	var reporter progress.Reporter
	if !noProgress {
		reporter = progress.NewReporter(cmd.ErrOrStderr())
		a.SetProgressFunc(progress.Func(reporter))
	}

	report, err := a.AnalyzeProject(ctx, root, opts)
	if reporter != nil {
		reporter.Finish()
	}
	if err != nil {
		return fmt.Errorf("analysing %s: %w", root, err)
	}

	if save {
		database, store, err := openHistory()
		if err != nil {
			return err
		}
		defer database.Close()
		run, err := store.Record(ctx, report)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s to %s\n", run.ID, database.Path())
		}
	}

	top, _ := cmd.Flags().GetInt("top")
	return emit(cmd, report, func(w io.Writer) error {
		return renderReport(w, report, top)
	})
}
