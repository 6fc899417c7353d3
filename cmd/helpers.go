package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/greencode/internal/analyzer"
	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/history"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// newAnalyzer builds an Analyzer from the loaded configuration.
func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(loadedConfig())
}

// loadedConfig returns the configuration loaded by the root command, or the
// defaults when a subcommand runs without it (tests).
func loadedConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// openHistory opens the run history database from config.
func openHistory() (*history.DB, *history.Store, error) {
	path := loadedConfig().HistoryPath
	if path == "" {
		path = filepath.Join(".greencode", "history.db")
	}
	database, err := history.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return database, history.NewStore(database), nil
}

// addOutputFlags registers --format and --output.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", formatText, "output format: text, json or yaml")
	cmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")
}

// emit writes v in the requested format. text renders with textFn.
func emit(cmd *cobra.Command, v any, textFn func(io.Writer) error) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case formatText:
		return textFn(w)
	default:
		return fmt.Errorf("unknown format %q: must be text, json or yaml", format)
	}
}

// analysisOptions reads the flags shared by analyze, snippet and compare.
func analysisOptions(cmd *cobra.Command) (analyzer.Options, error) {
	grid, _ := cmd.Flags().GetString("grid")
	hours, _ := cmd.Flags().GetFloat64("hours")
	if hours < 0 {
		return analyzer.Options{}, fmt.Errorf("--hours must be non-negative")
	}
	cfg := loadedConfig()
	if grid != "" {
		if _, ok := cfg.CO2Factors[grid]; !ok {
			return analyzer.Options{}, fmt.Errorf("unknown grid %q: must be one of %v", grid, cfg.GridNames())
		}
	}
	opts := analyzer.Options{
		Grid:             config.GridType(grid),
		DevelopmentHours: hours,
	}
	if f := cmd.Flags().Lookup("workers"); f != nil {
		opts.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if f := cmd.Flags().Lookup("gitignore"); f != nil {
		opts.RespectGitignore, _ = cmd.Flags().GetBool("gitignore")
	}
	return opts, nil
}

// addModelFlags registers --grid and --hours.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("grid", "", "grid profile (global_average, renewable_heavy, coal_heavy, natural_gas, nuclear)")
	cmd.Flags().Float64("hours", 0, "estimated human development hours")
}
