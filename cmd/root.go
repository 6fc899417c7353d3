package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/logging"
)

var (
	cfgFile string
	verbose bool

	// appConfig is loaded once before any subcommand runs.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "greencode",
	Short: "Estimate the carbon footprint of a codebase from its source",
	Long: `greencode estimates the energy consumption and carbon emissions of a
software project from static properties of its source tree: file
composition, structural code features, declared dependencies and
detected frameworks. Nothing is executed; every figure is a model-derived
estimate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		appConfig = config.LoadOrDefault(cfgFile)
		if verbose {
			appConfig.Logging.Level = "debug"
		}
		logging.Init(appConfig.Logging, os.Stderr)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
