package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize greencode configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure greencode for your project and generates a .greencode.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil && !force {
			return fmt.Errorf("%s already exists; use --force to overwrite it", config.FileName)
		}
		_, err = config.RunWizard(dir)
		return err
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
