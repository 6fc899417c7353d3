package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/walker"
)

var snippetCmd = &cobra.Command{
	Use:   "snippet [file|-]",
	Short: "Estimate the footprint of a single code snippet",
	Long: `Analyses one piece of code without walking a project. The code is read
from the given file, or from stdin when the argument is "-" or omitted.
The language is taken from --language, or from the file extension.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnippet,
}

func init() {
	addModelFlags(snippetCmd)
	addOutputFlags(snippetCmd)
	snippetCmd.Flags().StringP("language", "l", "", "language of the snippet (e.g. python, go, js)")
	snippetCmd.Flags().Int("top", 5, "recommendations shown in text output (0 = all)")
	rootCmd.AddCommand(snippetCmd)
}

func runSnippet(cmd *cobra.Command, args []string) error {
	src := "-"
	if len(args) == 1 {
		src = args[0]
	}

	var (
		code []byte
		err  error
	)
	if src == "-" {
		code, err = io.ReadAll(cmd.InOrStdin())
	} else {
		code, err = os.ReadFile(src)
	}
	if err != nil {
		return fmt.Errorf("reading snippet: %w", err)
	}

	lang, _ := cmd.Flags().GetString("language")
	if lang == "" && src != "-" {
		lang = walker.DetectLanguage(src)
	}
	if lang == "" {
		return fmt.Errorf("--language is required when it cannot be inferred from a file name")
	}

	opts, err := analysisOptions(cmd)
	if err != nil {
		return err
	}

	report, err := newAnalyzer().AnalyzeSnippet(string(code), lang, opts)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	return emit(cmd, report, func(w io.Writer) error {
		return renderSnippet(w, report, top)
	})
}
