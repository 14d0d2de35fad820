package main

import (
	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "lawlink",
	Short: "Index detection and fuzzy page matching for court documents",
	Long: `lawlink turns an OCR'd court record into hyperlinkable structure:
it finds the index (table of tabs) at the front of the document,
extracts its entries, and maps each entry to the page it refers to.

The engine includes:
  - Index page detection with confidence scoring
  - Tab entry extraction across multi-page indexes
  - Fuzzy entry-to-page matching that never fabricates a result
  - Optional LLM arbitration for ambiguous candidates`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.lawlink/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "lawlink home directory (default: ~/.lawlink)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
