package main

import (
	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running lawlink server via HTTP.

These commands require a running server (lawlink serve).
Use --server to specify a custom server URL.

Examples:
  lawlink api health                      # Check server health
  lawlink api documents list              # List registered documents
  lawlink api documents index <id>        # Detect a document's index pages`,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Document and matching-engine commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))

	// Documents as subcommand group
	for _, ep := range endpoints.DocumentCommands() {
		documentsCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(apiCmd)
}
