package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lawlink server",
	Long: `Start the lawlink HTTP server.

The server provides:
  - /health                           - Server health check
  - /api/documents                    - Document registration and listing
  - /api/documents/{id}/pages         - OCR page upload
  - /api/documents/{id}/index         - Index page detection
  - /api/documents/{id}/match         - Single entry-to-page matching
  - /api/documents/{id}/batch         - Batch entry mapping
  - /api/documents/{id}/resolve       - LLM arbitration of candidates

Examples:
  lawlink serve                    # Start on default port 8080
  lawlink serve --port 3000        # Start on custom port
  lawlink serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
