package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/ingest"
)

var detectExpectedTabs int

var detectCmd = &cobra.Command{
	Use:   "detect <ocr-dir>",
	Short: "Detect index pages from OCR sidecars, without a server",
	Long: `Reads per-page OCR text files (page_0001.txt, page_0002.txt, ...)
from a directory and scans them for an index / table of tabs.

Examples:
  lawlink detect ./ocr                      # Scan and report entries
  lawlink detect ./ocr --expected-tabs 13   # Also check completeness`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		pages, err := ingest.PagesFromOCRDir(args[0], 0)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		detector := indexdetect.NewDetector(cfg.Engine.Detector, logger)

		opts := cfg.Engine.Scan
		if detectExpectedTabs > 0 {
			opts.ExpectedTabs = detectExpectedTabs
		}

		return api.Output(detector.ScanDocument(pages, opts))
	},
}

func init() {
	detectCmd.Flags().IntVar(&detectExpectedTabs, "expected-tabs", 0,
		"Expected number of tab entries (enables completeness check)")
	rootCmd.AddCommand(detectCmd)
}
