package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/ingest"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/similarity"
)

var (
	processOCRDir       string
	processTitle        string
	processExpectedTabs int
)

// ProcessReport is the combined output of a local end-to-end run.
type ProcessReport struct {
	DocID     string                 `json:"docId"`
	Title     string                 `json:"title"`
	PageCount int                    `json:"pageCount"`
	Scan      indexdetect.ScanResult `json:"scan"`
	Batch     *match.BatchResult     `json:"batch,omitempty"`
}

var processCmd = &cobra.Command{
	Use:   "process <pdf>...",
	Short: "Ingest, detect the index, and map every entry in one pass",
	Long: `Runs the whole pipeline locally, without a server:
the PDFs give the page count, the OCR sidecar directory gives the page
text, then the index is detected and each entry is mapped to its page.

Examples:
  lawlink process record.pdf --ocr-dir ./ocr
  lawlink process record-1.pdf record-2.pdf --ocr-dir ./ocr --expected-tabs 13`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		store := docstore.NewStore(logger)
		res, err := ingest.Ingest(ctx, store, ingest.Request{
			PDFPaths: args,
			OCRDir:   processOCRDir,
			Title:    processTitle,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		doc, err := store.Get(ctx, res.DocID)
		if err != nil {
			return err
		}

		detector := indexdetect.NewDetector(cfg.Engine.Detector, logger)
		opts := cfg.Engine.Scan
		if processExpectedTabs > 0 {
			opts.ExpectedTabs = processExpectedTabs
		}
		scan := detector.ScanDocument(doc.Pages, opts)

		report := ProcessReport{
			DocID:     res.DocID,
			Title:     res.Title,
			PageCount: res.PageCount,
			Scan:      scan,
		}

		if len(scan.Entries) > 0 {
			scorer := similarity.NewScorer(cfg.Engine.Similarity)
			matcher := match.NewMatcher(scorer, corpus.NewCache(), cfg.Engine.Match, logger)
			mapper := match.NewBatchMapper(matcher, cfg.Engine.MaxWorkers, logger)

			entries := make([]match.Entry, 0, len(scan.Entries))
			for _, e := range scan.Entries {
				entries = append(entries, match.Entry{Text: e.Text, PageHint: e.PageRef})
			}
			batch := mapper.MapAll(ctx, entries, doc.Pages)
			report.Batch = &batch
		}

		return api.Output(report)
	},
}

func init() {
	processCmd.Flags().StringVar(&processOCRDir, "ocr-dir", "", "Directory of per-page OCR text files (required)")
	processCmd.Flags().StringVar(&processTitle, "title", "", "Document title (default: derived from filename)")
	processCmd.Flags().IntVar(&processExpectedTabs, "expected-tabs", 0,
		"Expected number of tab entries (enables completeness check)")
	processCmd.MarkFlagRequired("ocr-dir")
	rootCmd.AddCommand(processCmd)
}
