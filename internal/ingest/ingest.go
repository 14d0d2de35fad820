// Package ingest loads court documents into the store: page counts from
// the PDF itself, page text from OCR sidecar files.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
)

// Request contains the parameters for ingesting a court document.
type Request struct {
	PDFPaths []string     // PDF file paths (will be sorted by numeric suffix)
	OCRDir   string       // Directory of per-page OCR text files (page_0001.txt, ...)
	Title    string       // Document title (optional, derived from filename if empty)
	Logger   *slog.Logger // Optional logger for progress updates
}

// Result contains the result of a successful ingest operation.
type Result struct {
	DocID     string
	Title     string
	PageCount int
}

// Ingest counts pages across the PDFs, pairs them with their OCR
// sidecars, and registers the document in the store.
func Ingest(ctx context.Context, store *docstore.Store, req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	if len(req.PDFPaths) == 0 {
		return nil, fmt.Errorf("no PDF paths provided")
	}
	if req.OCRDir == "" {
		return nil, fmt.Errorf("no OCR directory provided")
	}

	for _, p := range req.PDFPaths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("PDF not found: %s", p)
		}
	}

	// Sort PDFs by numeric suffix (e.g., record-1.pdf, record-2.pdf)
	sortedPaths := sortPDFsByNumber(req.PDFPaths)
	log.Info("starting ingest", "pdfs", len(sortedPaths), "title", req.Title)

	pageCount := 0
	for _, pdfPath := range sortedPaths {
		count, err := countPages(pdfPath)
		if err != nil {
			return nil, fmt.Errorf("failed to count pages in %s: %w", pdfPath, err)
		}
		log.Debug("counted pages", "file", filepath.Base(pdfPath), "pages", count)
		pageCount += count
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("no pages found in PDFs")
	}

	pages, err := PagesFromOCRDir(req.OCRDir, pageCount)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = deriveTitle(sortedPaths[0])
	}

	doc, err := store.Create(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	if _, err := store.SetPages(ctx, doc.ID, pages); err != nil {
		return nil, fmt.Errorf("failed to store pages: %w", err)
	}

	log.Info("ingest complete", "doc_id", doc.ID, "pages", pageCount)

	return &Result{
		DocID:     doc.ID,
		Title:     title,
		PageCount: pageCount,
	}, nil
}

// countPages returns the PDF's page count.
func countPages(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()
	return api.PageCount(f, nil)
}

// sidecarRx extracts the page number from an OCR sidecar filename.
// Accepts page_0001.txt, page-12.txt, 7.txt and similar.
var sidecarRx = regexp.MustCompile(`(\d+)\.txt$`)

// PagesFromOCRDir reads per-page OCR text files from dir. When expected
// is > 0, the sidecars must cover exactly pages 1..expected; the OCR
// run and the PDF disagreeing is an operator problem we surface early,
// not something to paper over with empty pages.
func PagesFromOCRDir(dir string, expected int) ([]corpus.PageText, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR directory: %w", err)
	}

	byPage := make(map[int]corpus.PageText)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := sidecarRx.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		pageNum, err := strconv.Atoi(m[1])
		if err != nil || pageNum < 1 {
			continue
		}
		if _, dup := byPage[pageNum]; dup {
			return nil, fmt.Errorf("duplicate OCR sidecar for page %d", pageNum)
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		byPage[pageNum] = corpus.NewPageText(pageNum, string(data))
	}

	if len(byPage) == 0 {
		return nil, fmt.Errorf("no OCR sidecar files found in %s", dir)
	}

	if expected > 0 {
		var missing []int
		for n := 1; n <= expected; n++ {
			if _, ok := byPage[n]; !ok {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 || len(byPage) != expected {
			return nil, fmt.Errorf("OCR sidecars cover %d pages but the PDF has %d (missing: %v)",
				len(byPage), expected, missing)
		}
	}

	pages := make([]corpus.PageText, 0, len(byPage))
	for _, p := range byPage {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })
	return pages, nil
}

// sortPDFsByNumber sorts PDF paths by their numeric suffix.
// e.g., ["record-2.pdf", "record-1.pdf", "record-10.pdf"] -> ["record-1.pdf", "record-2.pdf", "record-10.pdf"]
func sortPDFsByNumber(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)

	re := regexp.MustCompile(`-(\d+)\.pdf$`)

	sort.Slice(sorted, func(i, j int) bool {
		mi := re.FindStringSubmatch(sorted[i])
		mj := re.FindStringSubmatch(sorted[j])

		// If both have numbers, sort numerically
		if len(mi) > 1 && len(mj) > 1 {
			ni, _ := strconv.Atoi(mi[1])
			nj, _ := strconv.Atoi(mj[1])
			return ni < nj
		}

		// Files without numbers come first
		if len(mi) > 1 {
			return false
		}
		if len(mj) > 1 {
			return true
		}

		// Both without numbers: alphabetical
		return sorted[i] < sorted[j]
	})

	return sorted
}

// deriveTitle extracts a title from a PDF filename.
// e.g., "motion-record.pdf" -> "motion-record"
// e.g., "motion-record-1.pdf" -> "motion-record"
func deriveTitle(pdfPath string) string {
	base := filepath.Base(pdfPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	// Remove numeric suffix like "-1", "-2", etc.
	re := regexp.MustCompile(`-\d+$`)
	name = re.ReplaceAllString(name, "")

	return name
}
