package indexdetect

import (
	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
)

// ScanOptions controls document-level index scanning.
type ScanOptions struct {
	// MaxScanPages bounds how deep into the document the scan looks for
	// the first index page. Court briefs put the index up front.
	MaxScanPages int `mapstructure:"max_scan_pages" yaml:"max_scan_pages"`
	// ContinuationMaxPages bounds how many pages a multi-page index may
	// span once the first index page is found.
	ContinuationMaxPages int `mapstructure:"continuation_max_pages" yaml:"continuation_max_pages"`
	// MinConfidence is the per-page bar for calling a page an index page.
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	// ContinuationMinConfidence is the lower bar applied to follow-on
	// pages; continuation pages often lack the header banner.
	ContinuationMinConfidence float64 `mapstructure:"continuation_min_confidence" yaml:"continuation_min_confidence"`
	// ExpectedTabs, when > 0, enables found-vs-expected reporting.
	ExpectedTabs int `mapstructure:"expected_tabs" yaml:"expected_tabs"`
}

// DefaultScanOptions returns the scanning defaults.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MaxScanPages:              15,
		ContinuationMaxPages:      10,
		MinConfidence:             0.5,
		ContinuationMinConfidence: 0.3,
	}
}

// ScanResult is the document-level outcome.
type ScanResult struct {
	// Detections holds per-page results for every scanned page, in page
	// order, so callers can show why pages were ruled in or out.
	Detections []Detection `json:"detections"`
	// IndexPages lists the pages accepted as index pages.
	IndexPages []int `json:"indexPages"`
	// Entries merges candidates from all accepted pages, deduplicated
	// by tab number (first occurrence wins).
	Entries []EntryCandidate `json:"entries"`
	// ExpectedTabs and FoundTabs support tab-count validation; Complete
	// is true when no expectation was set or it was met.
	ExpectedTabs int  `json:"expectedTabs,omitempty"`
	FoundTabs    int  `json:"foundTabs"`
	Complete     bool `json:"complete"`
}

// ScanDocument walks the first MaxScanPages pages, finds the first page
// that clears MinConfidence, and follows contiguous index-like pages
// from there. Entries are merged across the accepted pages.
func (d *Detector) ScanDocument(pages []corpus.PageText, opts ScanOptions) ScanResult {
	if opts.MaxScanPages <= 0 {
		opts = DefaultScanOptions()
	}

	var result ScanResult
	firstIdx := -1

	limit := min(opts.MaxScanPages, len(pages))
	for i := 0; i < limit; i++ {
		det := d.Detect(pages[i])
		result.Detections = append(result.Detections, det)
		if det.Confidence >= opts.MinConfidence {
			firstIdx = i
			break
		}
	}

	if firstIdx < 0 {
		result.Complete = opts.ExpectedTabs == 0
		result.ExpectedTabs = opts.ExpectedTabs
		return result
	}

	seenTabs := make(map[string]struct{})
	accept := func(det Detection) {
		result.IndexPages = append(result.IndexPages, det.Page)
		for _, e := range det.Entries {
			if _, dup := seenTabs[e.TabNumber]; dup {
				continue
			}
			seenTabs[e.TabNumber] = struct{}{}
			result.Entries = append(result.Entries, e)
		}
	}

	accept(result.Detections[len(result.Detections)-1])

	// Follow continuation pages: an index often spans several pages, and
	// the later ones drop the header banner.
	stop := min(firstIdx+opts.ContinuationMaxPages, len(pages))
	for i := firstIdx + 1; i < stop; i++ {
		det := d.Detect(pages[i])
		result.Detections = append(result.Detections, det)
		if det.Confidence < opts.ContinuationMinConfidence {
			break
		}
		accept(det)
	}

	result.FoundTabs = len(result.Entries)
	result.ExpectedTabs = opts.ExpectedTabs
	result.Complete = opts.ExpectedTabs == 0 || result.FoundTabs >= opts.ExpectedTabs
	return result
}
