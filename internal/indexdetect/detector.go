// Package indexdetect decides which OCR'd pages look like an index or
// table of tabs, and extracts the candidate rows it finds there. The
// heuristics are regex pattern tables with bounded contributions; no
// similarity scoring is involved at this layer.
package indexdetect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
)

// Detector scores pages for index-likeness. Safe for concurrent use.
type Detector struct {
	scoring Scoring
	logger  *slog.Logger
}

// NewDetector creates a Detector. A zero Scoring falls back to defaults;
// logger may be nil.
func NewDetector(scoring Scoring, logger *slog.Logger) *Detector {
	if scoring == (Scoring{}) {
		scoring = DefaultScoring()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{scoring: scoring, logger: logger}
}

// pageScan holds the per-page counts the tier tables consume.
type pageScan struct {
	lines         []string
	nonEmptyLines int

	tabbed       int
	dates        int
	pageRefs     int
	legalTerms   int
	tableMarkers int
	indexHeader  int
	multiColumn  int
	structured   int
	tocTerms     int
	tocExplicit  int
}

// Detect analyzes one page and returns its index-likeness confidence,
// the reasons behind it, and any extracted entry candidates.
func (d *Detector) Detect(page corpus.PageText) Detection {
	text := normalizeDashes(page.RawText)
	if strings.TrimSpace(text) == "" {
		return Detection{Page: page.PageNumber}
	}

	scan := scanPage(text)
	score, reasons := d.score(scan)
	entries := d.extractEntries(scan.lines)

	det := Detection{
		Page:       page.PageNumber,
		Confidence: score,
		Patterns:   reasons,
		Entries:    entries,
	}
	d.logger.Debug("index detection",
		"page", page.PageNumber,
		"confidence", det.Confidence,
		"entries", len(det.Entries))
	return det
}

func scanPage(text string) *pageScan {
	lines := strings.Split(text, "\n")
	s := &pageScan{lines: lines}

	s.tabbed = len(tabRx.FindAllString(text, -1)) + len(exhibitRx.FindAllString(text, -1))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		s.nonEmptyLines++
		if !isSkipLine(line) && numberedLineRx.MatchString(line) {
			s.tabbed++
		}
		if dottedLeaderRx.MatchString(line) || gapNumberRx.MatchString(line) {
			s.pageRefs++
		}
		if structuredLineRx.MatchString(line) {
			s.structured++
		}
		if len(trimmed) > 30 && wideGapRx.MatchString(strings.TrimRight(line, " \t")) {
			s.multiColumn++
		}
		if pipeRowRx.MatchString(line) {
			s.tableMarkers++
		}
	}

	s.dates = len(monthDateRx.FindAllString(text, -1)) + len(numDateRx.FindAllString(text, -1))
	s.pageRefs += len(pageWordRx.FindAllString(text, -1))
	s.legalTerms = len(legalTermRx.FindAllString(text, -1))
	s.tableMarkers += len(tableHeaderRx.FindAllString(text, -1))
	s.indexHeader = len(indexHeaderRx.FindAllString(text, -1))
	s.tocTerms = len(narrativeTermRx.FindAllString(text, -1))
	s.tocExplicit = len(tocExplicitRx.FindAllString(text, -1))

	return s
}

// score applies the pattern-class contributions in their fixed order:
// positives first, the narrative-term penalty next, and the explicit
// table-of-contents penalty last, then clamps to [0,1].
func (d *Detector) score(s *pageScan) (float64, []string) {
	w := d.scoring
	var score float64
	var reasons []string

	add := func(v float64, format string, args ...any) {
		score += v
		reasons = append(reasons, fmt.Sprintf(format+" (%+.2f)", append(args, v)...))
	}

	switch {
	case s.tabbed >= 3:
		add(w.TabbedMany, "%d numbered/tabbed entries", s.tabbed)
	case s.tabbed >= 1:
		add(w.TabbedFew, "%d numbered/tabbed entries", s.tabbed)
	}

	switch {
	case s.dates >= 5:
		add(w.DatesMany, "%d date references", s.dates)
	case s.dates >= 2:
		add(w.DatesFew, "%d date references", s.dates)
	}

	switch {
	case s.pageRefs >= 5:
		add(w.PageRefsMany, "%d page-number references", s.pageRefs)
	case s.pageRefs >= 2:
		add(w.PageRefsFew, "%d page-number references", s.pageRefs)
	}

	switch {
	case s.legalTerms >= 8:
		add(w.LegalTermsMany, "%d legal terms", s.legalTerms)
	case s.legalTerms >= 3:
		add(w.LegalTermsFew, "%d legal terms", s.legalTerms)
	}

	switch {
	case s.tableMarkers >= 3:
		add(w.TableMarkersMany, "%d table-structure markers", s.tableMarkers)
	case s.tableMarkers >= 1:
		add(w.TableMarkersFew, "%d table-structure markers", s.tableMarkers)
	}

	if s.indexHeader >= 1 {
		add(w.IndexHeader, "index header keyword")
	}

	if s.multiColumn >= 3 {
		add(w.MultiColumn, "%d multi-column lines", s.multiColumn)
	}

	switch {
	case s.structured >= 4:
		ratio := float64(s.structured) / float64(max(s.nonEmptyLines, 1))
		add(w.StructuredMax*ratio, "%d structured index rows (ratio %.2f)", s.structured, ratio)
	case s.structured >= 2:
		add(w.StructuredFew, "%d structured index rows", s.structured)
	default:
		add(-w.StructuredPenalty, "%d structured index rows", s.structured)
	}

	if s.tocTerms >= 2 {
		add(-w.TocTermsPenalty, "%d narrative front-matter terms", s.tocTerms)
	}

	// Applied last so the dominant penalty lands on the already-summed
	// total before clamping.
	if s.tocExplicit >= 1 {
		add(-w.TocExplicitPenalty, "explicit table-of-contents mention")
	}

	return clamp01(score), reasons
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
