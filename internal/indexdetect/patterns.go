package indexdetect

import (
	"regexp"
	"strings"
)

// Pattern families. Each class is counted uniformly over the page and
// mapped to a bounded contribution through the tier tables in
// detector.go, keeping the scoring rules auditable in one place.
var (
	// Numbered/tabbed entry family.
	tabRx          = regexp.MustCompile(`(?i)\btab(?:\s*no\.?)?\s*(\d{1,3})\b`)
	numberedLineRx = regexp.MustCompile(`^\s*(\d{1,3})[\).\s-]+\s*(\S.*)$`)
	exhibitRx      = regexp.MustCompile(`(?i)\bexhibit\s+(?:no\.?\s*)?[a-z0-9]{1,4}\b`)

	// Date reference family.
	monthDateRx = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\s*,?\s+\d{4}\b`)
	numDateRx   = regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})\b`)

	// Page reference family.
	pageWordRx     = regexp.MustCompile(`(?i)\bpage\s+\d{1,4}\b`)
	dottedLeaderRx = regexp.MustCompile(`\.{3,}\s*\d{1,4}\s*$`)
	gapNumberRx    = regexp.MustCompile(`\S\s{6,}\d{1,4}\s*$`)

	// Legal terminology density.
	legalTermRx = regexp.MustCompile(`(?i)\b(?:affidavit|motion|plaintiff|defendant|respondent|applicant|exhibit|transcript|pleading|factum|endorsement|order|judgment|undertaking|sworn|examination|notice)\b`)

	// Table structure markers.
	pipeRowRx     = regexp.MustCompile(`\|[^|\n]*\|`)
	tableHeaderRx = regexp.MustCompile(`(?i)\b(?:tab\s+no\.?|document\s+no\.?|tab\s+number|document\s+number|nature\s+of\s+document)\b`)

	// Index header keywords. Matches the hint set the OCR pipeline uses
	// (INDEX, INDEX OF TABS, DOCUMENT INDEX, EXHIBIT LIST, TAB NUMBER).
	indexHeaderRx = regexp.MustCompile(`(?i)\b(?:index|document\s+index|index\s+of\s+tabs|exhibit\s+list|list\s+of\s+exhibits)\b`)

	// Structured index row: entry text, then a dotted leader or a large
	// gap, then a page number at end of line.
	structuredLineRx = regexp.MustCompile(`^.{10,}?(?:\.{3,}|\s{6,})\s*\d{1,4}\s*$`)

	// Wide-gap columns.
	wideGapRx = regexp.MustCompile(`\s{10,}`)

	// Negative signals: narrative front-matter vocabulary, and the
	// dominant explicit table-of-contents mention.
	narrativeTermRx = regexp.MustCompile(`(?i)\b(?:chapter|preface|foreword|bibliography|glossary|prologue|epilogue)\b`)
	tocExplicitRx   = regexp.MustCompile(`(?i)(?:table\s+of\s+contents|\btoc\b)`)

	// Entry extraction helpers.
	entryPageRefRx = regexp.MustCompile(`(?:\.{2,}|\s{4,})\s*(\d{1,4})\s*$`)
	dashVariants   = strings.NewReplacer("—", "-", "–", "-")
)

// skipLinePrefixes marks lines that look numbered but are court-form
// boilerplate, never index rows.
var skipLineMarkers = []string{"COURT FILE", "BETWEEN:", "AND:", "FILE NO"}

func isSkipLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, m := range skipLineMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// normalizeDashes maps em/en dashes to ASCII hyphens before line
// matching; OCR output mixes the three freely.
func normalizeDashes(s string) string {
	return dashVariants.Replace(s)
}
