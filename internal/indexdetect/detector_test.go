package indexdetect

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
)

// indexPageText is a synthetic but representative motion-record index.
const indexPageText = `INDEX

Tab No.   Nature of Document                                  Page

Tab 1 - Notice of Motion dated January 15, 2022 ............ 1
Tab 2 - Affidavit of Rino Ferrante sworn February 18, 2022 ............ 12
Tab 3 - Affidavit of Jane Doe sworn April 5, 2022 ............ 45
Tab 4 - Transcript of Cross-Examination held June 3, 2021 ............ 78
Tab 5 - Factum of the Moving Party dated March 1, 2022 ............ 102
Tab 6 - Order of Justice Smith dated December 10, 2021 ............ 130
`

func detectText(t *testing.T, text string) Detection {
	t.Helper()
	d := NewDetector(DefaultScoring(), nil)
	return d.Detect(corpus.NewPageText(1, text))
}

func TestDetect_IndexPage(t *testing.T) {
	det := detectText(t, indexPageText)

	if det.Confidence < 0.8 {
		t.Errorf("index page confidence = %v, want >= 0.8 (patterns: %v)", det.Confidence, det.Patterns)
	}
	if len(det.Entries) != 6 {
		t.Errorf("entries = %d, want 6", len(det.Entries))
	}
	if len(det.Patterns) == 0 {
		t.Error("expected pattern reasons")
	}

	first := det.Entries[0]
	if first.TabNumber != "1" {
		t.Errorf("first entry tab = %q, want 1", first.TabNumber)
	}
	if !strings.Contains(first.Text, "Notice of Motion") {
		t.Errorf("first entry text = %q", first.Text)
	}
	if first.PageRef == nil || *first.PageRef != 1 {
		t.Errorf("first entry pageRef = %v, want 1", first.PageRef)
	}
	if first.DateFound == "" {
		t.Error("expected a date on the first entry")
	}
}

func TestDetect_BodyPage(t *testing.T) {
	body := `I, Rino Ferrante, of the City of Toronto, MAKE OATH AND SAY:

1. I am the applicant in this proceeding and as such have knowledge
of the matters to which I hereinafter depose.

2. On February 18, 2022 I attended at the offices of my counsel.`

	det := detectText(t, body)
	if det.Confidence >= 0.5 {
		t.Errorf("body page confidence = %v, want < 0.5 (patterns: %v)", det.Confidence, det.Patterns)
	}
}

func TestDetect_EmptyPage(t *testing.T) {
	det := detectText(t, "")
	if det.Confidence != 0 {
		t.Errorf("empty page confidence = %v, want 0", det.Confidence)
	}
	if len(det.Entries) != 0 {
		t.Errorf("empty page entries = %d, want 0", len(det.Entries))
	}
}

func TestDetect_TableOfContentsPenalty(t *testing.T) {
	// Identical pages except for the explicit mention; the penalty must
	// move the score by at least 0.5. The base page is deliberately
	// modest so neither score clamps. Calibration-sensitive.
	base := `INDEX

Tab 1 - Notice of Motion returnable before the court
Tab 2 - Affidavit of Jane Doe with materials attached
Tab 3 - Factum of the moving party for the hearing
`
	without := detectText(t, base)
	with := detectText(t, "Table of Contents\n"+base)

	if diff := without.Confidence - with.Confidence; diff < 0.5 {
		t.Errorf("TOC penalty moved score by %v, want >= 0.5 (without=%v with=%v)",
			diff, without.Confidence, with.Confidence)
	}
}

func TestDetect_DeduplicatesRepeatedEntries(t *testing.T) {
	text := `INDEX

Tab 1 - Affidavit of Jane Doe sworn April 5, 2022 ............ 45
Tab 1 - Affidavit of Jane Doe sworn April 5, 2022 ............ 45
Tab 2 - Notice of Motion dated January 15, 2022 ............ 1
`
	det := detectText(t, text)
	if len(det.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 after dedup", len(det.Entries))
	}
	if det.Entries[0].TabNumber != "1" || det.Entries[1].TabNumber != "2" {
		t.Errorf("unexpected entry order: %+v", det.Entries)
	}
}

func TestDetect_EntryCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("INDEX\n")
	for i := 1; i <= 80; i++ {
		fmt.Fprintf(&b, "Tab %d - Affidavit of Witness Number %d sworn January %d, 2022 ............ %d\n",
			i, i, i%28+1, i*3)
	}

	det := detectText(t, b.String())
	if len(det.Entries) != DefaultScoring().MaxEntries {
		t.Errorf("entries = %d, want cap %d", len(det.Entries), DefaultScoring().MaxEntries)
	}
}

func TestDetect_SkipsBoilerplateLines(t *testing.T) {
	text := `INDEX
COURT FILE NO: CV-22-00123456
Tab 1 - Affidavit of Jane Doe sworn April 5, 2022 ............ 45
`
	det := detectText(t, text)
	for _, e := range det.Entries {
		if strings.Contains(strings.ToUpper(e.Text), "COURT FILE") {
			t.Errorf("boilerplate line extracted as entry: %+v", e)
		}
	}
}

func TestDetect_RejectsOutOfRangeTabNumbers(t *testing.T) {
	// numberedLineRx would match a year-prefixed line; range validation
	// keeps it out... but 4-digit numbers never match the family regex.
	text := `INDEX
0 - An entry with a zero tab number that is long enough
Tab 12 - A perfectly ordinary affidavit of someone ............ 9
`
	det := detectText(t, text)
	if len(det.Entries) != 1 {
		t.Fatalf("entries = %d, want 1 (got %+v)", len(det.Entries), det.Entries)
	}
	if det.Entries[0].TabNumber != "12" {
		t.Errorf("tab = %q, want 12", det.Entries[0].TabNumber)
	}
}

func TestScanDocument(t *testing.T) {
	cover := corpus.NewPageText(1, "SUPERIOR COURT OF JUSTICE\n\nMOTION RECORD\n\nVolume 1 of 2")
	index1 := corpus.NewPageText(2, indexPageText)
	index2 := corpus.NewPageText(3, `Tab 7 - Endorsement of Justice Brown dated May 2, 2022 ............ 155
Tab 8 - Costs Outline of the Responding Party ............ 160
Tab 9 - Affidavit of Service sworn March 3, 2022 ............ 170
Tab 10 - Draft Order requested by the Moving Party ............ 180
Tab 11 - Notice of Appearance dated February 1, 2022 ............ 190`)
	body := corpus.NewPageText(4, "I, Jane Doe, of the City of Toronto, MAKE OATH AND SAY as follows in this my affidavit.")

	result := NewDetector(DefaultScoring(), nil).ScanDocument(
		[]corpus.PageText{cover, index1, index2, body},
		DefaultScanOptions(),
	)

	if len(result.IndexPages) < 2 {
		t.Fatalf("index pages = %v, want pages 2 and 3", result.IndexPages)
	}
	if result.IndexPages[0] != 2 || result.IndexPages[1] != 3 {
		t.Errorf("index pages = %v, want [2 3]", result.IndexPages)
	}
	if result.FoundTabs != 11 {
		t.Errorf("found tabs = %d, want 11", result.FoundTabs)
	}
	if !result.Complete {
		t.Error("scan with no expectation should be complete")
	}
}

func TestScanDocument_ExpectedTabs(t *testing.T) {
	pages := []corpus.PageText{corpus.NewPageText(1, indexPageText)}
	opts := DefaultScanOptions()
	opts.ExpectedTabs = 10

	result := NewDetector(DefaultScoring(), nil).ScanDocument(pages, opts)
	if result.Complete {
		t.Errorf("expected incomplete scan: found %d of %d", result.FoundTabs, opts.ExpectedTabs)
	}
	if result.FoundTabs != 6 {
		t.Errorf("found tabs = %d, want 6", result.FoundTabs)
	}
}

func TestScanDocument_NoIndex(t *testing.T) {
	pages := []corpus.PageText{
		corpus.NewPageText(1, "Just an ordinary page of narrative text with nothing special on it."),
	}
	result := NewDetector(DefaultScoring(), nil).ScanDocument(pages, DefaultScanOptions())
	if len(result.IndexPages) != 0 {
		t.Errorf("index pages = %v, want none", result.IndexPages)
	}
	if len(result.Entries) != 0 {
		t.Errorf("entries = %v, want none", result.Entries)
	}
}
