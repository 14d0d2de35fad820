package corpus

import (
	"strings"
	"sync"
	"testing"
)

func TestNewPageText(t *testing.T) {
	p := NewPageText(3, "some ocr text")
	if p.Hash == "" {
		t.Fatal("expected hash to be set")
	}
	if p.Hash != HashText("some ocr text") {
		t.Error("hash should be derived from raw text")
	}

	q := NewPageText(4, "some ocr text")
	if q.Hash != p.Hash {
		t.Error("hash must depend only on text, not page number")
	}

	r := NewPageText(3, "different text")
	if r.Hash == p.Hash {
		t.Error("different text must produce a different hash")
	}
}

func TestCache_ComputeOnce(t *testing.T) {
	c := NewCache()
	p := NewPageText(1, "Affidavit of Jane Doe sworn April 5, 2022\nThis is the body of the page.")

	first := c.GetOrCompute(p)
	second := c.GetOrCompute(p)
	if first != second {
		t.Error("expected the same cached entry on repeat lookup")
	}
	if c.Len() != 1 {
		t.Errorf("cache size = %d, want 1", c.Len())
	}
}

func TestCache_EvictsStaleHash(t *testing.T) {
	c := NewCache()

	old := NewPageText(7, "original ocr text for page seven, long enough to chunk")
	c.GetOrCompute(old)

	reocr := NewPageText(7, "corrected ocr text for page seven after a better scan")
	np := c.GetOrCompute(reocr)

	if np.NormalizedText == "" {
		t.Fatal("expected normalized text for re-OCR'd page")
	}
	if c.Len() != 1 {
		t.Errorf("stale entry not evicted: cache size = %d, want 1", c.Len())
	}
}

func TestDerive_Chunks(t *testing.T) {
	raw := "Short\n" +
		"This line is comfortably longer than fifteen characters.\n" +
		"\n" +
		"A second paragraph that clears the thirty character minimum easily. " +
		"It has two sentences in it, both long enough to stand alone."

	np := derive(NewPageText(1, raw))

	if len(np.Chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for _, ch := range np.Chunks {
		if strings.Contains(ch, "short") && len(ch) <= minLineLen {
			t.Errorf("short line leaked into chunks: %q", ch)
		}
	}

	// Line view and sentence view should both be represented.
	var hasLine, hasSentence bool
	for _, ch := range np.Chunks {
		if strings.HasPrefix(ch, "this line is comfortably") {
			hasLine = true
		}
		if strings.HasPrefix(ch, "it has two sentences") {
			hasSentence = true
		}
	}
	if !hasLine {
		t.Error("line chunk missing")
	}
	if !hasSentence {
		t.Error("sentence chunk missing")
	}
}

func TestDerive_Tokens(t *testing.T) {
	np := derive(NewPageText(1, "Tab 7: Affidavit of J Doe"))

	for _, want := range []string{"tab", "affidavit", "of", "doe"} {
		if _, ok := np.Tokens[want]; !ok {
			t.Errorf("token %q missing", want)
		}
	}
	if _, ok := np.Tokens["j"]; ok {
		t.Error("single-rune token should be filtered")
	}
}

func TestCache_ConcurrentLookups(t *testing.T) {
	c := NewCache()
	pages := make([]PageText, 20)
	for i := range pages {
		pages[i] = NewPageText(i+1, strings.Repeat("page content ", i+1))
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range pages {
				np := c.GetOrCompute(p)
				if np.PageNumber != p.PageNumber {
					t.Errorf("page number mismatch: %d != %d", np.PageNumber, p.PageNumber)
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() != len(pages) {
		t.Errorf("cache size = %d, want %d", c.Len(), len(pages))
	}
}
