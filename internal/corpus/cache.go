package corpus

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Gurmittoor/hyperlinklaw/internal/textnorm"
)

// Chunking thresholds: a chunk shorter than its view's minimum is too
// little context to score against.
const (
	minLineLen      = 15
	minParagraphLen = 30
	minSentenceLen  = 20
)

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	sentenceSplit  = regexp.MustCompile(`[.!?]+\s+`)
)

// NormalizedPage is the derived, memoized view of one PageText. All
// fields are computed purely from RawText; treat as read-only.
type NormalizedPage struct {
	PageNumber int
	// Tokens is the set of normalized tokens (length > 1).
	Tokens map[string]struct{}
	// Chunks combines line, paragraph, and sentence views (all
	// normalized) so matching can hit whichever granularity is
	// strongest for a given entry.
	Chunks []string
	// NormalizedText is the full page, normalized.
	NormalizedText string
}

// Cache memoizes NormalizedPage per content hash. Reads are safe under
// concurrency; a miss may be computed by more than one goroutine, which
// is harmless because derivation is pure. One Cache serves one document
// and lives as long as its processing session.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*NormalizedPage
	// byPage tracks the latest hash per page number so a re-OCR'd page
	// evicts its stale entry instead of leaking it.
	byPage map[int]string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*NormalizedPage),
		byPage:  make(map[int]string),
	}
}

// GetOrCompute returns the normalized view for the page, deriving and
// storing it on first sight of the page's content hash.
func (c *Cache) GetOrCompute(p PageText) *NormalizedPage {
	p = p.EnsureHash()

	c.mu.RLock()
	np, ok := c.entries[p.Hash]
	c.mu.RUnlock()
	if ok {
		return np
	}

	np = derive(p)

	c.mu.Lock()
	if existing, ok := c.entries[p.Hash]; ok {
		// Another goroutine computed the same pure result first.
		c.mu.Unlock()
		return existing
	}
	if prev, ok := c.byPage[p.PageNumber]; ok && prev != p.Hash {
		delete(c.entries, prev)
	}
	c.entries[p.Hash] = np
	c.byPage[p.PageNumber] = p.Hash
	c.mu.Unlock()

	return np
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// derive computes the normalized view. Pure function of the page text.
func derive(p PageText) *NormalizedPage {
	raw := p.RawText

	var chunks []string
	appendChunks := func(parts []string, minLen int) {
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if len(part) <= minLen {
				continue
			}
			if n := textnorm.Normalize(part); n != "" {
				chunks = append(chunks, n)
			}
		}
	}

	appendChunks(strings.Split(raw, "\n"), minLineLen)
	appendChunks(paragraphSplit.Split(raw, -1), minParagraphLen)
	appendChunks(sentenceSplit.Split(raw, -1), minSentenceLen)

	return &NormalizedPage{
		PageNumber:     p.PageNumber,
		Tokens:         textnorm.TokenSet(raw),
		Chunks:         chunks,
		NormalizedText: textnorm.Normalize(raw),
	}
}
