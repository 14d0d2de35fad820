package match

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
)

// Entry is one index entry to map to a page.
type Entry struct {
	Text     string `json:"text"`
	PageHint *int   `json:"pageHint,omitempty"`
}

// BucketStats counts results by confidence band. The bands give callers
// a quick read on batch quality without inspecting every result.
type BucketStats struct {
	High   int `json:"high"`   // >= 0.8
	Medium int `json:"medium"` // 0.5 - 0.79
	Low    int `json:"low"`    // 0.15 - 0.49
	None   int `json:"none"`   // < 0.15 or nothing to rank
}

// Total returns the number of bucketed entries.
func (b BucketStats) Total() int {
	return b.High + b.Medium + b.Low + b.None
}

// BatchResult pairs per-entry results (in input order) with aggregate
// bucket counts.
type BatchResult struct {
	ID      string      `json:"id"`
	Results []*Result   `json:"results"`
	Stats   BucketStats `json:"stats"`
}

// BatchMapper runs the matcher over many entries. Entries are
// independent, so they fan out across a bounded worker pool; results are
// reassembled in input order. There is no retry and no fallback: entries
// with no match surface as such.
type BatchMapper struct {
	matcher *Matcher
	workers int
	logger  *slog.Logger
}

// NewBatchMapper creates a BatchMapper. workers <= 0 uses GOMAXPROCS;
// logger may be nil.
func NewBatchMapper(matcher *Matcher, workers int, logger *slog.Logger) *BatchMapper {
	if matcher == nil {
		matcher = NewMatcher(nil, nil, Thresholds{}, nil)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchMapper{matcher: matcher, workers: workers, logger: logger}
}

// MapAll maps every entry against the page corpus. The context bounds
// total work: on cancellation, remaining entries are left as "none".
func (b *BatchMapper) MapAll(ctx context.Context, entries []Entry, pages []corpus.PageText) BatchResult {
	batch := BatchResult{
		ID:      uuid.New().String(),
		Results: make([]*Result, len(entries)),
	}
	if len(entries) == 0 {
		return batch
	}

	b.logger.Info("batch mapping started",
		"batch_id", batch.ID,
		"entries", len(entries),
		"pages", len(pages),
		"workers", b.workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entry := entries[i]
				batch.Results[i] = b.matcher.FindBestPage(ctx, entry.Text, pages, entry.PageHint)
			}
		}()
	}

feed:
	for i := range entries {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, r := range batch.Results {
		batch.Stats = bucket(batch.Stats, r)
	}

	b.logger.Info("batch mapping finished",
		"batch_id", batch.ID,
		"high", batch.Stats.High,
		"medium", batch.Stats.Medium,
		"low", batch.Stats.Low,
		"none", batch.Stats.None)
	return batch
}

func bucket(s BucketStats, r *Result) BucketStats {
	switch {
	case r == nil, r.Confidence < 0.15:
		s.None++
	case r.Confidence < 0.5:
		s.Low++
	case r.Confidence < 0.8:
		s.Medium++
	default:
		s.High++
	}
	return s
}
