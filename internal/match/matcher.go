// Package match finds the document page an index-entry description most
// likely refers to. It ranks every page on several similarity signals
// and refuses to answer below an adaptive confidence floor: a missing
// match is a normal outcome, never an error, and never fabricated.
package match

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
	"github.com/Gurmittoor/hyperlinklaw/internal/similarity"
	"github.com/Gurmittoor/hyperlinklaw/internal/textnorm"
)

// Source identifies which signal produced a candidate score.
type Source string

const (
	SourceFullPage     Source = "full-page"
	SourceChunk        Source = "chunk"
	SourceTokenOverlap Source = "token-overlap"
)

// Thresholds holds the tunable matching constants. Defaults are
// empirically calibrated; see DefaultThresholds.
type Thresholds struct {
	// FullPageScale discounts whole-page similarity; a full-page hit is
	// less specific than a chunk hit.
	FullPageScale float64 `mapstructure:"full_page_scale" yaml:"full_page_scale"`
	FullPageMin   float64 `mapstructure:"full_page_min" yaml:"full_page_min"`

	ChunkMin float64 `mapstructure:"chunk_min" yaml:"chunk_min"`

	TokenOverlapScale float64 `mapstructure:"token_overlap_scale" yaml:"token_overlap_scale"`
	TokenOverlapMin   float64 `mapstructure:"token_overlap_min" yaml:"token_overlap_min"`

	// HintExactBoost/HintNearBoost bias ranking toward a caller-supplied
	// expected page and its neighbours.
	HintExactBoost   float64 `mapstructure:"hint_exact_boost" yaml:"hint_exact_boost"`
	HintNearBoost    float64 `mapstructure:"hint_near_boost" yaml:"hint_near_boost"`
	HintNearDistance int     `mapstructure:"hint_near_distance" yaml:"hint_near_distance"`

	// Minimum-confidence gate by normalized entry length. Short entries
	// carry little signal, so they must clear a higher bar.
	ShortEntryMin  float64 `mapstructure:"short_entry_min" yaml:"short_entry_min"`   // < 20 chars
	MediumEntryMin float64 `mapstructure:"medium_entry_min" yaml:"medium_entry_min"` // 20-49
	LongEntryMin   float64 `mapstructure:"long_entry_min" yaml:"long_entry_min"`     // >= 50

	// RunnerUpRatio keeps runner-up pages scoring at least this fraction
	// of the winner; MaxRunnersUp caps how many are reported.
	RunnerUpRatio float64 `mapstructure:"runner_up_ratio" yaml:"runner_up_ratio"`
	MaxRunnersUp  int     `mapstructure:"max_runners_up" yaml:"max_runners_up"`
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FullPageScale:     0.8,
		FullPageMin:       0.2,
		ChunkMin:          0.25,
		TokenOverlapScale: 0.6,
		TokenOverlapMin:   0.2,
		HintExactBoost:    1.3,
		HintNearBoost:     1.1,
		HintNearDistance:  2,
		ShortEntryMin:     0.4,
		MediumEntryMin:    0.3,
		LongEntryMin:      0.25,
		RunnerUpRatio:     0.7,
		MaxRunnersUp:      2,
	}
}

// PageScore is one ranked page.
type PageScore struct {
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
}

// Result is the final answer for one entry. Page is nil whenever the top
// score fell below the adaptive gate; Confidence still reports that top
// score for diagnostics.
type Result struct {
	Page       *int        `json:"page"`
	Confidence float64     `json:"confidence"`
	Matches    []PageScore `json:"matches,omitempty"`
}

// Matched reports whether the result carries an accepted page.
func (r *Result) Matched() bool {
	return r != nil && r.Page != nil
}

// Matcher ranks candidate pages for entry descriptions. Safe for
// concurrent use; the shared cache tolerates concurrent lookups.
type Matcher struct {
	scorer *similarity.Scorer
	cache  *corpus.Cache
	th     Thresholds
	logger *slog.Logger
}

// NewMatcher creates a Matcher. Zero-value thresholds fall back to
// defaults; logger may be nil.
func NewMatcher(scorer *similarity.Scorer, cache *corpus.Cache, th Thresholds, logger *slog.Logger) *Matcher {
	if scorer == nil {
		scorer = similarity.NewScorer(similarity.DefaultWeights())
	}
	if cache == nil {
		cache = corpus.NewCache()
	}
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{scorer: scorer, cache: cache, th: th, logger: logger}
}

// Cache exposes the matcher's page cache so callers can share it.
func (m *Matcher) Cache() *corpus.Cache { return m.cache }

// FindBestPage returns the best page for the entry text, or a Result
// with a nil Page when nothing clears the adaptive gate. A nil return
// means there was nothing to rank at all (empty corpus or empty entry)
// or the context was cancelled.
func (m *Matcher) FindBestPage(ctx context.Context, entryText string, pages []corpus.PageText, pageHint *int) *Result {
	entry := textnorm.Normalize(entryText)
	if entry == "" || len(pages) == 0 {
		return nil
	}
	entryTokens := textnorm.Tokens(entryText)

	var ranked []PageScore
	for _, page := range pages {
		if ctx.Err() != nil {
			return nil
		}

		score, ok := m.scorePage(entry, entryTokens, page)
		if !ok {
			continue
		}
		score = m.applyHint(score, page.PageNumber, pageHint)
		ranked = append(ranked, PageScore{Page: page.PageNumber, Confidence: clamp01(score)})
	}

	if len(ranked) == 0 {
		return &Result{Confidence: 0}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Page < ranked[j].Page
	})

	top := ranked[0]
	result := &Result{Confidence: top.Confidence, Matches: m.runnersUp(ranked)}

	if top.Confidence < m.minConfidence(entry) {
		// No-fabrication gate: report the score, withhold the page.
		m.logger.Debug("match below gate",
			"entry_len", len(entry),
			"top_page", top.Page,
			"confidence", top.Confidence)
		return result
	}

	page := top.Page
	result.Page = &page
	return result
}

// scorePage merges the three per-page signals, keeping the strongest of
// those that clear their own floors.
func (m *Matcher) scorePage(entry string, entryTokens []string, page corpus.PageText) (float64, bool) {
	np := m.cache.GetOrCompute(page)

	best := 0.0
	found := false

	if full := m.scorer.ScoreNormalized(entry, np.NormalizedText) * m.th.FullPageScale; full > m.th.FullPageMin {
		best, found = full, true
	}

	for _, chunk := range np.Chunks {
		if s := m.scorer.ScoreNormalized(entry, chunk); s > m.th.ChunkMin && s > best {
			best, found = s, true
		}
	}

	if len(entryTokens) > 0 {
		shared := 0
		for _, t := range entryTokens {
			if _, ok := np.Tokens[t]; ok {
				shared++
			}
		}
		overlap := float64(shared) / float64(len(entryTokens)) * m.th.TokenOverlapScale
		if overlap > m.th.TokenOverlapMin && overlap > best {
			best, found = overlap, true
		}
	}

	return best, found
}

func (m *Matcher) applyHint(score float64, pageNumber int, hint *int) float64 {
	if hint == nil {
		return score
	}
	dist := pageNumber - *hint
	if dist < 0 {
		dist = -dist
	}
	switch {
	case dist == 0:
		return score * m.th.HintExactBoost
	case dist <= m.th.HintNearDistance:
		return score * m.th.HintNearBoost
	default:
		return score
	}
}

// minConfidence picks the gate for the normalized entry length.
func (m *Matcher) minConfidence(normalizedEntry string) float64 {
	switch n := len(normalizedEntry); {
	case n < 20:
		return m.th.ShortEntryMin
	case n < 50:
		return m.th.MediumEntryMin
	default:
		return m.th.LongEntryMin
	}
}

// runnersUp returns the winner plus up to MaxRunnersUp pages scoring at
// least RunnerUpRatio of the winner.
func (m *Matcher) runnersUp(ranked []PageScore) []PageScore {
	top := ranked[0]
	out := []PageScore{top}
	for _, ps := range ranked[1:] {
		if len(out) > m.th.MaxRunnersUp {
			break
		}
		if ps.Confidence >= top.Confidence*m.th.RunnerUpRatio {
			out = append(out, ps)
		} else {
			break
		}
	}
	return out
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
