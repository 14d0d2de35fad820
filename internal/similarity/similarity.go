// Package similarity scores how alike two strings are, blending several
// cheap lexical signals. Scores are calibrated for OCR'd legal text where
// spelling noise is common but names, dates, and tab numbers carry most
// of the meaning.
package similarity

import (
	"strings"

	"github.com/Gurmittoor/hyperlinklaw/internal/textnorm"
)

// BandWeights is one row of the length-adaptive weight table.
type BandWeights struct {
	Jaccard     float64 `mapstructure:"jaccard" yaml:"jaccard"`
	Dice        float64 `mapstructure:"dice" yaml:"dice"`
	Levenshtein float64 `mapstructure:"levenshtein" yaml:"levenshtein"`
}

// Weights holds the tunable scoring constants. The defaults are
// empirically calibrated against scanned court records, not derived from
// a model; treat changes as recalibration, not bug fixes.
type Weights struct {
	// SubstringBonus is added when one normalized string contains the other.
	SubstringBonus float64 `mapstructure:"substring_bonus" yaml:"substring_bonus"`
	// NumericBonus is added when any digit-bearing token is shared verbatim.
	NumericBonus float64 `mapstructure:"numeric_bonus" yaml:"numeric_bonus"`

	// Short/Medium/Long select signal weights by average normalized length.
	Short  BandWeights `mapstructure:"short" yaml:"short"`
	Medium BandWeights `mapstructure:"medium" yaml:"medium"`
	Long   BandWeights `mapstructure:"long" yaml:"long"`

	// ShortMax and MediumMax are the band boundaries (exclusive upper).
	ShortMax  int `mapstructure:"short_max" yaml:"short_max"`
	MediumMax int `mapstructure:"medium_max" yaml:"medium_max"`

	// LevenshteinMaxLen skips edit distance when both strings are at
	// least this long. Levenshtein is O(n*m); long pairs are served well
	// enough by the token and bigram signals.
	LevenshteinMaxLen int `mapstructure:"levenshtein_max_len" yaml:"levenshtein_max_len"`
}

// DefaultWeights returns the calibrated defaults.
func DefaultWeights() Weights {
	return Weights{
		SubstringBonus:    0.3,
		NumericBonus:      0.2,
		Short:             BandWeights{Jaccard: 0.3, Dice: 0.4, Levenshtein: 0.3},
		Medium:            BandWeights{Jaccard: 0.5, Dice: 0.3, Levenshtein: 0.2},
		Long:              BandWeights{Jaccard: 0.7, Dice: 0.2, Levenshtein: 0.1},
		ShortMax:          30,
		MediumMax:         100,
		LevenshteinMaxLen: 50,
	}
}

// Scorer computes pairwise similarity with a fixed set of weights.
// Safe for concurrent use.
type Scorer struct {
	w Weights
}

// NewScorer creates a Scorer. Zero-value weights fall back to defaults.
func NewScorer(w Weights) *Scorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &Scorer{w: w}
}

// Score returns a similarity in [0,1] between a and b. It normalizes both
// inputs first; use ScoreNormalized when the caller already holds
// normalized text.
func (s *Scorer) Score(a, b string) float64 {
	return s.ScoreNormalized(textnorm.Normalize(a), textnorm.Normalize(b))
}

// ScoreNormalized scores two already-normalized strings. Identical
// non-empty inputs score exactly 1.0; an empty input scores 0.
func (s *Scorer) ScoreNormalized(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	ra := []rune(na)
	rb := []rune(nb)
	band := s.band((len(ra) + len(rb)) / 2)

	score := 0.0
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		score += s.w.SubstringBonus
	}

	ta := tokenSlice(na)
	tb := tokenSlice(nb)
	score += band.Jaccard * jaccard(ta, tb)
	score += band.Dice * diceBigrams(ra, rb)

	if band.Levenshtein > 0 && (len(ra) < s.w.LevenshteinMaxLen || len(rb) < s.w.LevenshteinMaxLen) {
		score += band.Levenshtein * levenshteinScore(ra, rb)
	}

	if sharesNumericToken(ta, tb) {
		score += s.w.NumericBonus
	}

	return clamp01(score)
}

func (s *Scorer) band(avgLen int) BandWeights {
	switch {
	case avgLen < s.w.ShortMax:
		return s.w.Short
	case avgLen < s.w.MediumMax:
		return s.w.Medium
	default:
		return s.w.Long
	}
}

// tokenSlice splits normalized text into tokens longer than one rune.
func tokenSlice(normalized string) []string {
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	inter := 0
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		}
	}
	union := len(set) + len(seen) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func diceBigrams(a, b []rune) float64 {
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	inter := 0
	for g, ca := range ba {
		if cb, ok := bb[g]; ok {
			inter += min(ca, cb)
		}
	}
	totalA, totalB := 0, 0
	for _, c := range ba {
		totalA += c
	}
	for _, c := range bb {
		totalB += c
	}
	return 2 * float64(inter) / float64(totalA+totalB)
}

func bigrams(rs []rune) map[[2]rune]int {
	grams := make(map[[2]rune]int, len(rs))
	for i := 0; i+1 < len(rs); i++ {
		grams[[2]rune{rs[i], rs[i+1]}]++
	}
	return grams
}

// levenshteinScore maps edit distance to [0,1]: 1 means identical.
func levenshteinScore(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance with a two-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func sharesNumericToken(a, b []string) bool {
	var numeric map[string]struct{}
	for _, t := range a {
		if textnorm.HasDigit(t) {
			if numeric == nil {
				numeric = make(map[string]struct{})
			}
			numeric[t] = struct{}{}
		}
	}
	if numeric == nil {
		return false
	}
	for _, t := range b {
		if _, ok := numeric[t]; ok {
			return true
		}
	}
	return false
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
