// Package textnorm canonicalizes OCR text so that downstream scoring
// compares like with like. Normalization is pure, deterministic, and
// idempotent: Normalize(Normalize(s)) == Normalize(s).
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes runes and drops combining marks, so that
// "Rés" and "Res" normalize identically. OCR engines disagree on accents
// constantly.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text for comparison:
//
//	decompose -> strip diacritics -> lowercase -> collapse whitespace ->
//	drop punctuation except digit-adjacent "-", "/", "." -> trim
//
// Digit-adjacent separators survive so dates ("2022-04-05", "18/02/2022")
// and page references ("p.15") keep their shape. Empty input returns "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		// Malformed UTF-8; fall back to the raw bytes rather than failing.
		stripped = s
	}
	stripped = strings.ToLower(stripped)

	rs := []rune(stripped)
	var b strings.Builder
	b.Grow(len(stripped))

	pendingSpace := false
	for i, r := range rs {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// keep
		case r == '-' || r == '/' || r == '.':
			if !digitAdjacent(rs, i) {
				continue
			}
		default:
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func digitAdjacent(rs []rune, i int) bool {
	if i > 0 && unicode.IsDigit(rs[i-1]) {
		return true
	}
	if i+1 < len(rs) && unicode.IsDigit(rs[i+1]) {
		return true
	}
	return false
}

// Tokens returns the whitespace tokens of the normalized form of s,
// keeping only tokens longer than one rune. Single characters are OCR
// noise more often than signal.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokenSet returns Tokens(s) as a set.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// HasDigit reports whether the token contains at least one decimal digit.
func HasDigit(token string) bool {
	for _, r := range token {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
