// Package corpus holds the page-level input model for a single document
// and the memoized normalized views the matching engine works from.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
)

// PageText is one OCR'd page as delivered by the OCR collaborator.
// It is immutable once constructed; Hash identifies the RawText content
// and changes iff RawText changes.
type PageText struct {
	PageNumber int    `json:"pageNumber"`
	RawText    string `json:"rawText"`
	Hash       string `json:"hash,omitempty"`
}

// NewPageText builds a PageText with its content hash filled in.
func NewPageText(pageNumber int, rawText string) PageText {
	return PageText{
		PageNumber: pageNumber,
		RawText:    rawText,
		Hash:       HashText(rawText),
	}
}

// EnsureHash returns p with Hash populated. Pages arriving over the API
// may omit the hash; it is always recomputable from RawText.
func (p PageText) EnsureHash() PageText {
	if p.Hash == "" {
		p.Hash = HashText(p.RawText)
	}
	return p
}

// HashText returns the stable content hash used as the cache key.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
