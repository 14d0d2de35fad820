package indexdetect

// Detection is the result of analyzing one page for index-likeness.
type Detection struct {
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
	// Patterns lists human-readable reasons for the score, in the order
	// the pattern classes were applied.
	Patterns []string `json:"patterns,omitempty"`
	// Entries are the candidate index rows found on the page,
	// deduplicated and capped.
	Entries []EntryCandidate `json:"entries,omitempty"`
}

// EntryCandidate is one detected row on an index page.
type EntryCandidate struct {
	TabNumber string `json:"tabNumber"`
	Text      string `json:"text"`
	PageRef   *int   `json:"pageRef,omitempty"`
	DateFound string `json:"dateFound,omitempty"`
}
