package indexdetect

// Scoring holds the tunable contribution weights for each pattern class.
// Values are empirically calibrated against scanned court records; the
// ordering of application (positives, then term penalties, then the
// explicit table-of-contents penalty, then clamp) is part of the
// contract and must not be reordered.
type Scoring struct {
	TabbedMany float64 `mapstructure:"tabbed_many" yaml:"tabbed_many"` // >= 3 numbered/tabbed entries
	TabbedFew  float64 `mapstructure:"tabbed_few" yaml:"tabbed_few"`   // 1-2

	DatesMany float64 `mapstructure:"dates_many" yaml:"dates_many"` // >= 5 date references
	DatesFew  float64 `mapstructure:"dates_few" yaml:"dates_few"`   // 2-4

	PageRefsMany float64 `mapstructure:"page_refs_many" yaml:"page_refs_many"` // >= 5 page references
	PageRefsFew  float64 `mapstructure:"page_refs_few" yaml:"page_refs_few"`   // 2-4

	LegalTermsMany float64 `mapstructure:"legal_terms_many" yaml:"legal_terms_many"` // >= 8 term hits
	LegalTermsFew  float64 `mapstructure:"legal_terms_few" yaml:"legal_terms_few"`   // 3-7

	TableMarkersMany float64 `mapstructure:"table_markers_many" yaml:"table_markers_many"` // >= 3 markers
	TableMarkersFew  float64 `mapstructure:"table_markers_few" yaml:"table_markers_few"`   // >= 1

	IndexHeader float64 `mapstructure:"index_header" yaml:"index_header"` // any index header keyword

	MultiColumn float64 `mapstructure:"multi_column" yaml:"multi_column"` // >= 3 wide-gap lines

	StructuredMax     float64 `mapstructure:"structured_max" yaml:"structured_max"`         // >= 4 lines, scaled by ratio
	StructuredFew     float64 `mapstructure:"structured_few" yaml:"structured_few"`         // 2-3 lines
	StructuredPenalty float64 `mapstructure:"structured_penalty" yaml:"structured_penalty"` // 0-1 lines

	TocTermsPenalty    float64 `mapstructure:"toc_terms_penalty" yaml:"toc_terms_penalty"`       // >= 2 narrative/TOC terms
	TocExplicitPenalty float64 `mapstructure:"toc_explicit_penalty" yaml:"toc_explicit_penalty"` // explicit "table of contents"

	// MaxEntries caps extracted entry candidates per page.
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
	// MinEntryTextLen is the minimum entry text length to be considered valid.
	MinEntryTextLen int `mapstructure:"min_entry_text_len" yaml:"min_entry_text_len"`
}

// DefaultScoring returns the calibrated defaults.
func DefaultScoring() Scoring {
	return Scoring{
		TabbedMany:         0.4,
		TabbedFew:          0.2,
		DatesMany:          0.3,
		DatesFew:           0.15,
		PageRefsMany:       0.25,
		PageRefsFew:        0.1,
		LegalTermsMany:     0.2,
		LegalTermsFew:      0.1,
		TableMarkersMany:   0.3,
		TableMarkersFew:    0.15,
		IndexHeader:        0.25,
		MultiColumn:        0.1,
		StructuredMax:      0.3,
		StructuredFew:      0.1,
		StructuredPenalty:  0.2,
		TocTermsPenalty:    0.15,
		TocExplicitPenalty: 0.5,
		MaxEntries:         50,
		MinEntryTextLen:    10,
	}
}
