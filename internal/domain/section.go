package domain

// Section is a law-section row projected from storage. Scoring fields are
// attached by the search service and never written back.
type Section struct {
	ID            int64
	SectionCode   string
	SectionNumber string
	Title         string
	Description   string
	Category      string
	Punishment    string
	Source        string
	LastUpdated   string

	// Detail columns, populated by GetByCode only.
	Bailable          string
	Cognizable        string
	Compoundable      string
	FineRange         string
	ImprisonmentRange string

	// RelevanceScore is the authoritative ranking score. Under semantic
	// ranking it equals *SimilarityScore; under lexical ranking it is the
	// keyword score and SimilarityScore stays nil.
	RelevanceScore  float64
	SimilarityScore *float64
}
