package domain

import (
	"fmt"
	"strings"
)

// Filter keys accepted by candidate retrieval. Unknown keys are dropped.
const (
	FilterCategory      = "category"
	FilterSectionNumber = "section_number"
	FilterBailable      = "bailable"
	FilterCognizable    = "cognizable"
)

const (
	// MinQueryLength is the shortest accepted search query.
	MinQueryLength = 3
	// DefaultMaxResults is used when the caller does not ask for a limit.
	DefaultMaxResults = 10
	// MaxResultsLimit caps the result list size.
	MaxResultsLimit = 100
)

// SearchQuery is an immutable per-request search input.
type SearchQuery struct {
	Text       string
	Filters    map[string]string
	MaxResults int
}

// NewSearchQuery validates and normalizes raw search input.
// Unknown filter keys and empty filter values are dropped; MaxResults is
// clamped to [1, MaxResultsLimit] with DefaultMaxResults when unset.
func NewSearchQuery(text string, filters map[string]string, maxResults int) (SearchQuery, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinQueryLength {
		return SearchQuery{}, fmt.Errorf("%w: at least %d characters required", ErrInvalidQuery, MinQueryLength)
	}

	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}

	known := []string{FilterCategory, FilterSectionNumber, FilterBailable, FilterCognizable}
	kept := make(map[string]string, len(known))
	for _, key := range known {
		if v := strings.TrimSpace(filters[key]); v != "" {
			kept[key] = v
		}
	}

	return SearchQuery{Text: text, Filters: kept, MaxResults: maxResults}, nil
}

// Result is an ordered, truncated ranking outcome. Sections are sorted
// descending by RelevanceScore; Semantic reports which scoring mode
// produced the ordering (never mixed within one result).
type Result struct {
	Query    string
	Sections []Section
	Semantic bool
}
