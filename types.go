package lexsearch

import (
	"context"
	"errors"

	"github.com/lexgrid/lexsearch/internal/domain"
)

// ErrNotFound is returned by Section for unknown section codes.
var ErrNotFound = errors.New("lexsearch: section not found")

// Embedder vectorizes text. Implementations typically call an external
// embedding API; results are cached by the client.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is an embedding vector with token accounting.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// SearchRequest is the input to Client.Search.
type SearchRequest struct {
	// Query is the raw search text, minimum three characters.
	Query string
	// Filters narrows candidates by exact match. Recognized keys:
	// category, section_number, bailable, cognizable.
	Filters map[string]string
	// MaxResults caps the result list; 0 means the default of 10.
	MaxResults int
}

// SearchResult is a ranked, truncated search outcome.
type SearchResult struct {
	// Query echoes the normalized search text.
	Query string
	// Sections are ordered by descending relevance.
	Sections []Section
	// Semantic reports whether embedding similarity produced the
	// ordering; false means keyword ranking (including fallback).
	Semantic bool
}

// Section is a law section with ranking scores attached.
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

	Bailable          string
	Cognizable        string
	Compoundable      string
	FineRange         string
	ImprisonmentRange string

	RelevanceScore  float64
	SimilarityScore *float64
}

func sectionFromDomain(sec domain.Section) Section {
	return Section{
		ID:                sec.ID,
		SectionCode:       sec.SectionCode,
		SectionNumber:     sec.SectionNumber,
		Title:             sec.Title,
		Description:       sec.Description,
		Category:          sec.Category,
		Punishment:        sec.Punishment,
		Source:            sec.Source,
		LastUpdated:       sec.LastUpdated,
		Bailable:          sec.Bailable,
		Cognizable:        sec.Cognizable,
		Compoundable:      sec.Compoundable,
		FineRange:         sec.FineRange,
		ImprisonmentRange: sec.ImprisonmentRange,
		RelevanceScore:    sec.RelevanceScore,
		SimilarityScore:   sec.SimilarityScore,
	}
}

func searchResultFromDomain(res domain.Result) SearchResult {
	sections := make([]Section, len(res.Sections))
	for i, s := range res.Sections {
		sections[i] = sectionFromDomain(s)
	}
	return SearchResult{Query: res.Query, Sections: sections, Semantic: res.Semantic}
}
