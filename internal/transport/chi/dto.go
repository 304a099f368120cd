package chi

import (
	"encoding/json"
	"net/http"

	"github.com/lexgrid/lexsearch/internal/domain"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query      string            `json:"query"`
	Filters    map[string]string `json:"filters,omitempty"`
	MaxResults int               `json:"max_results,omitempty"`
}

type sectionResponse struct {
	ID              int64    `json:"id"`
	SectionCode     string   `json:"section_code"`
	SectionNumber   string   `json:"section_number"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Punishment      string   `json:"punishment,omitempty"`
	Source          string   `json:"source,omitempty"`
	LastUpdated     string   `json:"last_updated,omitempty"`
	RelevanceScore  float64  `json:"relevance_score"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

type sectionDetailResponse struct {
	sectionResponse
	Bailable          string `json:"bailable,omitempty"`
	Cognizable        string `json:"cognizable,omitempty"`
	Compoundable      string `json:"compoundable,omitempty"`
	FineRange         string `json:"fine_range,omitempty"`
	ImprisonmentRange string `json:"imprisonment_range,omitempty"`
}

type searchResponse struct {
	Query        string            `json:"query"`
	Results      []sectionResponse `json:"results"`
	TotalResults int               `json:"total_results"`
	Semantic     bool              `json:"semantic"`
	Suggestions  []string          `json:"suggestions,omitempty"`
}

type suggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func sectionFromDomain(sec domain.Section) sectionResponse {
	return sectionResponse{
		ID:              sec.ID,
		SectionCode:     sec.SectionCode,
		SectionNumber:   sec.SectionNumber,
		Title:           sec.Title,
		Description:     sec.Description,
		Category:        sec.Category,
		Punishment:      sec.Punishment,
		Source:          sec.Source,
		LastUpdated:     sec.LastUpdated,
		RelevanceScore:  sec.RelevanceScore,
		SimilarityScore: sec.SimilarityScore,
	}
}

func sectionDetailFromDomain(sec domain.Section) sectionDetailResponse {
	return sectionDetailResponse{
		sectionResponse:   sectionFromDomain(sec),
		Bailable:          sec.Bailable,
		Cognizable:        sec.Cognizable,
		Compoundable:      sec.Compoundable,
		FineRange:         sec.FineRange,
		ImprisonmentRange: sec.ImprisonmentRange,
	}
}

func searchResponseFromDomain(result domain.Result, suggestions []string) searchResponse {
	results := make([]sectionResponse, len(result.Sections))
	for i, sec := range result.Sections {
		results[i] = sectionFromDomain(sec)
	}
	return searchResponse{
		Query:        result.Query,
		Results:      results,
		TotalResults: len(results),
		Semantic:     result.Semantic,
		Suggestions:  suggestions,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
