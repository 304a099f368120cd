// Package chi is the HTTP transport: route wiring, request decoding, and
// domain-error mapping.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/domain"
	healthuc "github.com/lexgrid/lexsearch/internal/usecase/health"
	searchuc "github.com/lexgrid/lexsearch/internal/usecase/search"
	"github.com/lexgrid/lexsearch/internal/version"
)

// Server exposes the search service over HTTP.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Routes mounts all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/search/sections", s.handleSearchSections)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/sections/{sectionCode}", s.handleGetSection)
		r.Get("/categories", s.handleCategories)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "lexsearch",
		"version": version.Version,
		"endpoints": map[string]string{
			"search":      "/api/v1/search",
			"sections":    "/api/v1/sections/{section_code}",
			"suggestions": "/api/v1/suggestions",
			"categories":  "/api/v1/categories",
			"health":      "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	query, err := domain.NewSearchQuery(req.Query, req.Filters, req.MaxResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	s.respondSearch(w, r, query)
}

// handleSearchSections handles GET /api/v1/search/sections with query
// parameters instead of a JSON body.
func (s *Server) handleSearchSections(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	maxResults := 0
	if raw := params.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "max_results must be an integer")
			return
		}
		maxResults = n
	}

	filters := map[string]string{
		domain.FilterCategory:      params.Get("category"),
		domain.FilterSectionNumber: params.Get("section_number"),
		domain.FilterBailable:      params.Get("bailable"),
		domain.FilterCognizable:    params.Get("cognizable"),
	}

	query, err := domain.NewSearchQuery(params.Get("query"), filters, maxResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	s.respondSearch(w, r, query)
}

func (s *Server) respondSearch(w http.ResponseWriter, r *http.Request, query domain.SearchQuery) {
	result := s.search.Search(r.Context(), query)
	suggestions := s.search.Suggest(r.Context(), query.Text)

	writeJSON(w, http.StatusOK, searchResponseFromDomain(result, suggestions))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		Query:       query,
		Suggestions: s.search.Suggest(r.Context(), query),
	})
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	// Section codes contain spaces ("IPC 302"), so the path segment arrives
	// percent-encoded.
	code := chi.URLParam(r, "sectionCode")
	if decoded, err := url.PathUnescape(code); err == nil {
		code = decoded
	}

	sec, err := s.search.GetSection(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "Section not found: "+code)
			return
		}
		s.logger.Error("Section lookup failed", zap.String("section_code", code), zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "Section lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, sectionDetailFromDomain(sec))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.search.Categories(r.Context())
	if err != nil {
		s.logger.Error("Category listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "Category listing failed")
		return
	}

	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}
