package search

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/domain"
	"github.com/lexgrid/lexsearch/internal/metrics"
)

const (
	// descriptionPrefixLength caps the description text fed into candidate
	// embeddings.
	descriptionPrefixLength = 500
	// maxSuggestions bounds the autocomplete list.
	maxSuggestions = 5
	// topLogged is how many ranked results the diagnostic log covers.
	topLogged = 5
)

// Service is the ranking orchestrator: retrieval, query expansion, and
// semantic-or-lexical scoring with uniform degradation.
type Service struct {
	repo     Repository
	embedder Embedder // nil when no credential is configured
	logger   *zap.Logger
}

// New creates a search service. A nil embedder puts the service in
// permanent lexical-only mode, which is an expected configuration state.
func New(repo Repository, embedder Embedder, logger *zap.Logger) *Service {
	if embedder == nil {
		logger.Warn("Embedding credential not configured, semantic ranking disabled")
	}
	return &Service{repo: repo, embedder: embedder, logger: logger}
}

// Search executes retrieval and ranking for a validated query. It never
// returns an error: retrieval and scoring failures degrade to an empty or
// lexically ranked result, logged but invisible to the caller.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) domain.Result {
	expanded := Expand(q.Text)
	if expanded != q.Text {
		s.logger.Debug("Expanded query for retrieval",
			zap.String("query", q.Text),
			zap.String("expanded", expanded),
		)
	}

	candidates, err := s.repo.SearchCandidates(ctx, expanded, q.Filters)
	if err != nil {
		s.logger.Error("Candidate retrieval failed",
			zap.String("query", q.Text),
			zap.Error(err),
		)
		metrics.SearchesTotal.WithLabelValues(metrics.ModeError).Inc()
		return domain.Result{Query: q.Text}
	}
	if len(candidates) == 0 {
		metrics.SearchesTotal.WithLabelValues(metrics.ModeEmpty).Inc()
		return domain.Result{Query: q.Text}
	}

	ranked, semantic := s.rank(ctx, candidates, q.Text)
	if len(ranked) > q.MaxResults {
		ranked = ranked[:q.MaxResults]
	}

	mode := metrics.ModeLexical
	if semantic {
		mode = metrics.ModeSemantic
	}
	metrics.SearchesTotal.WithLabelValues(mode).Inc()

	s.logger.Info("Search completed",
		zap.String("query", q.Text),
		zap.Int("results", len(ranked)),
		zap.Bool("semantic", semantic),
	)
	s.logTop(ranked)

	return domain.Result{Query: q.Text, Sections: ranked, Semantic: semantic}
}

// rank scores the candidates semantically when an embedder is available and
// every embedding succeeds, lexically otherwise. The two modes are never
// mixed within one call: a single candidate embedding failure degrades the
// whole batch so the ordering criterion stays uniform.
func (s *Service) rank(ctx context.Context, sections []domain.Section, query string) ([]domain.Section, bool) {
	if s.embedder == nil {
		return lexicalRank(sections, query), false
	}

	queryRes, err := s.embedder.Embed(ctx, query)
	if err != nil || len(queryRes.Embedding) == 0 {
		s.logger.Warn("Query embedding unavailable, falling back to lexical ranking",
			zap.String("query", query),
			zap.Error(err),
		)
		return lexicalRank(sections, query), false
	}

	similarities := make([]float64, len(sections))
	for i := range sections {
		text := sections[i].Title + " " + truncate(sections[i].Description, descriptionPrefixLength)

		res, err := s.embedder.Embed(ctx, text)
		if err != nil || len(res.Embedding) == 0 {
			s.logger.Warn("Candidate embedding unavailable, falling back to lexical ranking",
				zap.String("section_code", sections[i].SectionCode),
				zap.Error(err),
			)
			return lexicalRank(sections, query), false
		}
		similarities[i] = domain.CosineSimilarity(queryRes.Embedding, res.Embedding)
	}

	for i := range sections {
		sim := similarities[i]
		sections[i].SimilarityScore = &sim
		sections[i].RelevanceScore = sim
	}
	sort.SliceStable(sections, func(a, b int) bool {
		return sections[a].RelevanceScore > sections[b].RelevanceScore
	})
	return sections, true
}

// Suggest returns up to 5 autocomplete strings from section codes and
// titles. Failures degrade to no suggestions.
func (s *Service) Suggest(ctx context.Context, query string) []string {
	if len(query) < 2 {
		return nil
	}

	suggestions, err := s.repo.Suggest(ctx, query, maxSuggestions)
	if err != nil {
		s.logger.Error("Suggestion lookup failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return suggestions
}

// GetSection fetches one section with full detail columns.
func (s *Service) GetSection(ctx context.Context, code string) (domain.Section, error) {
	return s.repo.GetByCode(ctx, code)
}

// Categories lists all distinct section categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) logTop(ranked []domain.Section) {
	n := len(ranked)
	if n > topLogged {
		n = topLogged
	}
	for i := 0; i < n; i++ {
		s.logger.Info("Top ranked result",
			zap.Int("rank", i+1),
			zap.String("section_code", ranked[i].SectionCode),
			zap.String("title", truncate(ranked[i].Title, 50)),
			zap.Float64("score", ranked[i].RelevanceScore),
		)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
