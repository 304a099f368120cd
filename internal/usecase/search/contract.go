package search

import (
	"context"

	"github.com/lexgrid/lexsearch/internal/domain"
)

// Repository is the storage contract for candidate retrieval and lookups.
type Repository interface {
	// SearchCandidates retrieves candidates for the expanded retrieval
	// terms plus optional equality filters, in storage order.
	SearchCandidates(ctx context.Context, terms string, filters map[string]string) ([]domain.Section, error)
	GetByCode(ctx context.Context, code string) (domain.Section, error)
	Categories(ctx context.Context) ([]string, error)
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
