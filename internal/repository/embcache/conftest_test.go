package embcache

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/domain"
)

// mockEmbedder is safe for concurrent use (the cache is shared state).
type mockEmbedder struct {
	mu     sync.Mutex
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder) *CachedEmbedder {
	t.Helper()
	return New(inner, nil, zap.NewNop())
}
