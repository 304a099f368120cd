// Package embcache is a bounded in-process cache decorating an Embedder.
package embcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/domain"
)

const (
	// keyLength is the number of leading characters used as the cache key.
	// The key is deliberately lossy: two long texts sharing a 200-character
	// prefix collide and share one cached vector. Downstream score
	// comparisons depend on this, so it is kept rather than widened to a
	// content hash.
	keyLength = 200
	// maxEntries bounds the cache size.
	maxEntries = 1000
	// evictBatch is how many of the oldest entries go when the bound is
	// exceeded. Pure FIFO in insertion order, not LRU.
	evictBatch = 100
)

// CachedEmbedder caches embedding vectors in process memory with FIFO
// eviction. Shared across concurrent search calls; all mutation happens
// under the mutex.
type CachedEmbedder struct {
	inner domain.Embedder

	mu      sync.Mutex
	entries map[string][]float32
	order   []string

	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner domain.Embedder, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		entries:    make(map[string][]float32),
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached vector or calls the inner embedder. Cache hits
// report zero token usage; only successful inner results are cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(text)

	if vec, ok := c.get(key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.put(key, result.Embedding)
	return result, nil
}

// Len reports the current number of cached entries.
func (c *CachedEmbedder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CachedEmbedder) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vec, ok := c.entries[key]
	return vec, ok
}

func (c *CachedEmbedder) put(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = vec

	if len(c.entries) > maxEntries {
		evicted := c.order[:evictBatch]
		for _, k := range evicted {
			delete(c.entries, k)
		}
		c.order = append([]string(nil), c.order[evictBatch:]...)
		c.logger.Debug("Evicted oldest embedding cache entries",
			zap.Int("evicted", len(evicted)),
			zap.Int("remaining", len(c.entries)),
		)
	}
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey truncates text to its first keyLength characters.
func cacheKey(text string) string {
	runes := []rune(text)
	if len(runes) <= keyLength {
		return text
	}
	return string(runes[:keyLength])
}
