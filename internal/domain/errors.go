package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a search query the service refuses to run.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingNotConfigured signals that no embedding credential is set.
	// Expected state, not a failure: semantic ranking is simply disabled.
	ErrEmbeddingNotConfigured = errors.New("embedding not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingRateLimited signals a provider rate limit hit.
	ErrEmbeddingRateLimited = errors.New("embedding rate limited")
	// ErrModelLoading signals that the provider model is still warming up.
	ErrModelLoading = errors.New("embedding model loading")
)
