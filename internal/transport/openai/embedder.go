// Package openai talks to an OpenAI-compatible embedding inference API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/domain"
	"github.com/lexgrid/lexsearch/internal/metrics"
)

const (
	// maxAttempts bounds the retry budget: 1 initial call + 2 retries.
	maxAttempts = 3
	// defaultBackoffBase is the initial retry interval. Doubles per attempt
	// on model-loading and rate-limit signals, stays flat otherwise.
	defaultBackoffBase = 2 * time.Second
	// defaultTimeout caps a single provider call.
	defaultTimeout = 10 * time.Second
)

// Embedder is an embedding provider using an OpenAI-compatible API
// (e.g. the Hugging Face inference router). One instance is constructed at
// startup and reused for the process lifetime.
type Embedder struct {
	client      *openai.Client
	model       openai.EmbeddingModel
	dimensions  int
	provider    string
	backoffBase time.Duration
	sleep       func(time.Duration)
	logger      *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Dimensions  int
	Provider    string
	Timeout     time.Duration
	BackoffBase time.Duration
	Logger      *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	backoffBase := cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}

	return &Embedder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       openai.EmbeddingModel(cfg.Model),
		dimensions:  cfg.Dimensions,
		provider:    cfg.Provider,
		backoffBase: backoffBase,
		sleep:       time.Sleep,
		logger:      cfg.Logger,
	}
}

// Embed implements domain.Embedder with a bounded retry budget. Transient
// signals (model still loading, rate limit) back off exponentially from the
// base interval; other errors retry at the flat base interval. After
// maxAttempts the last error is returned for the caller to degrade on.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	backoff := e.backoffBase
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := e.embedOnce(ctx, text)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		if errors.Is(err, domain.ErrModelLoading) || errors.Is(err, domain.ErrEmbeddingRateLimited) {
			metrics.EmbeddingRetriesTotal.WithLabelValues(e.provider, string(e.model), "transient").Inc()
			e.logger.Warn("Transient embedding failure, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			e.sleep(backoff)
			backoff *= 2
		} else {
			metrics.EmbeddingRetriesTotal.WithLabelValues(e.provider, string(e.model), "other").Inc()
			e.logger.Warn("Embedding request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			e.sleep(e.backoffBase)
		}
	}

	return domain.EmbeddingResult{}, lastErr
}

func (e *Embedder) embedOnce(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		classified := classifyAPIError(err)
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, string(e.model), errorType(classified)).Inc()
		return domain.EmbeddingResult{}, classified
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, string(e.model), "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, string(e.model)).Observe(duration.Seconds())

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// classifyAPIError maps provider responses onto the domain error taxonomy:
// 429 is a rate limit, 503 means the model is still warming up, everything
// else is a generic provider error.
func classifyAPIError(err error) error {
	status, detail := statusAndDetail(err)

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("embedding API error %d: %s: %w", status, detail, domain.ErrEmbeddingRateLimited)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("embedding API error %d: %s: %w", status, detail, domain.ErrModelLoading)
	case 0:
		return fmt.Errorf("embedding request failed: %w", domain.ErrEmbeddingProviderError)
	default:
		return fmt.Errorf("embedding API error %d: %s: %w", status, detail, domain.ErrEmbeddingProviderError)
	}
}

func statusAndDetail(err error) (int, string) {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return reqErr.HTTPStatusCode, detail
		}
		return reqErr.HTTPStatusCode, string(reqErr.Body)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message
	}

	return 0, ""
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmbeddingRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrModelLoading):
		return "model_loading"
	default:
		return "api_error"
	}
}

// extractDetail extracts the "error" or "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return ""
}
