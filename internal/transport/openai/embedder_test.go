package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/domain"
	"github.com/lexgrid/lexsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

// openaiEmbeddingResponse mirrors the OpenAI-compatible API embedding response.
type openaiEmbeddingResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func writeEmbeddingResponse(w http.ResponseWriter, vec []float32) {
	resp := openaiEmbeddingResponse{Object: "list", Model: "test-model"}
	resp.Data = append(resp.Data, struct {
		Object    string    `json:"object"`
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	}{Object: "embedding", Embedding: vec})
	resp.Usage.PromptTokens = 7
	resp.Usage.TotalTokens = 7

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// newTestEmbedder points the client at the test server and neuters sleeps,
// recording the requested backoff intervals instead.
func newTestEmbedder(t *testing.T, baseURL string, slept *[]time.Duration) *Embedder {
	t.Helper()

	emb := NewEmbedder(&Config{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "test-model",
		Provider:    "test",
		BackoffBase: 2 * time.Second,
		Logger:      zap.NewNop(),
	})
	emb.sleep = func(d time.Duration) {
		if slept != nil {
			*slept = append(*slept, d)
		}
	}
	return emb
}

func TestEmbed_Success(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		writeEmbeddingResponse(w, expectedVec)
	}))
	defer server.Close()

	emb := newTestEmbedder(t, server.URL, nil)

	result, err := emb.Embed(context.Background(), "punishment for murder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 4 || result.Embedding[0] != 0.1 {
		t.Errorf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 7 {
		t.Errorf("expected TotalTokens=7, got %d", result.TotalTokens)
	}
}

func TestEmbed_ModelLoadingRetriesToSuccess(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"model is currently loading"}`))
			return
		}
		writeEmbeddingResponse(w, []float32{0.9})
	}))
	defer server.Close()

	var slept []time.Duration
	emb := newTestEmbedder(t, server.URL, &slept)

	result, err := emb.Embed(context.Background(), "theft")
	if err != nil {
		t.Fatalf("expected retry-to-success, got error: %v", err)
	}
	if len(result.Embedding) != 1 {
		t.Errorf("unexpected vector: %v", result.Embedding)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}

	// Exponential backoff: base, then doubled.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(slept) != 2 || slept[0] != want[0] || slept[1] != want[1] {
		t.Errorf("backoff intervals = %v, want %v", slept, want)
	}
}

func TestEmbed_AllAttemptsFail(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model is currently loading"}`))
	}))
	defer server.Close()

	var slept []time.Duration
	emb := newTestEmbedder(t, server.URL, &slept)

	_, err := emb.Embed(context.Background(), "assault")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(err, domain.ErrModelLoading) {
		t.Errorf("expected ErrModelLoading, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestEmbed_RateLimitClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
	}))
	defer server.Close()

	emb := newTestEmbedder(t, server.URL, nil)

	_, err := emb.Embed(context.Background(), "fraud")
	if !errors.Is(err, domain.ErrEmbeddingRateLimited) {
		t.Errorf("expected ErrEmbeddingRateLimited, got %v", err)
	}
}

func TestEmbed_OtherErrorUsesFlatBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	var slept []time.Duration
	emb := newTestEmbedder(t, server.URL, &slept)

	_, err := emb.Embed(context.Background(), "dowry")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}

	want := []time.Duration{2 * time.Second, 2 * time.Second}
	if len(slept) != 2 || slept[0] != want[0] || slept[1] != want[1] {
		t.Errorf("backoff intervals = %v, want flat %v", slept, want)
	}
}

func TestEmbed_EmptyResponseIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[],"model":"test-model"}`))
	}))
	defer server.Close()

	emb := newTestEmbedder(t, server.URL, nil)

	_, err := emb.Embed(context.Background(), "bail")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError for empty payload, got %v", err)
	}
}
