// Package lexsearch provides an embedded Go client for searching a
// criminal-law knowledge base stored in SQLite or PostgreSQL.
//
// Queries are expanded with legal-domain synonyms and ranked either by
// keyword overlap or, when an embedder is configured, by cosine
// similarity of text embeddings:
//
//	client, _ := lexsearch.New(ctx, lexsearch.WithSQLite("./criminal_law_kb.db"))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, lexsearch.SearchRequest{Query: "cyber fraud"})
//	for _, s := range res.Sections {
//	    fmt.Println(s.SectionCode, s.Title, s.RelevanceScore)
//	}
package lexsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/db"
	"github.com/lexgrid/lexsearch/internal/domain"
	"github.com/lexgrid/lexsearch/internal/repository/embcache"
	sectionrepo "github.com/lexgrid/lexsearch/internal/repository/section"
	searchuc "github.com/lexgrid/lexsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the lexsearch SDK entry point.
type Client struct {
	sqlDB  closerPinger
	svc    *searchuc.Service
	logger *zap.Logger
}

type closerPinger interface {
	Close() error
	PingContext(ctx context.Context) error
}

// New creates a lexsearch Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.databaseURL == "" {
		return nil, errors.New("lexsearch: database required (use WithSQLite or WithPostgres)")
	}

	sqlDB, dialect, err := db.Open(cfg.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("lexsearch: open database: %w", err)
	}

	if err := db.WaitForReady(ctx, sqlDB, defaultReadinessTimeout); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("lexsearch: database not ready: %w", err)
	}

	var embedder searchuc.Embedder
	if cfg.embedder != nil {
		embedder = embcache.New(&embedderAdapter{inner: cfg.embedder}, nil, cfg.logger)
	}

	repo := sectionrepo.New(sqlDB, dialect, cfg.logger)
	svc := searchuc.New(repo, embedder, cfg.logger)

	return &Client{sqlDB: sqlDB, svc: svc, logger: cfg.logger}, nil
}

// Close releases the database connection.
func (c *Client) Close() {
	_ = c.sqlDB.Close()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a ranked search. The query must be at least three
// characters; retrieval or embedding failures degrade the result
// rather than returning an error.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	query, err := domain.NewSearchQuery(req.Query, req.Filters, req.MaxResults)
	if err != nil {
		return SearchResult{}, fmt.Errorf("lexsearch: %w", err)
	}

	return searchResultFromDomain(c.svc.Search(ctx, query)), nil
}

// Section fetches full section detail by code, e.g. "IPC 302".
// Returns ErrNotFound when the code is unknown.
func (c *Client) Section(ctx context.Context, code string) (Section, error) {
	sec, err := c.svc.GetSection(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Section{}, ErrNotFound
		}
		return Section{}, fmt.Errorf("lexsearch: get section: %w", err)
	}
	return sectionFromDomain(sec), nil
}

// Suggest returns up to five "CODE: Title" completions for a prefix.
// Prefixes shorter than two characters yield nil.
func (c *Client) Suggest(ctx context.Context, prefix string) []string {
	return c.svc.Suggest(ctx, prefix)
}

// Categories lists the distinct section categories in the knowledge base.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	cats, err := c.svc.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("lexsearch: categories: %w", err)
	}
	return cats, nil
}

// embedderAdapter wraps the public Embedder to satisfy the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
