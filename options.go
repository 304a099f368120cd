package lexsearch

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	databaseURL string
	embedder    Embedder
	logger      *zap.Logger
}

// WithSQLite points the client at a SQLite database file.
// Use ":memory:" for an in-memory database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.databaseURL = path
	})
}

// WithPostgres points the client at a PostgreSQL database.
// dsn is a postgres:// connection URL.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.databaseURL = dsn
	})
}

// WithEmbedder sets the text embedding provider, enabling semantic
// ranking. Without it search is lexical-only.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithLogger enables structured logging for SDK operations.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	})
}
