// Package db opens the relational store and selects the SQL dialect.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Open detects the dialect from databaseURL and opens a connection pool.
// The pool is shared for the process lifetime; individual queries borrow
// connections for the duration of retrieval only.
func Open(databaseURL string) (*sql.DB, Dialect, error) {
	dialect := Detect(databaseURL)

	sqlDB, err := sql.Open(dialect.DriverName(), dialect.DSN(databaseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", dialect.Name(), err)
	}

	return sqlDB, dialect, nil
}

// WaitForReady pings the database until it responds or the timeout expires.
func WaitForReady(ctx context.Context, sqlDB *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if err := sqlDB.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("database not ready after %s: %w", timeout, ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}
