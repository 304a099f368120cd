package db

import (
	"fmt"
	"strings"
)

// Dialect abstracts the SQL differences between the two supported backends:
// bind-parameter style and case-insensitive partial matching. Selected once
// at startup; query-building code never inspects the connection string.
type Dialect interface {
	// Name identifies the dialect ("postgres" or "sqlite").
	Name() string
	// DriverName is the database/sql driver to open.
	DriverName() string
	// DSN converts the configured connection URL into a driver DSN.
	DSN(databaseURL string) string
	// Placeholder returns the bind marker for the 1-based parameter position n.
	Placeholder(n int) string
	// Contains returns a partial-match predicate for column against the
	// parameter at position n. Case-insensitive on backends where the
	// match operator is (used for numeric columns where case is moot).
	Contains(column string, n int) string
	// ContainsCI returns a case-insensitive partial-match predicate for
	// column against the parameter at position n. The bound value must
	// already carry its % wildcards.
	ContainsCI(column string, n int) string
}

// Postgres uses $n placeholders and native ILIKE.
type Postgres struct{}

func (Postgres) Name() string       { return "postgres" }
func (Postgres) DriverName() string { return "postgres" }

// DSN passes the URL through; lib/pq accepts postgres:// URLs directly.
func (Postgres) DSN(databaseURL string) string { return databaseURL }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Postgres) Contains(column string, n int) string {
	return fmt.Sprintf("%s ILIKE $%d", column, n)
}

// ContainsCI is the same as Contains: ILIKE is case-insensitive natively.
func (Postgres) ContainsCI(column string, n int) string {
	return fmt.Sprintf("%s ILIKE $%d", column, n)
}

// SQLite uses ? placeholders and has no ILIKE; both sides of the comparison
// are lowered instead.
type SQLite struct{}

func (SQLite) Name() string       { return "sqlite" }
func (SQLite) DriverName() string { return "sqlite3" }

// DSN strips the sqlite URL scheme down to a file path.
func (SQLite) DSN(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite:///./")
	path = strings.TrimPrefix(path, "sqlite:///")
	path = strings.TrimPrefix(path, "sqlite://")
	return path
}

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) Contains(column string, _ int) string {
	return fmt.Sprintf("%s LIKE ?", column)
}

func (SQLite) ContainsCI(column string, _ int) string {
	return fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", column)
}

// Detect selects the dialect from the connection-string prefix.
// postgres:// and postgresql:// URLs go to Postgres; everything else is
// treated as an SQLite path.
func Detect(databaseURL string) Dialect {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return Postgres{}
	}
	return SQLite{}
}
