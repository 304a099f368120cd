// Package section is the relational repository for law sections. It builds
// parameterized, dialect-correct SQL and materializes rows fully before
// returning, so no connection is held across embedding calls.
package section

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lexgrid/lexsearch/internal/db"
	"github.com/lexgrid/lexsearch/internal/domain"
)

// Repo reads law sections from the relational store.
type Repo struct {
	db      *sql.DB
	dialect db.Dialect
	logger  *zap.Logger
}

// New creates a section repository bound to one dialect.
func New(sqlDB *sql.DB, dialect db.Dialect, logger *zap.Logger) *Repo {
	return &Repo{db: sqlDB, dialect: dialect, logger: logger}
}

// SearchCandidates retrieves candidate sections for the (already expanded)
// retrieval terms plus optional equality filters. Ranking happens upstream;
// rows come back in storage order.
func (r *Repo) SearchCandidates(
	ctx context.Context, terms string, filters map[string]string,
) ([]domain.Section, error) {
	query, args := buildSearchQuery(r.dialect, terms, filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		sec, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return sections, nil
}

// GetByCode fetches one section with its full detail columns.
// Returns domain.ErrNotFound when the code is unknown.
func (r *Repo) GetByCode(ctx context.Context, code string) (domain.Section, error) {
	query := "SELECT id, section_code, section_number, title, description, " +
		"category, punishment, bailable, cognizable, compoundable, " +
		"fine_range, imprisonment_range, source, last_updated " +
		"FROM law_sections WHERE section_code = " + r.dialect.Placeholder(1)

	sec, err := scanDetail(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Section{}, fmt.Errorf("section %q: %w", code, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Section{}, fmt.Errorf("get section %q: %w", code, err)
	}

	return sec, nil
}

// Categories lists all distinct section categories in alphabetical order.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM law_sections ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Suggest returns up to limit "CODE: Title" autocomplete strings from a
// substring lookup over section codes and titles.
func (r *Repo) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	stmt, args := buildSuggestQuery(r.dialect, query, limit)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []string
	for rows.Next() {
		var code, title string
		if err := rows.Scan(&code, &title); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, code+": "+truncate(title, 50))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	return suggestions, nil
}

// Ping checks storage connectivity for health reporting.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
