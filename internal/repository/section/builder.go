package section

import (
	"strings"

	"github.com/lexgrid/lexsearch/internal/db"
	"github.com/lexgrid/lexsearch/internal/domain"
)

// stopWords are excluded from retrieval tokens.
var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "with": {}, "a": {}, "an": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "has": {}, "have": {},
	"that": {}, "this": {}, "by": {}, "from": {}, "as": {}, "it": {}, "its": {},
}

const candidateColumns = "id, section_code, section_number, title, description, " +
	"category, punishment, source, last_updated"

// tokenize splits a query into lowercase retrieval tokens, dropping
// stop-words and tokens of length <= 2. If that removes everything, the raw
// whitespace-split query is used instead, so short genuine search terms
// still retrieve.
func tokenize(query string) []string {
	trimmed := strings.TrimSpace(query)

	var kept []string
	for _, term := range strings.Fields(strings.ToLower(trimmed)) {
		if _, stop := stopWords[term]; stop {
			continue
		}
		if len(term) <= 2 {
			continue
		}
		kept = append(kept, term)
	}

	if len(kept) == 0 {
		return strings.Fields(trimmed)
	}
	return kept
}

// isNumeric reports whether the token is purely digits.
func isNumeric(term string) bool {
	if term == "" {
		return false
	}
	for _, r := range term {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildSearchQuery assembles the parameterized candidate-fetch statement.
// Numeric tokens match section_number; other tokens match title, description,
// and category case-insensitively. Tokens are OR'd for broad recall, filters
// AND'd on top. All values are bound as parameters, never interpolated.
func buildSearchQuery(d db.Dialect, terms string, filters map[string]string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(candidateColumns)
	sb.WriteString(" FROM law_sections WHERE 1=1")

	var args []any

	if strings.TrimSpace(terms) != "" {
		var conds []string
		for _, term := range tokenize(terms) {
			pattern := "%" + term + "%"
			if isNumeric(term) {
				conds = append(conds, d.Contains("section_number", len(args)+1))
				args = append(args, pattern)
			} else {
				var cols []string
				for _, col := range []string{"title", "description", "category"} {
					cols = append(cols, d.ContainsCI(col, len(args)+1))
					args = append(args, pattern)
				}
				conds = append(conds, "("+strings.Join(cols, " OR ")+")")
			}
		}
		if len(conds) > 0 {
			sb.WriteString(" AND (")
			sb.WriteString(strings.Join(conds, " OR "))
			sb.WriteString(")")
		}
	}

	for _, key := range []string{
		domain.FilterCategory, domain.FilterSectionNumber,
		domain.FilterBailable, domain.FilterCognizable,
	} {
		if v, ok := filters[key]; ok && v != "" {
			sb.WriteString(" AND ")
			sb.WriteString(key)
			sb.WriteString(" = ")
			sb.WriteString(d.Placeholder(len(args) + 1))
			args = append(args, v)
		}
	}

	return sb.String(), args
}

// buildSuggestQuery assembles the autocomplete lookup over section codes and
// titles.
func buildSuggestQuery(d db.Dialect, query string, limit int) (string, []any) {
	pattern := "%" + query + "%"

	var sb strings.Builder
	sb.WriteString("SELECT DISTINCT section_code, title FROM law_sections WHERE ")
	sb.WriteString(d.ContainsCI("section_code", 1))
	sb.WriteString(" OR ")
	sb.WriteString(d.ContainsCI("title", 2))
	sb.WriteString(" LIMIT ")
	sb.WriteString(d.Placeholder(3))

	return sb.String(), []any{pattern, pattern, limit}
}
