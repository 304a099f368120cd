package search

import (
	"sort"
	"strings"

	"github.com/lexgrid/lexsearch/internal/domain"
)

// Lexical scoring weights. The additive point scheme is interpretable on
// purpose and existing result expectations depend on the exact values.
const (
	pointsTitleSubstring    = 50
	pointsTitleConcatenated = 30
	pointsTitleTerm         = 10
	pointsDescSubstring     = 15
	pointsDescTerm          = 5
	pointsCategorySubstring = 8
)

// lexicalRank scores sections by literal term overlap with the original
// query and stable-sorts them descending. Pure and deterministic: identical
// input always produces identical scores, and ties keep retrieval order.
// SimilarityScore is cleared since the ordering is not semantic.
func lexicalRank(sections []domain.Section, query string) []domain.Section {
	queryLower := strings.ToLower(query)
	queryStripped := strings.ReplaceAll(queryLower, " ", "")
	queryTerms := termSet(queryLower)

	for i := range sections {
		title := strings.ToLower(sections[i].Title)
		description := strings.ToLower(sections[i].Description)
		category := strings.ToLower(sections[i].Category)

		score := 0.0
		if strings.Contains(title, queryLower) {
			score += pointsTitleSubstring
		}
		if strings.Contains(strings.ReplaceAll(title, " ", ""), queryStripped) {
			score += pointsTitleConcatenated
		}
		score += pointsTitleTerm * float64(overlap(queryTerms, termSet(title)))

		if strings.Contains(description, queryLower) {
			score += pointsDescSubstring
		}
		score += pointsDescTerm * float64(overlap(queryTerms, termSet(description)))

		if strings.Contains(category, queryLower) {
			score += pointsCategorySubstring
		}

		sections[i].RelevanceScore = score
		sections[i].SimilarityScore = nil
	}

	sort.SliceStable(sections, func(a, b int) bool {
		return sections[a].RelevanceScore > sections[b].RelevanceScore
	})
	return sections
}

func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, term := range strings.Fields(text) {
		set[term] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for term := range a {
		if _, ok := b[term]; ok {
			n++
		}
	}
	return n
}
