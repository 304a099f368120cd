package lexsearch_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lexgrid/lexsearch"
)

func newTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kb.db")
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()

	ddl := `
CREATE TABLE law_sections (
	id INTEGER PRIMARY KEY,
	section_code TEXT NOT NULL UNIQUE,
	section_number TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	punishment TEXT,
	fine_range TEXT,
	imprisonment_range TEXT,
	bailable TEXT,
	cognizable TEXT,
	compoundable TEXT,
	source TEXT,
	last_updated TEXT
)`
	if _, err := sqlDB.Exec(ddl); err != nil {
		t.Fatalf("create table: %v", err)
	}

	seed := [][]string{
		{"IPC 302", "302", "Punishment for Murder",
			"Whoever commits murder shall be punished with death or imprisonment for life",
			"Offences Affecting Human Body", "No"},
		{"IPC 378", "378", "Theft",
			"Whoever intends to take dishonestly any movable property commits theft",
			"Offences Against Property", "Yes"},
		{"IT 66", "66", "Computer Related Offences",
			"Whoever dishonestly or fraudulently does any act referred to in section 43",
			"Cyber Crimes", "Yes"},
	}
	for _, s := range seed {
		_, err := sqlDB.Exec(
			`INSERT INTO law_sections
			(section_code, section_number, title, description, category, bailable)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s[0], s[1], s[2], s[3], s[4], s[5],
		)
		if err != nil {
			t.Fatalf("seed %s: %v", s[0], err)
		}
	}
	return path
}

func newTestClient(t *testing.T, opts ...lexsearch.Option) *lexsearch.Client {
	t.Helper()

	opts = append([]lexsearch.Option{lexsearch.WithSQLite(newTestDB(t))}, opts...)
	client, err := lexsearch.New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := lexsearch.New(context.Background())
	if err == nil {
		t.Fatal("expected error without database option")
	}
}

func TestClient_SearchLexical(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Search(context.Background(), lexsearch.SearchRequest{Query: "murder"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Semantic {
		t.Error("semantic must be false without an embedder")
	}
	if len(res.Sections) == 0 {
		t.Fatal("expected results")
	}
	if res.Sections[0].SectionCode != "IPC 302" {
		t.Errorf("top result = %q, want IPC 302", res.Sections[0].SectionCode)
	}
}

func TestClient_SearchExpandsDomainTerms(t *testing.T) {
	client := newTestClient(t)

	// "cyber" expands to terms that hit "Computer Related Offences"
	res, err := client.Search(context.Background(), lexsearch.SearchRequest{Query: "cyber"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	found := false
	for _, s := range res.Sections {
		if s.SectionCode == "IT 66" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected IT 66 in results, got %+v", res.Sections)
	}
}

func TestClient_SearchRejectsShortQuery(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Search(context.Background(), lexsearch.SearchRequest{Query: "ab"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestClient_SearchWithFilter(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Search(context.Background(), lexsearch.SearchRequest{
		Query:   "whoever",
		Filters: map[string]string{"category": "Cyber Crimes"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, s := range res.Sections {
		if s.Category != "Cyber Crimes" {
			t.Errorf("filter leaked: %q", s.Category)
		}
	}
}

func TestClient_Section(t *testing.T) {
	client := newTestClient(t)

	sec, err := client.Section(context.Background(), "IPC 378")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if sec.Title != "Theft" || sec.Bailable != "Yes" {
		t.Errorf("unexpected section: %+v", sec)
	}

	_, err = client.Section(context.Background(), "IPC 999")
	if !errors.Is(err, lexsearch.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Suggest(t *testing.T) {
	client := newTestClient(t)

	sugg := client.Suggest(context.Background(), "theft")
	if len(sugg) == 0 {
		t.Fatal("expected suggestions")
	}
	if !strings.HasPrefix(sugg[0], "IPC 378: ") {
		t.Errorf("suggestion format: %q", sugg[0])
	}

	if got := client.Suggest(context.Background(), "t"); got != nil {
		t.Errorf("short prefix must yield nil, got %v", got)
	}
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t)

	cats, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 3 {
		t.Errorf("categories = %v", cats)
	}
}

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (lexsearch.EmbeddingResult, error) {
	for key, vec := range f.vectors {
		if strings.Contains(strings.ToLower(text), key) {
			return lexsearch.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
		}
	}
	return lexsearch.EmbeddingResult{Embedding: []float32{0, 1}, TotalTokens: 1}, nil
}

func TestClient_SemanticRanking(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"theft": {1, 0},
		"taken": {1, 0},
	}}
	client := newTestClient(t, lexsearch.WithEmbedder(emb))

	res, err := client.Search(context.Background(), lexsearch.SearchRequest{Query: "property taken"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Semantic {
		t.Fatal("expected semantic ranking with an embedder")
	}
	if res.Sections[0].SectionCode != "IPC 378" {
		t.Errorf("top result = %q, want IPC 378", res.Sections[0].SectionCode)
	}
	if res.Sections[0].SimilarityScore == nil {
		t.Error("similarity score missing on semantic result")
	}
}
