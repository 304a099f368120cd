package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestHandleSearch_Lexical(t *testing.T) {
	ts := newTestServer(t, &stubRepo{sections: testSections(), sugg: []string{"IPC 302: Punishment for murder"}})

	resp := postJSON(t, ts.URL+"/api/v1/search", searchRequest{Query: "murder"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decode[searchResponse](t, resp)
	if body.Query != "murder" {
		t.Errorf("query = %q", body.Query)
	}
	if body.Semantic {
		t.Error("semantic must be false without an embedder")
	}
	if body.TotalResults == 0 || len(body.Results) != body.TotalResults {
		t.Errorf("results/total mismatch: %d vs %d", len(body.Results), body.TotalResults)
	}
	if body.Results[0].SectionCode != "IPC 302" {
		t.Errorf("top result = %q, want IPC 302", body.Results[0].SectionCode)
	}
	if len(body.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestHandleSearch_ShortQueryRejected(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	resp := postJSON(t, ts.URL+"/api/v1/search", searchRequest{Query: "ab"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", body.Code, codeValidationFailed)
	}
}

func TestHandleSearch_MalformedBody(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	resp, err := http.Post(ts.URL+"/api/v1/search", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSearch_RetrievalErrorStillOK(t *testing.T) {
	ts := newTestServer(t, &stubRepo{err: errors.New("connection reset")})

	resp := postJSON(t, ts.URL+"/api/v1/search", searchRequest{Query: "murder"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search must degrade, not fail: status = %d", resp.StatusCode)
	}
	body := decode[searchResponse](t, resp)
	if body.TotalResults != 0 {
		t.Errorf("expected empty results, got %d", body.TotalResults)
	}
}

func TestHandleSearchSections_QueryParams(t *testing.T) {
	ts := newTestServer(t, &stubRepo{sections: testSections()})

	resp, err := http.Get(ts.URL + "/api/v1/search/sections?query=theft&category=Offences+Against+Property&max_results=1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[searchResponse](t, resp)
	if len(body.Results) > 1 {
		t.Errorf("max_results=1 not honored: %d results", len(body.Results))
	}
}

func TestHandleSearchSections_BadMaxResults(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	resp, err := http.Get(ts.URL + "/api/v1/search/sections?query=theft&max_results=ten")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSuggestions(t *testing.T) {
	ts := newTestServer(t, &stubRepo{sugg: []string{"IPC 378: Theft"}})

	resp, err := http.Get(ts.URL + "/api/v1/suggestions?query=the")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := decode[suggestionsResponse](t, resp)
	if len(body.Suggestions) != 1 || body.Suggestions[0] != "IPC 378: Theft" {
		t.Errorf("suggestions = %v", body.Suggestions)
	}
}

func TestHandleSuggestions_MissingQuery(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	resp, err := http.Get(ts.URL + "/api/v1/suggestions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleGetSection(t *testing.T) {
	ts := newTestServer(t, &stubRepo{sections: testSections()})

	resp, err := http.Get(ts.URL + "/api/v1/sections/IPC%20302")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[sectionDetailResponse](t, resp)
	if body.SectionCode != "IPC 302" || body.Bailable != "No" {
		t.Errorf("unexpected detail: %+v", body)
	}
}

func TestHandleGetSection_NotFound(t *testing.T) {
	ts := newTestServer(t, &stubRepo{sections: testSections()})

	resp, err := http.Get(ts.URL + "/api/v1/sections/IPC%20999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != codeNotFound {
		t.Errorf("code = %q", body.Code)
	}
}

func TestHandleCategories(t *testing.T) {
	ts := newTestServer(t, &stubRepo{categories: []string{"Offences Affecting Life", "Offences Against Property"}})

	resp, err := http.Get(ts.URL + "/api/v1/categories")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := decode[categoriesResponse](t, resp)
	if len(body.Categories) != 2 {
		t.Errorf("categories = %v", body.Categories)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Checks["embedding"] != "disabled" {
		t.Errorf("checks = %v", body.Checks)
	}
}

func TestHandleRoot(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}
