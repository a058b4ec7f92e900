package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
)

func TestSearchNormalizesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Query != "green manufacturers" || req.MaxResults != 5 || !req.IncludeRawContent {
			t.Errorf("unexpected request %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"title":"Acme","url":"https://acme.test","content":"snippet","raw_content":"# Acme","published_date":"2024-02-01"}]}`))
	}))
	defer server.Close()

	gate := provider.NewGate(Name, provider.RetryPolicy{MaxAttempts: 1}, 0)
	client := New("tvly-key", gate, httpclients.NewClient(clientName, 0).SetBaseURL(server.URL))
	results, err := client.Search(context.Background(), provider.SearchRequest{Query: "green manufacturers", Num: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Provider != Name || r.Link != "https://acme.test" || r.Content != "# Acme" || r.PublishedAt == nil {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestSearchWithoutKey(t *testing.T) {
	client := New("", provider.NewGate(Name, provider.RetryPolicy{}, 0), httpclients.NewClient(clientName, 0))
	_, err := client.Search(context.Background(), provider.SearchRequest{Query: "x"})
	if common.KindOf(err) != common.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
