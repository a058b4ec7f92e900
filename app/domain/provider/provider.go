package provider

import (
	"context"
	"time"
)

// SearchRequest is the provider-neutral search payload.
type SearchRequest struct {
	Query    string
	Num      int
	Location string
	Country  string
}

// SearchResult is a single normalized search hit.
type SearchResult struct {
	Query       string
	Provider    string
	Title       string
	Link        string
	Snippet     string
	Source      string
	PublishedAt *time.Time
	// Content holds scraped page text when the provider returns it.
	Content string
}

type Searcher interface {
	Name() string
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}

// ContentFetcher returns readable text for a URL, usually Markdown.
type ContentFetcher interface {
	Fetch(ctx context.Context, link string) (string, error)
}

type Place struct {
	PlaceID string
	Name    string
	Address string
	Types   []string
	Rating  float64
}

type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, query string) ([]Place, error)
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	// JSONMode asks the model for a single JSON object.
	JSONMode bool
}

type LanguageModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ResponseCache stores raw provider payloads keyed by request fingerprint.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// FilterSince drops results published before since. Undated results are dropped too.
func FilterSince(results []SearchResult, since *time.Time) []SearchResult {
	if since == nil {
		return results
	}
	kept := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.PublishedAt != nil && !r.PublishedAt.Before(*since) {
			kept = append(kept, r)
		}
	}
	return kept
}
