package provider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"leadgen.ai/leadgen-api/app/domain/common"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, Backoff: []time.Duration{time.Millisecond}}
}

func TestRetryPolicyRetriesProviderErrors(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return common.NewProviderError(errors.New("503"), "c")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryPolicyStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return common.NewConfigurationError("c", "missing key")
	})
	if common.KindOf(err) != common.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryPolicySurfacesLastFailure(t *testing.T) {
	calls := 0
	err := fastPolicy(2).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return common.NewProviderError(errors.New("down"), "c")
	})
	if !common.IsRetryable(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryPolicyAppliesPerAttemptTimeout(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 1, Timeout: 10 * time.Millisecond}
	err := policy.Do(context.Background(), "test", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRetryPolicyDelaySchedule(t *testing.T) {
	p := RetryPolicy{Backoff: DefaultBackoff}
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second, 4 * time.Second}
	for i, w := range want {
		if got := p.Delay(i + 1); got != w {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, w, got)
		}
	}
}

func TestCallSkipsWhenContextCancelled(t *testing.T) {
	gate := NewGate("test", fastPolicy(1), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Call(ctx, gate, func(ctx context.Context) (int, error) {
		t.Fatalf("call should not run with a cancelled context")
		return 0, nil
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Queries []string `json:"queries"`
	}
	cases := []string{
		`{"queries":["a","b"]}`,
		"```json\n{\"queries\":[\"a\",\"b\"]}\n```",
		"Here you go: {\"queries\":[\"a\",\"b\"]} hope it helps",
	}
	for _, raw := range cases {
		var p payload
		if err := DecodeJSON(raw, &p); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if len(p.Queries) != 2 {
			t.Fatalf("expected 2 queries, got %v", p.Queries)
		}
	}
}

func TestDecodeJSONReturnsParseFailure(t *testing.T) {
	var v map[string]any
	err := DecodeJSON("not json at all", &v)
	var failure *ParseFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected ParseFailure, got %v", err)
	}
	if failure.Raw != "not json at all" {
		t.Fatalf("expected raw text to be kept, got %q", failure.Raw)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"aéb", 3, "aé"},
		{"日本語", 4, "日"},
		{"日本語", 2, ""},
		{"🙂x", 3, ""},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		got := Truncate(tc.in, tc.max)
		if got != tc.want {
			t.Fatalf("Truncate(%q, %d): expected %q, got %q", tc.in, tc.max, tc.want, got)
		}
	}
	long := strings.Repeat("ü", 5000)
	if got := Truncate(long, 8001); !utf8.ValidString(got) || len(got) != 8000 {
		t.Fatalf("expected 8000 valid bytes, got %d (valid=%v)", len(got), utf8.ValidString(got))
	}
}

func TestFilterSince(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	old := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	results := []SearchResult{{Link: "old", PublishedAt: &old}, {Link: "recent", PublishedAt: &recent}, {Link: "undated"}}

	kept := FilterSince(results, &since)
	if len(kept) != 1 || kept[0].Link != "recent" {
		t.Fatalf("expected only the recent result, got %+v", kept)
	}
	if len(FilterSince(results, nil)) != 3 {
		t.Fatalf("expected no filtering without a date")
	}
}

type stubSearcher struct {
	calls int
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	s.calls++
	return []SearchResult{{Query: req.Query, Link: "https://example.com"}}, nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestCachedSearcherServesRepeats(t *testing.T) {
	inner := &stubSearcher{}
	s := NewCachedSearcher(inner, &memoryCache{data: map[string]string{}}, time.Minute)
	for i := 0; i < 3; i++ {
		results, err := s.Search(context.Background(), SearchRequest{Query: "q", Num: 10})
		if err != nil || len(results) != 1 {
			t.Fatalf("unexpected result %v %v", results, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", inner.calls)
	}
}

func TestSearchRegistryUnknownProvider(t *testing.T) {
	r := NewSearchRegistry(&stubSearcher{})
	if _, err := r.Get("STUB"); err != nil {
		t.Fatalf("expected case-insensitive lookup, got %v", err)
	}
	if _, err := r.Get("bing"); common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
