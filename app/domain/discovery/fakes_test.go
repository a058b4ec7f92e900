package discovery

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/lead/leadtest"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/domain/query"
)

type fakeLLM struct {
	mu       sync.Mutex
	calls    int
	requests []provider.CompletionRequest
	respond  func(call int, req provider.CompletionRequest) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(call, req)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSearcher struct {
	name    string
	results map[string][]provider.SearchResult
	fail    map[string]bool
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) Search(ctx context.Context, req provider.SearchRequest) ([]provider.SearchResult, error) {
	if f.fail[req.Query] {
		return nil, common.NewProviderError(errors.New("upstream 502"), "test")
	}
	return append([]provider.SearchResult(nil), f.results[req.Query]...), nil
}

type fakeFetcher struct {
	content map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, link string) (string, error) {
	if c, ok := f.content[link]; ok {
		return c, nil
	}
	return "", common.NewProviderError(errors.New("fetch failed"), "test")
}

type fakePlaces struct {
	places []provider.Place
}

func (f *fakePlaces) SearchPlaces(ctx context.Context, q string) ([]provider.Place, error) {
	return f.places, nil
}

type memorySearchRepo struct {
	mu      sync.Mutex
	nextID  uint
	queries []*SearchQuery
	results []*StoredResult
}

var _ SearchRepository = (*memorySearchRepo)(nil)

func newMemorySearchRepo() *memorySearchRepo {
	return &memorySearchRepo{nextID: 1}
}

func (r *memorySearchRepo) CreateQueries(ctx context.Context, queries []*SearchQuery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range queries {
		q.ID = r.nextID
		r.nextID++
		c := *q
		r.queries = append(r.queries, &c)
	}
	return nil
}

func (r *memorySearchRepo) FindQueries(ctx context.Context, projectID uint, p *query.Pagination) ([]*SearchQuery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*SearchQuery
	for _, q := range r.queries {
		if q.ProjectID == projectID {
			c := *q
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memorySearchRepo) CountQueries(ctx context.Context, projectID uint) (int64, error) {
	out, _ := r.FindQueries(ctx, projectID, nil)
	return int64(len(out)), nil
}

func (r *memorySearchRepo) SaveResults(ctx context.Context, results []*StoredResult) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, res := range results {
		dup := false
		for _, existing := range r.results {
			if existing.ProjectID == res.ProjectID && existing.Link == res.Link {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		res.ID = r.nextID
		r.nextID++
		c := *res
		r.results = append(r.results, &c)
		inserted++
	}
	return inserted, nil
}

func (r *memorySearchRepo) FindResults(ctx context.Context, filter SearchResultFilter, p *query.Pagination) ([]*StoredResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*StoredResult
	for _, res := range r.results {
		if filter.ProjectID != nil && res.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && string(res.Status) != *filter.Status {
			continue
		}
		c := *res
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if p != nil && p.Limit != nil && *p.Limit < len(out) {
		out = out[:*p.Limit]
	}
	return out, nil
}

func (r *memorySearchRepo) CountResults(ctx context.Context, filter SearchResultFilter) (int64, error) {
	out, _ := r.FindResults(ctx, filter, nil)
	return int64(len(out)), nil
}

func (r *memorySearchRepo) UpdateResult(ctx context.Context, res *StoredResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.results {
		if existing.ID == res.ID {
			c := *res
			r.results[i] = &c
		}
	}
	return nil
}

func (r *memorySearchRepo) statuses() map[string]ResultStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]ResultStatus{}
	for _, res := range r.results {
		out[res.Link] = res.Status
	}
	return out
}

func promptContains(req provider.CompletionRequest, s string) bool {
	return strings.Contains(req.UserPrompt, s)
}

// flakyLeadRepo fails the next failures inserts.
type flakyLeadRepo struct {
	*leadtest.LeadRepository
	mu       sync.Mutex
	failures int
}

func (r *flakyLeadRepo) CreateIfAbsent(ctx context.Context, l *lead.Lead) (bool, error) {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return false, errors.New("connection reset")
	}
	r.mu.Unlock()
	return r.LeadRepository.CreateIfAbsent(ctx, l)
}
