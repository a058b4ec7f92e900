package enrichment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/lead/leadtest"
	"leadgen.ai/leadgen-api/app/domain/prompts"
	"leadgen.ai/leadgen-api/app/domain/provider"
)

type stubSearcher struct {
	hits []provider.SearchResult
	err  error
}

func (s *stubSearcher) Name() string { return "jina" }

func (s *stubSearcher) Search(ctx context.Context, req provider.SearchRequest) ([]provider.SearchResult, error) {
	return s.hits, s.err
}

type stubFetcher struct {
	content string
	err     error
	calls   int
}

func (f *stubFetcher) Fetch(ctx context.Context, link string) (string, error) {
	f.calls++
	return f.content, f.err
}

type stubLLM struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	active  int
	peak    int
	delay   time.Duration
	respond func(req provider.CompletionRequest) (string, error)
}

func (s *stubLLM) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	s.mu.Lock()
	s.calls++
	s.active++
	if s.active > s.peak {
		s.peak = s.active
	}
	s.prompts = append(s.prompts, req.UserPrompt)
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()
	return s.respond(req)
}

func newEnricher(t *testing.T, searcher *stubSearcher, fetcher *stubFetcher, llm *stubLLM) *Enricher {
	t.Helper()
	set, err := prompts.Default()
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	return NewEnricher(provider.NewSearchRegistry(searcher), fetcher, llm, set, Settings{DefaultProvider: "jina"})
}

var reportSpec = AttributeSpec{Name: "sustainability_report", Description: "published sustainability report"}

func TestEnrichWithoutContentIsUnknown(t *testing.T) {
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		t.Fatalf("model should not be called")
		return "", nil
	}}
	e := newEnricher(t, &stubSearcher{}, &stubFetcher{}, llm)

	result, err := e.Enrich(context.Background(), "Acme Corp", reportSpec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Value != lead.UnknownValue || result.Status != lead.EnrichmentStatusUnknown {
		t.Fatalf("expected unknown result, got %+v", result)
	}
}

func TestEnrichUsesFetchedContent(t *testing.T) {
	searcher := &stubSearcher{hits: []provider.SearchResult{
		{Title: "Acme 2023 report", Link: "https://acme.example/report", Snippet: "snippet one"},
		{Title: "News", Link: "https://news.example", Snippet: "snippet two"},
	}}
	fetcher := &stubFetcher{content: "# Acme Sustainability Report 2023"}
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		return `{"value": "yes", "confidence": 1.7, "citation": "Acme Sustainability Report 2023", "reasoning": "report found"}`, nil
	}}
	e := newEnricher(t, searcher, fetcher, llm)

	result, err := e.Enrich(context.Background(), "Acme Corp", reportSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != lead.EnrichmentStatusSucceeded || result.Value != "yes" {
		t.Fatalf("unexpected result %+v", result)
	}
	if !result.Confidence.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected confidence clamped to 1, got %s", result.Confidence)
	}
	if result.SourceURL != "https://acme.example/report" {
		t.Fatalf("expected top source url as fallback, got %q", result.SourceURL)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected only the top result to be fetched, got %d fetches", fetcher.calls)
	}
	if !strings.Contains(llm.prompts[0], "Acme Sustainability Report 2023") || !strings.Contains(llm.prompts[0], "snippet two") {
		t.Fatalf("expected fetched content and snippets in prompt: %s", llm.prompts[0])
	}
}

func TestEnrichFetchFailureFallsBackToSnippet(t *testing.T) {
	searcher := &stubSearcher{hits: []provider.SearchResult{{Title: "Acme", Link: "https://acme.example", Snippet: "Acme publishes an annual ESG report"}}}
	fetcher := &stubFetcher{err: common.NewProviderError(errors.New("403"), "test")}
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		return `{"value": true, "confidence": "80%", "citation": "annual ESG report", "source_url": "https://acme.example"}`, nil
	}}
	e := newEnricher(t, searcher, fetcher, llm)

	result, err := e.Enrich(context.Background(), "Acme Corp", reportSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value != "true" || !result.Confidence.Equal(decimal.RequireFromString("0.8")) {
		t.Fatalf("unexpected result %+v", result)
	}
	if !strings.Contains(llm.prompts[0], "annual ESG report") {
		t.Fatalf("expected snippet in prompt")
	}
}

func TestEnrichModelSaysUnknown(t *testing.T) {
	searcher := &stubSearcher{hits: []provider.SearchResult{{Link: "https://x", Snippet: "unrelated"}}}
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		return `{"value": "Unknown", "confidence": 0.2, "reasoning": "sources are about another company"}`, nil
	}}
	result, err := newEnricher(t, searcher, &stubFetcher{}, llm).Enrich(context.Background(), "Acme", reportSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != lead.EnrichmentStatusUnknown || result.Value != lead.UnknownValue {
		t.Fatalf("expected unknown result, got %+v", result)
	}
}

func TestEnrichErrors(t *testing.T) {
	hits := []provider.SearchResult{{Link: "https://x", Snippet: "text"}}
	cases := []struct {
		name     string
		searcher *stubSearcher
		llm      func(req provider.CompletionRequest) (string, error)
		kind     common.ErrorKind
	}{
		{
			name:     "search failure",
			searcher: &stubSearcher{err: common.NewProviderError(errors.New("502"), "test")},
			kind:     common.KindProvider,
		},
		{
			name:     "missing key",
			searcher: &stubSearcher{err: common.NewConfigurationError("test", "JINA_API_KEY is not set")},
			kind:     common.KindConfiguration,
		},
		{
			name:     "model failure",
			searcher: &stubSearcher{hits: hits},
			llm: func(req provider.CompletionRequest) (string, error) {
				return "", common.NewProviderError(errors.New("timeout"), "test")
			},
			kind: common.KindProvider,
		},
		{
			name:     "unparsable answer",
			searcher: &stubSearcher{hits: hits},
			llm: func(req provider.CompletionRequest) (string, error) {
				return "The company probably has one.", nil
			},
			kind: common.KindParse,
		},
	}
	for _, tc := range cases {
		llm := &stubLLM{respond: tc.llm}
		_, err := newEnricher(t, tc.searcher, &stubFetcher{}, llm).Enrich(context.Background(), "Acme", reportSpec)
		if common.KindOf(err) != tc.kind {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.kind, err)
		}
	}
}

func TestEnrichSinceFilterDropsOldArticles(t *testing.T) {
	old := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	searcher := &stubSearcher{hits: []provider.SearchResult{{Link: "https://x", Snippet: "old news", PublishedAt: &old}}}
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		t.Fatalf("model should not be called")
		return "", nil
	}}
	spec := reportSpec
	spec.Since = &since
	result, err := newEnricher(t, searcher, &stubFetcher{}, llm).Enrich(context.Background(), "Acme", spec)
	if err != nil || result.Status != lead.EnrichmentStatusUnknown {
		t.Fatalf("expected unknown without error, got %+v %v", result, err)
	}
}

func TestEnrichValidatesSpec(t *testing.T) {
	e := newEnricher(t, &stubSearcher{}, &stubFetcher{}, &stubLLM{})
	if _, err := e.Enrich(context.Background(), "Acme", AttributeSpec{Description: "x"}); common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := e.Enrich(context.Background(), " ", reportSpec); common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error for empty company, got %v", err)
	}
}

func seedLeads(t *testing.T, svc *lead.LeadService, names ...string) []*lead.Lead {
	t.Helper()
	candidates := make([]lead.NewLead, len(names))
	for i, n := range names {
		candidates[i] = lead.NewLead{CompanyName: n, Source: lead.SourceImported}
	}
	res, err := svc.AddLeads(context.Background(), 1, candidates)
	if err != nil {
		t.Fatalf("seed leads: %v", err)
	}
	return res.Created
}

func TestEnrichProjectSummarizesAndCapsConcurrency(t *testing.T) {
	leadSvc, leadRepo, results := leadtest.NewService()
	seeded := seedLeads(t, leadSvc, "Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta")
	searcher := &stubSearcher{hits: []provider.SearchResult{{Link: "https://x", Snippet: "text"}}}
	llm := &stubLLM{delay: 20 * time.Millisecond, respond: func(req provider.CompletionRequest) (string, error) {
		switch {
		case strings.Contains(req.UserPrompt, "Company: Beta"):
			return "", common.NewProviderError(errors.New("503"), "test")
		case strings.Contains(req.UserPrompt, "Company: Gamma"):
			return `{"value": "unknown"}`, nil
		}
		return `{"value": "yes", "confidence": 0.9}`, nil
	}}
	svc := NewService(newEnricher(t, searcher, &stubFetcher{}, llm), leadSvc, 2)

	summary, err := svc.EnrichProject(context.Background(), 1, BatchRequest{Spec: reportSpec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 6 || summary.Succeeded != 4 || summary.Unknown != 1 || summary.Failed != 1 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if llm.peak > 2 {
		t.Fatalf("expected at most 2 concurrent calls, got %d", llm.peak)
	}
	alpha, _ := leadRepo.FindByID(context.Background(), seeded[0].ID)
	if alpha.Attributes["sustainability_report"] != "yes" {
		t.Fatalf("expected attribute to be written, got %v", alpha.Attributes)
	}
	history, _ := results.FindByLeadID(context.Background(), seeded[1].ID)
	if len(history) != 0 {
		t.Fatalf("expected no result stored for the failed lead")
	}
}

func TestEnrichProjectOnlyMissing(t *testing.T) {
	leadSvc, _, _ := leadtest.NewService()
	seeded := seedLeads(t, leadSvc, "Alpha", "Beta")
	seeded[0].Attributes["sustainability_report"] = "yes"
	if err := leadSvc.UpdateLead(context.Background(), seeded[0]); err != nil {
		t.Fatalf("update: %v", err)
	}
	searcher := &stubSearcher{hits: []provider.SearchResult{{Link: "https://x", Snippet: "text"}}}
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		return `{"value": "no", "confidence": 0.6}`, nil
	}}
	svc := NewService(newEnricher(t, searcher, &stubFetcher{}, llm), leadSvc, 2)

	summary, err := svc.EnrichProject(context.Background(), 1, BatchRequest{Spec: reportSpec, OnlyMissing: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 1 || summary.Outcomes[0].Company != "Beta" {
		t.Fatalf("expected only Beta to be enriched, got %+v", summary)
	}
}

func TestEnrichProjectCancellationSkipsRemaining(t *testing.T) {
	leadSvc, _, results := leadtest.NewService()
	seeded := seedLeads(t, leadSvc, "Alpha", "Beta", "Gamma")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	searcher := &stubSearcher{hits: []provider.SearchResult{{Link: "https://x", Snippet: "text"}}}
	llm := &stubLLM{respond: func(req provider.CompletionRequest) (string, error) {
		cancel()
		return `{"value": "yes", "confidence": 0.9}`, nil
	}}
	svc := NewService(newEnricher(t, searcher, &stubFetcher{}, llm), leadSvc, 1)

	summary, err := svc.EnrichProject(ctx, 1, BatchRequest{Spec: reportSpec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Succeeded != 1 || summary.Skipped != 2 {
		t.Fatalf("expected 1 succeeded and 2 skipped, got %+v", summary)
	}
	history, _ := results.FindByLeadID(context.Background(), seeded[0].ID)
	if len(history) != 1 {
		t.Fatalf("expected the finished result to be stored, got %d", len(history))
	}
}
