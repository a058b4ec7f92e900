package discovery

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/lead/leadtest"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/project/projecttest"
	"leadgen.ai/leadgen-api/app/domain/provider"
)

type testEnv struct {
	svc      *DiscoveryService
	projects *project.ProjectService
	leads    *leadtest.LeadRepository
	searches *memorySearchRepo
	llm      *fakeLLM
	project  *project.Project
}

func newTestEnv(t *testing.T, llm *fakeLLM, searcher *fakeSearcher, places *fakePlaces) *testEnv {
	t.Helper()
	set := defaultPrompts(t)
	projectRepo := projecttest.NewProjectRepository()
	projects := project.NewService(projectRepo)
	leadSvc, leadRepo, _ := leadtest.NewService()
	projectRepo.Stats = func(id uint) (int, int) {
		n, _ := leadRepo.Count(context.Background(), lead.LeadFilter{ProjectID: &id})
		return int(n), 0
	}
	searches := newMemorySearchRepo()
	svc := NewService(
		projects,
		leadSvc,
		searches,
		NewQueryGenerator(llm, set, "Australia"),
		NewExtractor(llm, set, 2),
		provider.NewSearchRegistry(searcher),
		places,
		&fakeFetcher{content: map[string]string{}},
		Settings{DefaultProvider: searcher.Name(), Location: "Sydney", Country: "au", Workers: 2},
	)
	p, err := projects.CreateProjectWithPublicID(context.Background(), &project.Project{
		Name:            "GreenCo Outreach",
		GoalDescription: "find mid-size manufacturers with published sustainability reports",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return &testEnv{svc: svc, projects: projects, leads: leadRepo, searches: searches, llm: llm, project: p}
}

var greenCoQueries = []string{
	"mid-size manufacturers sustainability report Australia",
	"manufacturers publishing sustainability reports Sydney",
	"sustainable manufacturing companies Australia list",
}

func greenCoLLM(set string) *fakeLLM {
	return &fakeLLM{respond: func(call int, req provider.CompletionRequest) (string, error) {
		if req.SystemPrompt == set {
			return `{"queries": ["` + strings.Join(greenCoQueries, `","`) + `"]}`, nil
		}
		switch {
		case promptContains(req, "URL: https://one.example\n"):
			return `{"companies": ["Acme Corp"]}`, nil
		case promptContains(req, "URL: https://two.example\n"):
			return `{"companies": ["acme corp"]}`, nil
		default:
			return `{"companies": []}`, nil
		}
	}}
}

func greenCoSearcher() *fakeSearcher {
	return &fakeSearcher{name: "fake", results: map[string][]provider.SearchResult{
		greenCoQueries[0]: {{Title: "Top manufacturers", Link: "https://one.example", Snippet: "Acme Corp publishes..."}},
		greenCoQueries[1]: {{Title: "Reports", Link: "https://two.example", Snippet: "ACME CORP report"}},
		greenCoQueries[2]: {{Title: "List", Link: "https://three.example"}},
	}}
}

func TestRunProducesSingleLeadForCaseVariants(t *testing.T) {
	set := defaultPrompts(t)
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), &fakePlaces{})
	ctx := context.Background()

	summary, err := env.svc.Run(ctx, env.project, RunRequest{Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Queries) != 3 {
		t.Fatalf("expected 3 queries, got %v", summary.Queries)
	}
	if summary.Search.NewResults != 3 {
		t.Fatalf("expected 3 stored results, got %d", summary.Search.NewResults)
	}
	leads, _ := env.leads.FindByFilter(ctx, lead.LeadFilter{ProjectID: &env.project.ID}, nil)
	if len(leads) != 1 {
		t.Fatalf("expected exactly one lead, got %d", len(leads))
	}
	if leads[0].CompanyName != "Acme Corp" || leads[0].Source != lead.SourceDiscovered {
		t.Fatalf("unexpected lead %+v", leads[0])
	}
	if len(leads[0].Context) != 2 {
		t.Fatalf("expected both citations to be kept, got %+v", leads[0].Context)
	}
	if env.project.LeadsCollected != 1 || env.project.Status != project.ProjectStatusInProgress {
		t.Fatalf("expected project stats to be refreshed, got %+v", env.project)
	}
	statuses := env.searches.statuses()
	if statuses["https://one.example"] != ResultStatusProcessed || statuses["https://three.example"] != ResultStatusSkip {
		t.Fatalf("unexpected result statuses %v", statuses)
	}
}

func TestRunTwiceKeepsLeadsUnique(t *testing.T) {
	set := defaultPrompts(t)
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), &fakePlaces{})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := env.svc.Run(ctx, env.project, RunRequest{Count: 3}); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}
	count, _ := env.leads.Count(ctx, lead.LeadFilter{ProjectID: &env.project.ID})
	if count != 1 {
		t.Fatalf("expected one lead after two runs, got %d", count)
	}
}

func TestSearchReportsFailedQueries(t *testing.T) {
	set := defaultPrompts(t)
	searcher := greenCoSearcher()
	searcher.fail = map[string]bool{greenCoQueries[1]: true}
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), searcher, &fakePlaces{})

	summary, err := env.svc.Search(context.Background(), env.project, SearchRequest{Queries: greenCoQueries})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Queries != 3 || summary.Failed != 1 || summary.NewResults != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Outcomes[1].Error == "" {
		t.Fatalf("expected the failing query to carry its error")
	}
}

func TestSearchWithoutQueriesIsValidationError(t *testing.T) {
	set := defaultPrompts(t)
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), &fakePlaces{})
	_, err := env.svc.Search(context.Background(), env.project, SearchRequest{})
	if common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = env.svc.Search(context.Background(), env.project, SearchRequest{Queries: greenCoQueries, Provider: "bing"})
	if common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error for unknown provider, got %v", err)
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	set := defaultPrompts(t)
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), &fakePlaces{})
	ctx := context.Background()

	report, err := env.svc.Preview(ctx, PreviewRequest{Query: greenCoQueries[0]})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Candidates) != 1 || report.Candidates[0].Name != "Acme Corp" {
		t.Fatalf("unexpected candidates %+v", report.Candidates)
	}
	if report.Candidates[0].Contexts[0].Query != greenCoQueries[0] {
		t.Fatalf("expected the preview query in the citation")
	}
	count, _ := env.leads.Count(ctx, lead.LeadFilter{})
	results, _ := env.searches.CountResults(ctx, SearchResultFilter{})
	if count != 0 || results != 0 {
		t.Fatalf("expected nothing stored, got %d leads, %d results", count, results)
	}
}

func TestDiscoverPlacesCreatesPlaceLeads(t *testing.T) {
	set := defaultPrompts(t)
	places := &fakePlaces{places: []provider.Place{
		{PlaceID: "p1", Name: "Acme Corp", Address: "1 George St, Sydney"},
		{PlaceID: "p2", Name: "ACME CORP", Address: "2 George St, Sydney"},
		{PlaceID: "p3", Name: "Beta Ltd"},
	}}
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), places)
	ctx := context.Background()

	summary, err := env.svc.DiscoverPlaces(ctx, env.project, "manufacturers in Sydney")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Places != 3 || summary.LeadsCreated != 2 || summary.LeadsExisting != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if env.llm.callCount() != 0 {
		t.Fatalf("expected no model calls, got %d", env.llm.callCount())
	}
	leads, _ := env.leads.FindByFilter(ctx, lead.LeadFilter{ProjectID: &env.project.ID}, nil)
	if leads[0].Source != lead.SourcePlaces || leads[0].Attributes["address"] != "1 George St, Sydney" {
		t.Fatalf("unexpected place lead %+v", leads[0])
	}
	if !strings.HasSuffix(leads[0].Context[0].Link, "place_id:p1") {
		t.Fatalf("expected a maps link, got %q", leads[0].Context[0].Link)
	}
}

func TestGenerateQueriesPersists(t *testing.T) {
	set := defaultPrompts(t)
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), &fakePlaces{})
	ctx := context.Background()
	if _, err := env.svc.GenerateQueries(ctx, env.project, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := env.svc.FindQueries(ctx, env.project, nil)
	texts := make([]string, len(stored))
	for i, q := range stored {
		texts[i] = q.Text
	}
	if fmt.Sprint(texts) != fmt.Sprint(greenCoQueries) {
		t.Fatalf("expected stored queries %v, got %v", greenCoQueries, texts)
	}
}

func TestExtractLeavesResultsUnprocessedWhenLeadWriteFails(t *testing.T) {
	set := defaultPrompts(t)
	env := newTestEnv(t, greenCoLLM(set.QueryGeneration.System), greenCoSearcher(), &fakePlaces{})
	ctx := context.Background()
	if _, err := env.svc.Search(ctx, env.project, SearchRequest{Queries: greenCoQueries}); err != nil {
		t.Fatalf("search: %v", err)
	}

	flaky := &flakyLeadRepo{LeadRepository: env.leads, failures: 1}
	env.svc.leads = lead.NewService(flaky, leadtest.NewEnrichmentResultRepository())

	if _, err := env.svc.Extract(ctx, env.project, 0); err == nil {
		t.Fatalf("expected the failed lead write to surface")
	}
	for link, status := range env.searches.statuses() {
		if status != ResultStatusUnprocessed {
			t.Fatalf("result %s: expected unprocessed after failed write, got %s", link, status)
		}
	}

	summary, err := env.svc.Extract(ctx, env.project, 0)
	if err != nil {
		t.Fatalf("retry: unexpected error: %v", err)
	}
	if summary.LeadsCreated != 1 {
		t.Fatalf("expected retry to create the lead, got %+v", summary)
	}
	leads, _ := env.leads.FindByFilter(ctx, lead.LeadFilter{ProjectID: &env.project.ID}, nil)
	if len(leads) != 1 || leads[0].CompanyName != "Acme Corp" {
		t.Fatalf("unexpected leads %+v", leads)
	}
	if env.searches.statuses()["https://one.example"] != ResultStatusProcessed {
		t.Fatalf("expected results processed after retry, got %v", env.searches.statuses())
	}
}
