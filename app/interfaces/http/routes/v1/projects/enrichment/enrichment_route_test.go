package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/enrichment"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/lead/leadtest"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/prompts"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	leadsroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/leads"
)

// companySearcher only finds content for companies it knows about.
type companySearcher struct {
	known map[string]provider.SearchResult
}

func (s *companySearcher) Name() string { return "jina" }

func (s *companySearcher) Search(ctx context.Context, req provider.SearchRequest) ([]provider.SearchResult, error) {
	for company, hit := range s.known {
		if strings.HasPrefix(req.Query, company) {
			return []provider.SearchResult{hit}, nil
		}
	}
	return nil, nil
}

type answerLLM struct{}

func (answerLLM) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	return `{"value": "yes", "confidence": 0.9, "citation": "our 2023 sustainability report", "source_url": "https://acme.example/esg"}`, nil
}

type fixture struct {
	route   *EnrichmentRoute
	leads   *lead.LeadService
	project *project.Project
	byName  map[string]*lead.Lead
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	set, err := prompts.Default()
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	searcher := &companySearcher{known: map[string]provider.SearchResult{
		"Acme Corp": {Title: "Acme ESG", Link: "https://acme.example/esg", Snippet: "Acme publishes a yearly sustainability report"},
	}}
	enricher := enrichment.NewEnricher(provider.NewSearchRegistry(searcher), nil, answerLLM{}, set, enrichment.Settings{DefaultProvider: "jina"})
	leadSvc, _, _ := leadtest.NewService()
	p := &project.Project{ID: 7, PublicID: "proj_test", Name: "GreenCo Outreach"}
	added, err := leadSvc.AddLeads(context.Background(), p.ID, []lead.NewLead{
		{CompanyName: "Acme Corp", Source: lead.SourceDiscovered},
		{CompanyName: "Globex", Source: lead.SourceDiscovered},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	byName := map[string]*lead.Lead{}
	for _, l := range added.Created {
		byName[l.CompanyName] = l
	}
	return &fixture{
		route:   NewEnrichmentRoute(enrichment.NewService(enricher, leadSvc, 2), leadSvc),
		leads:   leadSvc,
		project: p,
		byName:  byName,
	}
}

func (f *fixture) post(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/projects/proj_test/enrichment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	middleware.SetProject(c, f.project)
	return c, w
}

const esgBody = `{"attribute": "sustainability_report", "description": "published sustainability report"}`

func TestEnrichLeadRecordsValue(t *testing.T) {
	f := newFixture(t)
	acme := f.byName["Acme Corp"]
	c, w := f.post(esgBody)
	c.Params = gin.Params{{Key: leadsroute.LeadPathParam, Value: acme.PublicID}}

	f.route.EnrichLead(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body leadsroute.EnrichmentResultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Value != "yes" || body.Confidence != "0.90" || body.SourceURL != "https://acme.example/esg" {
		t.Fatalf("unexpected result: %+v", body)
	}
	stored, _ := f.leads.GetProjectLead(context.Background(), f.project.ID, acme.PublicID)
	if stored.Attributes["sustainability_report"] != "yes" {
		t.Fatalf("attribute not applied: %+v", stored.Attributes)
	}
}

func TestEnrichLeadWithoutContentIsUnknown(t *testing.T) {
	f := newFixture(t)
	globex := f.byName["Globex"]
	c, w := f.post(esgBody)
	c.Params = gin.Params{{Key: leadsroute.LeadPathParam, Value: globex.PublicID}}

	f.route.EnrichLead(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body leadsroute.EnrichmentResultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Value != lead.UnknownValue || body.Status != string(lead.EnrichmentStatusUnknown) {
		t.Fatalf("expected unknown, got %+v", body)
	}
}

func TestEnrichLeadValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		body string
		lead string
		want int
	}{
		{name: "missing description", body: `{"attribute": "x"}`, lead: f.byName["Globex"].PublicID, want: http.StatusBadRequest},
		{name: "bad since", body: `{"attribute": "x", "description": "y", "since": "last year"}`, lead: f.byName["Globex"].PublicID, want: http.StatusBadRequest},
		{name: "unknown lead", body: esgBody, lead: "lead_missing", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := f.post(tt.body)
			c.Params = gin.Params{{Key: leadsroute.LeadPathParam, Value: tt.lead}}
			f.route.EnrichLead(c)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestEnrichLeadsSummarizes(t *testing.T) {
	f := newFixture(t)
	c, w := f.post(`{"attribute": "sustainability_report", "description": "published sustainability report", "since": "2020-01-01"}`)

	f.route.EnrichLeads(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body BatchSummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// the searcher returns undated hits, which the since filter drops
	if body.Total != 2 || body.Unknown != 2 || body.Failed != 0 || len(body.Outcomes) != 2 {
		t.Fatalf("unexpected summary: %+v", body)
	}
}

func TestEnrichLeadsOnlyMissing(t *testing.T) {
	f := newFixture(t)
	acme := f.byName["Acme Corp"]
	acme.Attributes["sustainability_report"] = "no"
	if err := f.leads.UpdateLead(context.Background(), acme); err != nil {
		t.Fatalf("update: %v", err)
	}
	c, w := f.post(`{"attribute": "sustainability_report", "description": "published sustainability report", "only_missing": true}`)

	f.route.EnrichLeads(c)

	var body BatchSummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Outcomes[0].Company != "Globex" {
		t.Fatalf("expected only Globex, got %+v", body)
	}
}
