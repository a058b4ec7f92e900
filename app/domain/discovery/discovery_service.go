package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

const (
	DefaultResultsPerQuery = 10
	MaxResultsPerQuery     = 100
	DefaultExtractBatch    = 50
)

type Settings struct {
	DefaultProvider string
	Location        string
	Country         string
	Workers         int
}

type DiscoveryService struct {
	projects  *project.ProjectService
	leads     *lead.LeadService
	searches  SearchRepository
	generator *QueryGenerator
	extractor *Extractor
	registry  *provider.SearchRegistry
	places    provider.PlaceSearcher
	fetcher   provider.ContentFetcher
	settings  Settings
}

func NewService(
	projects *project.ProjectService,
	leads *lead.LeadService,
	searches SearchRepository,
	generator *QueryGenerator,
	extractor *Extractor,
	registry *provider.SearchRegistry,
	places provider.PlaceSearcher,
	fetcher provider.ContentFetcher,
	settings Settings,
) *DiscoveryService {
	if settings.Workers < 1 {
		settings.Workers = DefaultExtractionWorkers
	}
	return &DiscoveryService{
		projects:  projects,
		leads:     leads,
		searches:  searches,
		generator: generator,
		extractor: extractor,
		registry:  registry,
		places:    places,
		fetcher:   fetcher,
		settings:  settings,
	}
}

// GenerateQueries asks the model for n queries and stores them on the project.
func (s *DiscoveryService) GenerateQueries(ctx context.Context, p *project.Project, n int) ([]*SearchQuery, error) {
	texts, err := s.generator.Generate(ctx, p.GoalDescription, n)
	if err != nil {
		return nil, err
	}
	queries := make([]*SearchQuery, 0, len(texts))
	for _, text := range texts {
		queries = append(queries, &SearchQuery{ProjectID: p.ID, Text: text})
	}
	if err := s.searches.CreateQueries(ctx, queries); err != nil {
		return nil, fmt.Errorf("failed to store queries: %w", err)
	}
	if err := s.projects.MarkInProgress(ctx, p); err != nil {
		return nil, err
	}
	return queries, nil
}

func (s *DiscoveryService) FindQueries(ctx context.Context, p *project.Project, pagination *query.Pagination) ([]*SearchQuery, error) {
	return s.searches.FindQueries(ctx, p.ID, pagination)
}

func (s *DiscoveryService) CountQueries(ctx context.Context, p *project.Project) (int64, error) {
	return s.searches.CountQueries(ctx, p.ID)
}

type SearchRequest struct {
	Queries  []string
	Provider string
	Num      int
}

type QueryOutcome struct {
	Query   string
	Results int
	Error   string
}

type SearchSummary struct {
	Provider   string
	Queries    int
	Failed     int
	Results    int
	NewResults int
	Outcomes   []QueryOutcome
}

func (s *DiscoveryService) searcher(name string) (provider.Searcher, error) {
	if strings.TrimSpace(name) == "" {
		name = s.settings.DefaultProvider
	}
	return s.registry.Get(name)
}

func (s *DiscoveryService) resultsPerQuery(num int) (int, error) {
	if num == 0 {
		return DefaultResultsPerQuery, nil
	}
	if num < 1 || num > MaxResultsPerQuery {
		return 0, common.NewValidationError("4d6f8a0c-2e4a-4c6e-8a0c-2e4a6c8e0a2c", "num must be between 1 and %d", MaxResultsPerQuery)
	}
	return num, nil
}

// Search runs each query against one provider and stores new hits.
// A failing query is reported and the rest still run.
func (s *DiscoveryService) Search(ctx context.Context, p *project.Project, req SearchRequest) (*SearchSummary, error) {
	searcher, err := s.searcher(req.Provider)
	if err != nil {
		return nil, err
	}
	num, err := s.resultsPerQuery(req.Num)
	if err != nil {
		return nil, err
	}
	texts := req.Queries
	if len(texts) == 0 {
		stored, err := s.searches.FindQueries(ctx, p.ID, nil)
		if err != nil {
			return nil, err
		}
		for _, q := range stored {
			texts = append(texts, q.Text)
		}
	}
	if len(texts) == 0 {
		return nil, common.NewValidationError("8f0a2c4e-6a8c-4e0a-a2c4-e6a8c0e2a4c6", "no queries to search, generate queries first")
	}

	summary := &SearchSummary{Provider: searcher.Name(), Outcomes: []QueryOutcome{}}
	for _, text := range texts {
		if ctx.Err() != nil {
			break
		}
		summary.Queries++
		outcome := QueryOutcome{Query: text}
		hits, err := searcher.Search(ctx, provider.SearchRequest{
			Query:    text,
			Num:      num,
			Location: s.settings.Location,
			Country:  s.settings.Country,
		})
		if err != nil {
			if common.KindOf(err) == common.KindConfiguration {
				return nil, err
			}
			summary.Failed++
			outcome.Error = err.Error()
			summary.Outcomes = append(summary.Outcomes, outcome)
			logger.GetLogger().WithFields(logrus.Fields{
				"project_id": p.PublicID,
				"provider":   searcher.Name(),
			}).Warnf("search failed for query %q: %v", text, err)
			continue
		}
		stored := make([]*StoredResult, 0, len(hits))
		for _, hit := range hits {
			if hit.Link == "" {
				continue
			}
			stored = append(stored, &StoredResult{
				ProjectID: p.ID,
				Query:     text,
				Provider:  searcher.Name(),
				Title:     hit.Title,
				Link:      hit.Link,
				Snippet:   hit.Snippet,
				Source:    hit.Source,
				Status:    ResultStatusUnprocessed,
				Content:   hit.Content,
			})
		}
		inserted, err := s.searches.SaveResults(ctx, stored)
		if err != nil {
			return nil, fmt.Errorf("failed to store search results: %w", err)
		}
		outcome.Results = len(stored)
		summary.Results += len(stored)
		summary.NewResults += inserted
		summary.Outcomes = append(summary.Outcomes, outcome)
	}
	if err := s.projects.MarkInProgress(ctx, p); err != nil {
		return nil, err
	}
	return summary, nil
}

type ExtractSummary struct {
	Report        *ExtractionReport
	LeadsCreated  int
	LeadsExisting int
}

// Extract processes stored results that have not been processed yet, adds
// the candidates as discovered leads and then updates the result status.
func (s *DiscoveryService) Extract(ctx context.Context, p *project.Project, limit int) (*ExtractSummary, error) {
	if limit <= 0 {
		limit = DefaultExtractBatch
	}
	status := string(ResultStatusUnprocessed)
	stored, err := s.searches.FindResults(ctx, SearchResultFilter{ProjectID: &p.ID, Status: &status}, &query.Pagination{Limit: &limit, Order: "asc"})
	if err != nil {
		return nil, err
	}
	hits := make([]provider.SearchResult, len(stored))
	for i, r := range stored {
		hits[i] = provider.SearchResult{
			Query:    r.Query,
			Provider: r.Provider,
			Title:    r.Title,
			Link:     r.Link,
			Snippet:  r.Snippet,
			Source:   r.Source,
			Content:  r.Content,
		}
	}
	s.scrape(ctx, hits)
	report := s.extractor.Extract(ctx, hits)

	// leads are written before results leave the unprocessed state so a
	// failed write is retried by the next run
	writeCtx := context.WithoutCancel(ctx)
	added, err := s.leads.AddLeads(writeCtx, p.ID, candidatesToLeads(report.Candidates, lead.SourceDiscovered))
	if err != nil {
		return nil, err
	}
	for i, outcome := range report.Outcomes {
		if ctx.Err() != nil && outcome.Status == ResultStatusFailed {
			// left unprocessed so a later run picks it up
			continue
		}
		stored[i].Status = outcome.Status
		stored[i].Content = hits[i].Content
		if err := s.searches.UpdateResult(writeCtx, stored[i]); err != nil {
			return nil, fmt.Errorf("failed to update search result: %w", err)
		}
	}
	if err := s.projects.RefreshStats(ctx, p); err != nil {
		return nil, err
	}
	return &ExtractSummary{Report: report, LeadsCreated: len(added.Created), LeadsExisting: len(added.Existing)}, nil
}

// scrape fills missing page content. Failures leave the snippet as the only text.
func (s *DiscoveryService) scrape(ctx context.Context, hits []provider.SearchResult) {
	if s.fetcher == nil {
		return
	}
	g := errgroup.Group{}
	g.SetLimit(s.settings.Workers)
	for i := range hits {
		if hits[i].Content != "" || hits[i].Link == "" {
			continue
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			content, err := s.fetcher.Fetch(ctx, hits[i].Link)
			if err != nil {
				logger.GetLogger().Warnf("content fetch failed for %s: %v", hits[i].Link, err)
				return nil
			}
			hits[i].Content = content
			return nil
		})
	}
	_ = g.Wait()
}

func candidatesToLeads(candidates []Candidate, source lead.Source) []lead.NewLead {
	out := make([]lead.NewLead, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, lead.NewLead{CompanyName: c.Name, Source: source, Context: c.Contexts})
	}
	return out
}

type RunRequest struct {
	Count    int
	Provider string
	Num      int
}

type RunSummary struct {
	Queries []string
	Search  *SearchSummary
	Extract *ExtractSummary
}

// Run generates queries, searches them and extracts leads in sequence.
func (s *DiscoveryService) Run(ctx context.Context, p *project.Project, req RunRequest) (*RunSummary, error) {
	queries, err := s.GenerateQueries(ctx, p, req.Count)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(queries))
	for i, q := range queries {
		texts[i] = q.Text
	}
	searchSummary, err := s.Search(ctx, p, SearchRequest{Queries: texts, Provider: req.Provider, Num: req.Num})
	if err != nil {
		return nil, err
	}
	// everything unprocessed from this run, in batches
	limit := searchSummary.Results
	if limit < DefaultExtractBatch {
		limit = DefaultExtractBatch
	}
	extractSummary, err := s.Extract(ctx, p, limit)
	if err != nil {
		return nil, err
	}
	return &RunSummary{Queries: texts, Search: searchSummary, Extract: extractSummary}, nil
}

type PreviewRequest struct {
	Query    string
	Provider string
	Num      int
}

// Preview searches and extracts without storing anything.
func (s *DiscoveryService) Preview(ctx context.Context, req PreviewRequest) (*ExtractionReport, error) {
	text := strings.TrimSpace(req.Query)
	if text == "" {
		return nil, common.NewValidationError("0a2c4e6a-8c0e-4a2c-8e6a-0c2e4a6c8e0a", "query is required")
	}
	searcher, err := s.searcher(req.Provider)
	if err != nil {
		return nil, err
	}
	num, err := s.resultsPerQuery(req.Num)
	if err != nil {
		return nil, err
	}
	hits, err := searcher.Search(ctx, provider.SearchRequest{
		Query:    text,
		Num:      num,
		Location: s.settings.Location,
		Country:  s.settings.Country,
	})
	if err != nil {
		return nil, err
	}
	for i := range hits {
		hits[i].Query = text
	}
	s.scrape(ctx, hits)
	return s.extractor.Extract(ctx, hits), nil
}

type PlacesSummary struct {
	Query         string
	Places        int
	LeadsCreated  int
	LeadsExisting int
}

// DiscoverPlaces turns a place text search into leads without a model call.
func (s *DiscoveryService) DiscoverPlaces(ctx context.Context, p *project.Project, text string) (*PlacesSummary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewValidationError("0a2c4e6a-8c0e-4a2c-8e6a-0c2e4a6c8e0a", "query is required")
	}
	places, err := s.places.SearchPlaces(ctx, text)
	if err != nil {
		return nil, err
	}
	candidates := make([]lead.NewLead, 0, len(places))
	for _, place := range places {
		attrs := map[string]string{}
		if place.Address != "" {
			attrs["address"] = place.Address
		}
		candidates = append(candidates, lead.NewLead{
			CompanyName: place.Name,
			Source:      lead.SourcePlaces,
			Attributes:  attrs,
			Context: []lead.Citation{{
				Query:   text,
				Title:   place.Name,
				Link:    placeLink(place.PlaceID),
				Snippet: place.Address,
			}},
		})
	}
	added, err := s.leads.AddLeads(ctx, p.ID, candidates)
	if err != nil {
		return nil, err
	}
	if err := s.projects.MarkInProgress(ctx, p); err != nil {
		return nil, err
	}
	if err := s.projects.RefreshStats(ctx, p); err != nil {
		return nil, err
	}
	return &PlacesSummary{Query: text, Places: len(places), LeadsCreated: len(added.Created), LeadsExisting: len(added.Existing)}, nil
}

func placeLink(placeID string) string {
	if placeID == "" {
		return ""
	}
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}
