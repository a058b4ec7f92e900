package discovery

import (
	"leadgen.ai/leadgen-api/app/domain/discovery"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

type SearchQueryResponse struct {
	ID        uint   `json:"id"`
	Object    string `json:"object"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

func DomainToSearchQueryResponse(q *discovery.SearchQuery) SearchQueryResponse {
	return SearchQueryResponse{
		ID:        q.ID,
		Object:    "search_query",
		Text:      q.Text,
		CreatedAt: q.CreatedAt.Unix(),
	}
}

type CitationResponse struct {
	Query   string `json:"query,omitempty"`
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

func DomainToCitationResponse(c lead.Citation) CitationResponse {
	return CitationResponse{Query: c.Query, Title: c.Title, Link: c.Link, Snippet: c.Snippet}
}

type CandidateResponse struct {
	Name     string             `json:"name"`
	Contexts []CitationResponse `json:"contexts"`
}

type ResultOutcomeResponse struct {
	Link      string   `json:"link"`
	Status    string   `json:"status"`
	Names     []string `json:"names"`
	Discarded int      `json:"discarded"`
	Error     string   `json:"error,omitempty"`
}

type ExtractionReportResponse struct {
	Attempted  int                     `json:"attempted"`
	Extracted  int                     `json:"extracted"`
	Failed     int                     `json:"failed"`
	Discarded  int                     `json:"discarded"`
	Candidates []CandidateResponse     `json:"candidates"`
	Outcomes   []ResultOutcomeResponse `json:"outcomes"`
}

func DomainToExtractionReportResponse(r *discovery.ExtractionReport) ExtractionReportResponse {
	resp := ExtractionReportResponse{
		Attempted:  r.Attempted,
		Extracted:  r.Extracted,
		Failed:     r.Failed,
		Discarded:  r.Discarded,
		Candidates: []CandidateResponse{},
		Outcomes:   []ResultOutcomeResponse{},
	}
	for _, c := range r.Candidates {
		resp.Candidates = append(resp.Candidates, CandidateResponse{
			Name:     c.Name,
			Contexts: functional.Map(c.Contexts, DomainToCitationResponse),
		})
	}
	for _, o := range r.Outcomes {
		names := o.Names
		if names == nil {
			names = []string{}
		}
		resp.Outcomes = append(resp.Outcomes, ResultOutcomeResponse{
			Link:      o.Link,
			Status:    string(o.Status),
			Names:     names,
			Discarded: o.Discarded,
			Error:     o.Error,
		})
	}
	return resp
}

type QueryOutcomeResponse struct {
	Query   string `json:"query"`
	Results int    `json:"results"`
	Error   string `json:"error,omitempty"`
}

type SearchSummaryResponse struct {
	Object     string                 `json:"object"`
	Provider   string                 `json:"provider"`
	Queries    int                    `json:"queries"`
	Failed     int                    `json:"failed"`
	Results    int                    `json:"results"`
	NewResults int                    `json:"new_results"`
	Outcomes   []QueryOutcomeResponse `json:"outcomes"`
}

func domainToSearchSummaryResponse(s *discovery.SearchSummary) SearchSummaryResponse {
	return SearchSummaryResponse{
		Object:     "discovery.search",
		Provider:   s.Provider,
		Queries:    s.Queries,
		Failed:     s.Failed,
		Results:    s.Results,
		NewResults: s.NewResults,
		Outcomes: functional.Map(s.Outcomes, func(o discovery.QueryOutcome) QueryOutcomeResponse {
			return QueryOutcomeResponse{Query: o.Query, Results: o.Results, Error: o.Error}
		}),
	}
}

type ExtractSummaryResponse struct {
	Object        string                   `json:"object"`
	LeadsCreated  int                      `json:"leads_created"`
	LeadsExisting int                      `json:"leads_existing"`
	Report        ExtractionReportResponse `json:"report"`
}

func domainToExtractSummaryResponse(s *discovery.ExtractSummary) ExtractSummaryResponse {
	return ExtractSummaryResponse{
		Object:        "discovery.extract",
		LeadsCreated:  s.LeadsCreated,
		LeadsExisting: s.LeadsExisting,
		Report:        DomainToExtractionReportResponse(s.Report),
	}
}

type RunSummaryResponse struct {
	Object  string                 `json:"object"`
	Queries []string               `json:"queries"`
	Search  SearchSummaryResponse  `json:"search"`
	Extract ExtractSummaryResponse `json:"extract"`
}

type PlacesSummaryResponse struct {
	Object        string `json:"object"`
	Query         string `json:"query"`
	Places        int    `json:"places"`
	LeadsCreated  int    `json:"leads_created"`
	LeadsExisting int    `json:"leads_existing"`
}
