package jina

import (
	"context"
	"strings"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/infrastructure/providers"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const (
	Name                 = "jina"
	DefaultSearchBaseURL = "https://s.jina.ai"
	DefaultReaderBaseURL = "https://r.jina.ai"
	searchClientName     = "JinaSearchClient"
	readerClientName     = "JinaReaderClient"
)

type searchResponse struct {
	Code int `json:"code"`
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Content     string `json:"content"`
	} `json:"data"`
}

func missingKey() error {
	return common.NewConfigurationError("a9b8c7d6-e5f4-4a3b-8c2d-1e0f9a8b7c6d", "JINA_API_KEY is not set")
}

// Searcher queries s.jina.ai for titles, descriptions and dates only.
type Searcher struct {
	apiKey string
	gate   *provider.Gate
	client *resty.Client
}

var _ provider.Searcher = (*Searcher)(nil)

func NewSearcher(apiKey string, gate *provider.Gate, client *resty.Client) *Searcher {
	return &Searcher{apiKey: apiKey, gate: gate, client: client}
}

func (s *Searcher) Name() string {
	return Name
}

func (s *Searcher) Search(ctx context.Context, req provider.SearchRequest) ([]provider.SearchResult, error) {
	if s.apiKey == "" {
		return nil, missingKey()
	}
	params := map[string]string{
		"q":  req.Query,
		"hl": "en",
	}
	if req.Country != "" {
		params["gl"] = strings.ToUpper(req.Country)
	}
	if req.Location != "" {
		params["location"] = strings.TrimSpace(strings.Split(req.Location, ",")[0])
	}
	return provider.Call(ctx, s.gate, func(ctx context.Context) ([]provider.SearchResult, error) {
		var out searchResponse
		resp, err := s.client.R().
			SetContext(ctx).
			SetAuthToken(s.apiKey).
			SetHeader("Accept", "application/json").
			SetHeader("X-Respond-With", "no-content").
			SetQueryParams(params).
			SetResult(&out).
			Get("/")
		if err := httpclients.CheckResponse(searchClientName, resp, err); err != nil {
			return nil, err
		}
		results := make([]provider.SearchResult, 0, len(out.Data))
		for _, d := range out.Data {
			results = append(results, provider.SearchResult{
				Query:       req.Query,
				Provider:    Name,
				Title:       d.Title,
				Link:        d.URL,
				Snippet:     d.Description,
				PublishedAt: providers.ParseDate(d.Date),
				Content:     d.Content,
			})
			if req.Num > 0 && len(results) == req.Num {
				break
			}
		}
		return results, nil
	})
}
