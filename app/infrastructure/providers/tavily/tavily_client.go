package tavily

import (
	"context"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/infrastructure/providers"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const (
	Name           = "tavily"
	DefaultBaseURL = "https://api.tavily.com"
	clientName     = "TavilyClient"
	maxResults     = 20
)

type searchRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results,omitempty"`
	SearchDepth       string `json:"search_depth"`
	Topic             string `json:"topic"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		RawContent    string  `json:"raw_content"`
		PublishedDate string  `json:"published_date"`
		Score         float64 `json:"score"`
	} `json:"results"`
}

type Client struct {
	apiKey string
	gate   *provider.Gate
	client *resty.Client
}

var _ provider.Searcher = (*Client)(nil)

func New(apiKey string, gate *provider.Gate, client *resty.Client) *Client {
	return &Client{apiKey: apiKey, gate: gate, client: client}
}

func (c *Client) Name() string {
	return Name
}

// Search asks Tavily for results and their raw page content, which saves a
// separate fetch during extraction.
func (c *Client) Search(ctx context.Context, req provider.SearchRequest) ([]provider.SearchResult, error) {
	if c.apiKey == "" {
		return nil, common.NewConfigurationError("c5d8e1f4-2a7b-4c3d-9e6f-0b1a2c3d4e5f", "TAVILY_API_KEY is not set")
	}
	num := req.Num
	if num <= 0 || num > maxResults {
		num = maxResults
	}
	body := searchRequest{
		Query:             req.Query,
		MaxResults:        num,
		SearchDepth:       "basic",
		Topic:             "general",
		IncludeRawContent: true,
	}
	return provider.Call(ctx, c.gate, func(ctx context.Context) ([]provider.SearchResult, error) {
		var out searchResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetAuthToken(c.apiKey).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			SetResult(&out).
			Post("/search")
		if err := httpclients.CheckResponse(clientName, resp, err); err != nil {
			return nil, err
		}
		results := make([]provider.SearchResult, 0, len(out.Results))
		for _, r := range out.Results {
			results = append(results, provider.SearchResult{
				Query:       req.Query,
				Provider:    Name,
				Title:       r.Title,
				Link:        r.URL,
				Snippet:     r.Content,
				PublishedAt: providers.ParseDate(r.PublishedDate),
				Content:     r.RawContent,
			})
		}
		return results, nil
	})
}
