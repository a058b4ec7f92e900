package serpapi

import (
	"context"
	"strconv"
	"strings"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/infrastructure/providers"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const (
	Name           = "serpapi"
	DefaultBaseURL = "https://serpapi.com"
	clientName     = "SerpAPIClient"
	maxResults     = 100
)

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Source   string `json:"source"`
	Date     string `json:"date"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
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

func (c *Client) params(req provider.SearchRequest) map[string]string {
	num := req.Num
	if num <= 0 || num > maxResults {
		num = maxResults
	}
	params := map[string]string{
		"engine":  "google",
		"q":       req.Query,
		"hl":      "en",
		"num":     strconv.Itoa(num),
		"start":   "0",
		"safe":    "active",
		"api_key": c.apiKey,
	}
	if req.Location != "" {
		params["location"] = req.Location
	}
	if req.Country != "" {
		params["gl"] = strings.ToLower(req.Country)
		params["google_domain"] = googleDomain(req.Country)
	}
	return params
}

func googleDomain(country string) string {
	switch strings.ToLower(country) {
	case "au":
		return "google.com.au"
	case "uk", "gb":
		return "google.co.uk"
	case "nz":
		return "google.co.nz"
	default:
		return "google.com"
	}
}

// Search returns Google organic results. SerpAPI reports an empty result
// page as an error message with a 200 status, which maps to no results.
func (c *Client) Search(ctx context.Context, req provider.SearchRequest) ([]provider.SearchResult, error) {
	if c.apiKey == "" {
		return nil, common.NewConfigurationError("f0e1d2c3-b4a5-4968-8776-5a4b3c2d1e0f", "SERP_API_KEY is not set")
	}
	params := c.params(req)
	return provider.Call(ctx, c.gate, func(ctx context.Context) ([]provider.SearchResult, error) {
		var out searchResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&out).
			Get("/search.json")
		if err := httpclients.CheckResponse(clientName, resp, err); err != nil {
			return nil, err
		}
		results := make([]provider.SearchResult, 0, len(out.OrganicResults))
		for _, r := range out.OrganicResults {
			if r.Link == "" {
				continue
			}
			results = append(results, provider.SearchResult{
				Query:       req.Query,
				Provider:    Name,
				Title:       r.Title,
				Link:        r.Link,
				Snippet:     r.Snippet,
				Source:      r.Source,
				PublishedAt: providers.ParseDate(r.Date),
			})
		}
		return results, nil
	})
}
