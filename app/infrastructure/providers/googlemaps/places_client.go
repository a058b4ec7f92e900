package googlemaps

import (
	"context"
	"fmt"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"
	clientName     = "GoogleMapsClient"
)

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		FormattedAddress string   `json:"formatted_address"`
		Vicinity         string   `json:"vicinity"`
		Types            []string `json:"types"`
		Rating           float64  `json:"rating"`
	} `json:"results"`
}

// Client runs Places text searches.
type Client struct {
	apiKey string
	region string
	gate   *provider.Gate
	client *resty.Client
}

var _ provider.PlaceSearcher = (*Client)(nil)

func New(apiKey string, region string, gate *provider.Gate, client *resty.Client) *Client {
	return &Client{apiKey: apiKey, region: region, gate: gate, client: client}
}

func (c *Client) SearchPlaces(ctx context.Context, query string) ([]provider.Place, error) {
	if c.apiKey == "" {
		return nil, common.NewConfigurationError("7e6d5c4b-3a29-4180-9f8e-7d6c5b4a3928", "GOOGLE_MAPS_API_KEY is not set")
	}
	params := map[string]string{
		"query": query,
		"key":   c.apiKey,
	}
	if c.region != "" {
		params["region"] = c.region
	}
	return provider.Call(ctx, c.gate, func(ctx context.Context) ([]provider.Place, error) {
		var out textSearchResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&out).
			Get("/maps/api/place/textsearch/json")
		if err := httpclients.CheckResponse(clientName, resp, err); err != nil {
			return nil, err
		}
		if err := statusError(out.Status, out.ErrorMessage); err != nil {
			return nil, err
		}
		places := make([]provider.Place, 0, len(out.Results))
		for _, r := range out.Results {
			address := r.FormattedAddress
			if address == "" {
				address = r.Vicinity
			}
			places = append(places, provider.Place{
				PlaceID: r.PlaceID,
				Name:    r.Name,
				Address: address,
				Types:   r.Types,
				Rating:  r.Rating,
			})
		}
		return places, nil
	})
}

// statusError maps the Places API status field. The API answers 200 even
// when the request is rejected.
func statusError(status string, message string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	case "REQUEST_DENIED":
		return common.NewConfigurationError("2b3c4d5e-6f70-4812-9a3b-4c5d6e7f8091", "google maps denied the request: %s", message)
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return common.NewProviderError(fmt.Errorf("google maps returned %s: %s", status, message), "91a2b3c4-d5e6-4f70-8192-a3b4c5d6e7f8")
	default:
		return common.NewError(fmt.Errorf("google maps returned %s: %s", status, message), "0a1b2c3d-4e5f-4607-8819-2a3b4c5d6e7f")
	}
}
