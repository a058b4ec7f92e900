package jina

import (
	"context"
	"strings"

	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const removeSelector = "header, footer, nav, aside, .subscribe, .paywall, .related, .comments, .share, .advertisement"

// Reader renders a page to Markdown through r.jina.ai.
type Reader struct {
	apiKey string
	gate   *provider.Gate
	client *resty.Client
}

var _ provider.ContentFetcher = (*Reader)(nil)

func NewReader(apiKey string, gate *provider.Gate, client *resty.Client) *Reader {
	return &Reader{apiKey: apiKey, gate: gate, client: client}
}

func (r *Reader) Fetch(ctx context.Context, link string) (string, error) {
	if r.apiKey == "" {
		return "", missingKey()
	}
	return provider.Call(ctx, r.gate, func(ctx context.Context) (string, error) {
		resp, err := r.client.R().
			SetContext(ctx).
			SetAuthToken(r.apiKey).
			SetHeader("X-Md-Link-Style", "discarded").
			SetHeader("X-Remove-Selector", removeSelector).
			SetHeader("X-Retain-Images", "none").
			Get("/" + link)
		if err := httpclients.CheckResponse(readerClientName, resp, err); err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.String()), nil
	})
}
