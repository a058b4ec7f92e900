package webpage

import (
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const (
	clientName    = "WebpageClient"
	userAgent     = "Mozilla/5.0 (compatible; leadgen-api/1.0)"
	noiseSelector = "script, style, noscript, template, iframe, svg, form, nav, header, footer, aside"
)

// Fetcher downloads a page directly and converts its main HTML to Markdown.
type Fetcher struct {
	gate      *provider.Gate
	client    *resty.Client
	policy    *bluemonday.Policy
	converter *converter.Converter
}

var _ provider.ContentFetcher = (*Fetcher)(nil)

func New(gate *provider.Gate, client *resty.Client) *Fetcher {
	return &Fetcher{
		gate:   gate,
		client: client,
		policy: bluemonday.UGCPolicy(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, link string) (string, error) {
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return "", common.NewValidationError("5d4c3b2a-1908-4f7e-8d6c-5b4a39281706", "unsupported url %q", link)
	}
	return provider.Call(ctx, f.gate, func(ctx context.Context) (string, error) {
		resp, err := f.client.R().
			SetContext(ctx).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9").
			Get(link)
		if err := httpclients.CheckResponse(clientName, resp, err); err != nil {
			return "", err
		}
		body := resp.String()
		contentType := resp.Header().Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "html") {
			if strings.HasPrefix(contentType, "text/") {
				return strings.TrimSpace(body), nil
			}
			return "", common.NewError(fmt.Errorf("unsupported content type %s for %s", contentType, link), "e8f7a6b5-c4d3-4e2f-9102-a3b4c5d6e7f8")
		}
		return f.ToMarkdown(body, link)
	})
}

// ToMarkdown strips page chrome, sanitizes the remaining HTML and renders
// it as Markdown headed by the page title. Plain text is used when the
// conversion yields nothing.
func (f *Fetcher) ToMarkdown(html string, link string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", common.NewParseError(fmt.Errorf("parse html from %s: %w", link, err), "4a5b6c7d-8e9f-4a0b-9c1d-2e3f4a5b6c7d")
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(noiseSelector).Remove()

	root := doc.Find("main").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}
	inner, err := root.Html()
	if err != nil {
		return "", common.NewParseError(fmt.Errorf("render html from %s: %w", link, err), "6b7c8d9e-0f1a-4b2c-8d3e-4f5a6b7c8d9e")
	}

	markdown, err := f.converter.ConvertString(f.policy.Sanitize(inner), converter.WithDomain(link))
	if err != nil || strings.TrimSpace(markdown) == "" {
		markdown = strings.Join(strings.Fields(root.Text()), " ")
	}
	markdown = strings.TrimSpace(markdown)
	if title != "" && !strings.HasPrefix(markdown, "# ") {
		markdown = "# " + title + "\n\n" + markdown
	}
	return markdown, nil
}
