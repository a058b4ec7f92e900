package enrichment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/prompts"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

const (
	searchResultCount = 5
	// content beyond this many bytes is not sent to the model
	maxSourceBytes = 8000
)

type AttributeSpec struct {
	Name        string
	Description string
	// Since drops search results published before this date, and undated ones.
	Since *time.Time
	// Provider overrides the configured enrichment search provider.
	Provider string
}

func (s AttributeSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return common.NewValidationError("d4f6a8c0-e2a4-4c6e-8a0c-e2a4c6e8a0c2", "attribute name is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return common.NewValidationError("e6a8c0e2-a4c6-4e8a-8c0e-2a4c6e8a0c2e", "attribute description is required")
	}
	return nil
}

type Settings struct {
	DefaultProvider string
	Location        string
	Country         string
}

type Enricher struct {
	registry *provider.SearchRegistry
	fetcher  provider.ContentFetcher
	llm      provider.LanguageModel
	prompt   prompts.Prompt
	settings Settings
}

func NewEnricher(registry *provider.SearchRegistry, fetcher provider.ContentFetcher, llm provider.LanguageModel, set *prompts.Set, settings Settings) *Enricher {
	return &Enricher{
		registry: registry,
		fetcher:  fetcher,
		llm:      llm,
		prompt:   set.Enrichment,
		settings: settings,
	}
}

type source struct {
	Title string
	Link  string
	Text  string
}

type enrichmentPromptData struct {
	Company     string
	Attribute   string
	Description string
	Sources     []source
}

type modelAnswer struct {
	Value      any    `json:"value"`
	Confidence any    `json:"confidence"`
	Citation   string `json:"citation"`
	SourceURL  string `json:"source_url"`
	Reasoning  string `json:"reasoning"`
}

// Enrich derives one attribute value for a company. When nothing can be
// retrieved the result is "unknown" and no error is returned.
func (e *Enricher) Enrich(ctx context.Context, company string, spec AttributeSpec) (*lead.EnrichmentResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	company = lead.CleanDisplayName(company)
	if company == "" {
		return nil, common.NewValidationError("f8c0e2a4-c6e8-4a0c-ae2a-4c6e8a0c2e4a", "company name is required")
	}
	providerName := spec.Provider
	if strings.TrimSpace(providerName) == "" {
		providerName = e.settings.DefaultProvider
	}
	searcher, err := e.registry.Get(providerName)
	if err != nil {
		return nil, err
	}
	hits, err := searcher.Search(ctx, provider.SearchRequest{
		Query:    company + " " + spec.Description,
		Num:      searchResultCount,
		Location: e.settings.Location,
		Country:  e.settings.Country,
	})
	if err != nil {
		return nil, err
	}
	hits = provider.FilterSince(hits, spec.Since)

	sources := e.collectSources(ctx, hits)
	if len(sources) == 0 {
		logger.GetLogger().WithFields(logrus.Fields{
			"company":   company,
			"attribute": spec.Name,
		}).Info("no content found for enrichment")
		return unknownResult(spec.Name, "no supporting content was found"), nil
	}

	userPrompt, err := e.prompt.RenderUser(enrichmentPromptData{
		Company:     company,
		Attribute:   spec.Name,
		Description: spec.Description,
		Sources:     sources,
	})
	if err != nil {
		return nil, err
	}
	raw, err := e.llm.Complete(ctx, provider.CompletionRequest{
		SystemPrompt: e.prompt.System,
		UserPrompt:   userPrompt,
		Temperature:  e.prompt.Temperature,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}
	var answer modelAnswer
	if err := provider.DecodeJSON(raw, &answer); err != nil {
		return nil, common.NewParseError(err, "a0c2e4a6-c8e0-4a2c-8e4a-6c8e0a2c4e6a")
	}
	return toResult(spec.Name, answer, sources)
}

// collectSources fetches page content for the top hit. Fetch failures fall
// back to the search snippet.
func (e *Enricher) collectSources(ctx context.Context, hits []provider.SearchResult) []source {
	sources := make([]source, 0, len(hits))
	for i, hit := range hits {
		text := strings.TrimSpace(hit.Content)
		if text == "" && i == 0 && hit.Link != "" && e.fetcher != nil {
			content, err := e.fetcher.Fetch(ctx, hit.Link)
			if err != nil {
				logger.GetLogger().Warnf("content fetch failed for %s: %v", hit.Link, err)
			} else {
				text = strings.TrimSpace(content)
			}
		}
		if text == "" {
			text = strings.TrimSpace(hit.Snippet)
		}
		if text == "" {
			continue
		}
		text = provider.Truncate(text, maxSourceBytes)
		sources = append(sources, source{Title: hit.Title, Link: hit.Link, Text: text})
	}
	return sources
}

func unknownResult(attribute, reasoning string) *lead.EnrichmentResult {
	return &lead.EnrichmentResult{
		Attribute:  attribute,
		Value:      lead.UnknownValue,
		Status:     lead.EnrichmentStatusUnknown,
		Confidence: decimal.Zero,
		Reasoning:  reasoning,
	}
}

func toResult(attribute string, answer modelAnswer, sources []source) (*lead.EnrichmentResult, error) {
	value, ok := stringify(answer.Value)
	if !ok {
		return nil, common.NewParseError(&provider.ParseFailure{Reason: fmt.Sprintf("unsupported value %v", answer.Value)}, "a0c2e4a6-c8e0-4a2c-8e4a-6c8e0a2c4e6a")
	}
	if value == "" || strings.EqualFold(value, lead.UnknownValue) {
		r := unknownResult(attribute, answer.Reasoning)
		r.Citation = answer.Citation
		r.SourceURL = answer.SourceURL
		return r, nil
	}
	sourceURL := answer.SourceURL
	if sourceURL == "" && len(sources) > 0 {
		sourceURL = sources[0].Link
	}
	return &lead.EnrichmentResult{
		Attribute:  attribute,
		Value:      value,
		Status:     lead.EnrichmentStatusSucceeded,
		Confidence: confidence(answer.Confidence),
		Citation:   answer.Citation,
		SourceURL:  sourceURL,
		Reasoning:  answer.Reasoning,
	}, nil
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// confidence clamps to [0, 1] and rounds to two places.
func confidence(v any) decimal.Decimal {
	var d decimal.Decimal
	switch t := v.(type) {
	case float64:
		d = decimal.NewFromFloat(t)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		if err != nil {
			return decimal.Zero
		}
		if strings.HasSuffix(strings.TrimSpace(t), "%") {
			parsed = parsed.Div(decimal.NewFromInt(100))
		}
		d = parsed
	default:
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = decimal.NewFromInt(1)
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	return d.Round(2)
}
