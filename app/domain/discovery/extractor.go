package discovery

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/prompts"
	"leadgen.ai/leadgen-api/app/domain/provider"
)

const DefaultExtractionWorkers = 4

// content beyond this many bytes is not sent to the model
const maxContentBytes = 12000

type ResultStatus string

const (
	ResultStatusUnprocessed ResultStatus = "unprocessed"
	ResultStatusProcessed   ResultStatus = "processed"
	ResultStatusSkip        ResultStatus = "skip"
	ResultStatusFailed      ResultStatus = "failed"
)

// Candidate is a distinct company name with every place it was seen.
type Candidate struct {
	Name     string
	Contexts []lead.Citation
}

type ResultOutcome struct {
	Link      string
	Status    ResultStatus
	Names     []string
	Discarded int
	Error     string
}

type ExtractionReport struct {
	Attempted  int
	Failed     int
	Discarded  int
	Extracted  int
	Candidates []Candidate
	Outcomes   []ResultOutcome
}

type Extractor struct {
	llm     provider.LanguageModel
	prompt  prompts.Prompt
	workers int
}

func NewExtractor(llm provider.LanguageModel, set *prompts.Set, workers int) *Extractor {
	if workers < 1 {
		workers = DefaultExtractionWorkers
	}
	return &Extractor{llm: llm, prompt: set.Extraction, workers: workers}
}

type extractionPromptData struct {
	Query   string
	Title   string
	Link    string
	Snippet string
	Content string
}

// Extract never fails as a whole. Failed results are reported per item.
func (e *Extractor) Extract(ctx context.Context, results []provider.SearchResult) *ExtractionReport {
	report := &ExtractionReport{Candidates: []Candidate{}, Outcomes: make([]ResultOutcome, len(results))}
	if len(results) == 0 {
		return report
	}

	g := errgroup.Group{}
	g.SetLimit(e.workers)
	for i := range results {
		i := i
		g.Go(func() error {
			report.Outcomes[i] = e.extractOne(ctx, results[i])
			return nil
		})
	}
	_ = g.Wait()

	byKey := map[string]int{}
	for i, outcome := range report.Outcomes {
		report.Attempted++
		report.Discarded += outcome.Discarded
		if outcome.Status == ResultStatusFailed {
			report.Failed++
			continue
		}
		citation := lead.Citation{
			Query:   results[i].Query,
			Title:   results[i].Title,
			Link:    results[i].Link,
			Snippet: results[i].Snippet,
		}
		for _, name := range outcome.Names {
			report.Extracted++
			key := lead.NormalizeName(name)
			if idx, ok := byKey[key]; ok {
				report.Candidates[idx].Contexts = append(report.Candidates[idx].Contexts, citation)
				continue
			}
			byKey[key] = len(report.Candidates)
			report.Candidates = append(report.Candidates, Candidate{Name: name, Contexts: []lead.Citation{citation}})
		}
	}
	return report
}

func (e *Extractor) extractOne(ctx context.Context, result provider.SearchResult) ResultOutcome {
	outcome := ResultOutcome{Link: result.Link}
	if err := ctx.Err(); err != nil {
		outcome.Status = ResultStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	content := provider.Truncate(result.Content, maxContentBytes)
	userPrompt, err := e.prompt.RenderUser(extractionPromptData{
		Query:   result.Query,
		Title:   result.Title,
		Link:    result.Link,
		Snippet: result.Snippet,
		Content: content,
	})
	if err != nil {
		outcome.Status = ResultStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	raw, err := e.llm.Complete(ctx, provider.CompletionRequest{
		SystemPrompt: e.prompt.System,
		UserPrompt:   userPrompt,
		Temperature:  e.prompt.Temperature,
		JSONMode:     true,
	})
	if err != nil {
		outcome.Status = ResultStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	names, discarded, err := ParseCompanies(raw)
	if err != nil {
		outcome.Status = ResultStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Names = names
	outcome.Discarded = discarded
	if len(names) == 0 {
		outcome.Status = ResultStatusSkip
	} else {
		outcome.Status = ResultStatusProcessed
	}
	return outcome
}

var trailingQualifier = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

var placeholderNames = map[string]struct{}{
	"":     {},
	"[]":   {},
	"null": {},
	"none": {},
	"n/a":  {},
}

// ParseCompanies accepts {"companies": [...]} or a bare JSON array.
// Entries that are not usable names are counted as discarded.
func ParseCompanies(raw string) ([]string, int, error) {
	var decoded any
	if err := provider.DecodeJSON(raw, &decoded); err != nil {
		return nil, 0, err
	}
	var items []any
	switch v := decoded.(type) {
	case []any:
		items = v
	case map[string]any:
		list, ok := v["companies"].([]any)
		if !ok {
			return nil, 0, &provider.ParseFailure{Raw: raw, Reason: `missing "companies" list`}
		}
		items = list
	default:
		return nil, 0, &provider.ParseFailure{Raw: raw, Reason: "expected a JSON object or array"}
	}

	names := make([]string, 0, len(items))
	discarded := 0
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			discarded++
			continue
		}
		name := CleanCompanyName(text)
		if name == "" {
			discarded++
			continue
		}
		names = append(names, name)
	}
	return names, discarded, nil
}

// CleanCompanyName strips wrapping punctuation and trailing parenthetical
// qualifiers. Placeholder values come back empty.
func CleanCompanyName(text string) string {
	name := strings.TrimSpace(text)
	name = strings.Trim(name, "\"'`[] ")
	for {
		stripped := trailingQualifier.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}
	name = lead.CleanDisplayName(name)
	if _, placeholder := placeholderNames[strings.ToLower(name)]; placeholder {
		return ""
	}
	return name
}
