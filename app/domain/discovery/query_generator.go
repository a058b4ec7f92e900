package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/prompts"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

const (
	DefaultQueryCount = 5
	MaxQueryCount     = 50
	// the same prompt is sent at most this many times
	generationAttempts = 2
)

type QueryGenerator struct {
	llm      provider.LanguageModel
	prompt   prompts.Prompt
	location string
}

func NewQueryGenerator(llm provider.LanguageModel, set *prompts.Set, location string) *QueryGenerator {
	return &QueryGenerator{llm: llm, prompt: set.QueryGeneration, location: location}
}

type queryPromptData struct {
	Goal     string
	Count    int
	Location string
}

// Generate returns exactly n distinct search queries for goal, in model order.
func (g *QueryGenerator) Generate(ctx context.Context, goal string, n int) ([]string, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, common.NewValidationError("6e0a2c4b-8d1f-4b3a-9e5c-7f1a3b5d7e9f", "goal description is required to generate queries")
	}
	if n == 0 {
		n = DefaultQueryCount
	}
	if n < 1 || n > MaxQueryCount {
		return nil, common.NewValidationError("1b3d5f7a-9c0e-4a2b-8d4f-6a8c0e2b4d6f", "query count must be between 1 and %d", MaxQueryCount)
	}
	userPrompt, err := g.prompt.RenderUser(queryPromptData{Goal: goal, Count: n, Location: g.location})
	if err != nil {
		return nil, err
	}
	req := provider.CompletionRequest{
		SystemPrompt: g.prompt.System,
		UserPrompt:   userPrompt,
		Temperature:  g.prompt.Temperature,
		JSONMode:     true,
	}

	var lastErr error
	for attempt := 1; attempt <= generationAttempts; attempt++ {
		raw, err := g.llm.Complete(ctx, req)
		if err != nil {
			if common.KindOf(err) == common.KindConfiguration || ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
		} else {
			queries, err := ParseQueries(raw, n)
			if err == nil {
				return queries, nil
			}
			lastErr = err
		}
		logger.GetLogger().WithFields(logrus.Fields{
			"attempt": attempt,
			"count":   n,
		}).Warnf("query generation attempt failed: %v", lastErr)
	}
	return nil, common.NewProviderError(
		fmt.Errorf("query generation failed after %d attempts: %w", generationAttempts, lastErr),
		"c2e4a6b8-0d1f-4c3e-a5b7-9d1f3a5c7e9b",
	)
}

type queriesPayload struct {
	Queries []any `json:"queries"`
}

// ParseQueries extracts n distinct queries from model output.
func ParseQueries(raw string, n int) ([]string, error) {
	var payload queriesPayload
	if err := provider.DecodeJSON(raw, &payload); err != nil {
		var bare []any
		if provider.DecodeJSON(raw, &bare) != nil {
			return nil, err
		}
		payload.Queries = bare
	}
	seen := make(map[string]struct{}, len(payload.Queries))
	out := make([]string, 0, n)
	for _, item := range payload.Queries {
		text, ok := item.(string)
		if !ok {
			continue
		}
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, text)
		if len(out) == n {
			return out, nil
		}
	}
	return nil, &provider.ParseFailure{Raw: raw, Reason: fmt.Sprintf("expected %d distinct queries, got %d", n, len(out))}
}
