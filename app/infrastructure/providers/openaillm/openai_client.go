package openaillm

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	clientName     = "OpenAIClient"
)

// Client calls the chat completions endpoint of OpenAI or a compatible server.
type Client struct {
	apiKey string
	model  string
	gate   *provider.Gate
	client *resty.Client
}

var _ provider.LanguageModel = (*Client)(nil)

func New(apiKey string, model string, gate *provider.Gate, client *resty.Client) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		gate:   gate,
		client: client,
	}
}

func (c *Client) buildRequest(req provider.CompletionRequest) openai.ChatCompletionRequest {
	temperature := req.Temperature
	if temperature == 0 {
		// a zero temperature is dropped by omitempty
		temperature = math.SmallestNonzeroFloat32
	}
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}
	if req.JSONMode {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return request
}

func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", common.NewConfigurationError("8a2f6d31-4b7c-4e09-a1d5-3c9e7f2b6a48", "OPENAI_API_KEY is not set")
	}
	request := c.buildRequest(req)
	return provider.Call(ctx, c.gate, func(ctx context.Context) (string, error) {
		var body openai.ChatCompletionResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetAuthToken(c.apiKey).
			SetHeader("Content-Type", "application/json").
			SetBody(request).
			SetResult(&body).
			Post("/chat/completions")
		if err := httpclients.CheckResponse(clientName, resp, err); err != nil {
			return "", err
		}
		if len(body.Choices) == 0 {
			return "", common.NewProviderError(fmt.Errorf("openai returned no choices"), "e4b9c2a7-6d13-4f8e-b0a5-1d7c3e9f2b64")
		}
		return body.Choices[0].Message.Content, nil
	})
}
