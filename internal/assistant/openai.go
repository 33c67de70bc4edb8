package assistant

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"taxiledger/internal/core"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI talks to any OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) ExtractLineItems(ctx context.Context, prompt string) ([]core.LineItem, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: systemInstruction + ` Reply with a JSON object of the form ` +
					`{"items":[{"description":string,"quantity":number,"rate":number}]}.`,
			},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(prompt)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.1,
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return []core.LineItem{}, nil
	}
	return decodeLineItems(resp.Choices[0].Message.Content)
}
