// Package assistant turns a free-text description of rides into invoice
// line items using a hosted language model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"taxiledger/internal/core"
)

// Extractor returns line items without IDs. An empty model answer is an
// empty list, not an error.
type Extractor interface {
	ExtractLineItems(ctx context.Context, prompt string) ([]core.LineItem, error)
}

var ErrNotConfigured = errors.New("line-item assistant is not configured")

const (
	ProviderNone   = "none"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

const systemInstruction = "You are a helpful accounting assistant for a transportation and taxi company " +
	"that extracts structured invoice data from unstructured text."

func userPrompt(text string) string {
	return "Extract invoice line items for a taxi or airport transfer service from this text. " +
		"Identify routes (Origin to Destination), car types (e.g., Toyota, Van), waiting times, or extra services. " +
		"If no specific quantity is given, assume 1. " +
		"If no currency/price is given, estimate a reasonable placeholder value in Rials. " +
		"Translate descriptions to Persian. " +
		fmt.Sprintf("Text: %q", text)
}

// Disabled is used when no provider is configured.
type Disabled struct{}

func (Disabled) ExtractLineItems(context.Context, string) ([]core.LineItem, error) {
	return nil, ErrNotConfigured
}

// New builds the configured extractor. The returned close func releases
// provider resources and is never nil.
func New(ctx context.Context, cfg Config) (Extractor, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderNone:
		return Disabled{}, noop, nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, noop, fmt.Errorf("gemini: %w", ErrNotConfigured)
		}
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, noop, fmt.Errorf("openai: %w", ErrNotConfigured)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
}

type rawItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// decodeLineItems accepts a bare JSON array or an object with an "items"
// array, optionally wrapped in a markdown code fence.
func decodeLineItems(text string) ([]core.LineItem, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return []core.LineItem{}, nil
	}

	var raw []rawItem
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("decode line items: %w", err)
		}
	} else {
		var wrapped struct {
			Items []rawItem `json:"items"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
			return nil, fmt.Errorf("decode line items: %w", err)
		}
		raw = wrapped.Items
	}

	items := make([]core.LineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, core.LineItem{Description: r.Description, Quantity: r.Quantity, Rate: r.Rate})
	}
	return items, nil
}
