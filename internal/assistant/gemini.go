package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"taxiledger/internal/core"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini asks Google's Gemini API for a schema-constrained JSON array.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func lineItemsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"description": {Type: genai.TypeString, Description: "Description of the service, route, or car type"},
				"quantity":    {Type: genai.TypeNumber, Description: "Number of trips or hours"},
				"rate":        {Type: genai.TypeNumber, Description: "Unit price per trip or hour"},
			},
			Required: []string{"description", "quantity", "rate"},
		},
	}
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = lineItemsSchema()
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) ExtractLineItems(ctx context.Context, prompt string) ([]core.LineItem, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(userPrompt(prompt)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return decodeLineItems(responseText(resp))
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
