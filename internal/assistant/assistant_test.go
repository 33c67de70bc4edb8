package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiledger/internal/core"
)

func TestDecodeLineItems(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []core.LineItem
	}{
		{"empty", "  ", []core.LineItem{}},
		{
			"bare array",
			`[{"description":"فرودگاه امام","quantity":1,"rate":9500000}]`,
			[]core.LineItem{{Description: "فرودگاه امام", Quantity: 1, Rate: 9500000}},
		},
		{
			"wrapped object",
			`{"items":[{"description":"توقف","quantity":2,"rate":2000000}]}`,
			[]core.LineItem{{Description: "توقف", Quantity: 2, Rate: 2000000}},
		},
		{
			"code fence",
			"```json\n[{\"description\":\"قم\",\"quantity\":1,\"rate\":25000000}]\n```",
			[]core.LineItem{{Description: "قم", Quantity: 1, Rate: 25000000}},
		},
		{"object without items", `{}`, []core.LineItem{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeLineItems(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := decodeLineItems("[{")
	assert.Error(t, err)
}

func TestUserPromptQuotesText(t *testing.T) {
	p := userPrompt(`two trips "Vanak" to IKA`)
	assert.Contains(t, p, `Text: "two trips \"Vanak\" to IKA"`)
	assert.Contains(t, p, "assume 1")
}

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()

	ext, closeFn, err := New(ctx, Config{Provider: "none"})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	_, err = ext.ExtractLineItems(ctx, "x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, _, err = New(ctx, Config{Provider: "gemini"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, _, err = New(ctx, Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, _, err = New(ctx, Config{Provider: "claude"})
	assert.Error(t, err)

	ext, _, err = New(ctx, Config{Provider: "openai", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, ext)
}

func TestResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`[{"description":"a",`), genai.Text(`"quantity":1,"rate":5}]`)}},
		}},
	}
	items, err := decodeLineItems(responseText(resp))
	require.NoError(t, err)
	assert.Equal(t, []core.LineItem{{Description: "a", Quantity: 1, Rate: 5}}, items)
}

func TestLineItemsSchema(t *testing.T) {
	s := lineItemsSchema()
	assert.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.ElementsMatch(t, []string{"description", "quantity", "rate"}, s.Items.Required)
}

func chatServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(body, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1710900000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIExtractLineItems(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, http.StatusOK, `{"items":[{"description":"ترانسفر فرودگاهی","quantity":1,"rate":9500000}]}`, &seen)

	o := NewOpenAI("test-key", srv.URL+"/v1", "")
	items, err := o.ExtractLineItems(context.Background(), "Vanak to IKA")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ترانسفر فرودگاهی", items[0].Description)
	assert.Equal(t, 9500000.0, items[0].Rate)

	assert.Equal(t, defaultOpenAIModel, seen["model"])
	format, ok := seen["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIExtractLineItemsError(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, "", nil)
	o := NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini")
	_, err := o.ExtractLineItems(context.Background(), "anything")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConfigured))
}
