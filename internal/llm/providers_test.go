package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var verdictSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{"type": "string", "enum": []any{"correct", "incorrect"}},
		},
		"required":             []any{"verdict"},
		"additionalProperties": false,
	},
}

func jsonHandler(t *testing.T, status int, body any, seen *map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func anthropicAt(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(Endpoint{APIKey: "k", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func openAIAt(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(Endpoint{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 12, "output_tokens": 4},
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 6, "total_tokens": 36},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var body map[string]any
	p := anthropicAt(t, jsonHandler(t, http.StatusOK, anthropicMessage(`{"verdict":"correct"}`, "end_turn"), &body))
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	resp, err := p.Generate(context.Background(), Request{
		System:    "grade",
		Messages:  UserPrompt("is 2+2 4?"),
		Schema:    verdictSchema,
		MaxTokens: 64,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"correct"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", body["model"])
	assert.Contains(t, body, "output_config")
}

func TestAnthropicSchemaViolation(t *testing.T) {
	p := anthropicAt(t, jsonHandler(t, http.StatusOK, anthropicMessage(`{"verdict":"maybe"}`, "end_turn"), nil))
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: verdictSchema, MaxTokens: 8})
	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.JSONEq(t, `{"verdict":"maybe"}`, string(invalid.Content))
}

func TestAnthropicTruncated(t *testing.T) {
	p := anthropicAt(t, jsonHandler(t, http.StatusOK, anthropicMessage(`{"verd`, "max_tokens"), nil))
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: verdictSchema, MaxTokens: 2})
	var truncated *TruncatedError
	assert.ErrorAs(t, err, &truncated)
}

func TestAnthropicStatusErrors(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "rate_limit_error", "message": "slow down"}}

	p := anthropicAt(t, jsonHandler(t, http.StatusTooManyRequests, errBody, nil))
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 8})
	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)

	p = anthropicAt(t, jsonHandler(t, http.StatusBadGateway, errBody, nil))
	_, err = p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 8})
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	p := openAIAt(t, jsonHandler(t, http.StatusOK, chatCompletion(`{"verdict":"incorrect"}`, "stop"), &body))

	resp, err := p.Generate(context.Background(), Request{
		System:    "grade",
		Messages:  UserPrompt("is 2+2 5?"),
		Schema:    verdictSchema,
		MaxTokens: 64,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"incorrect"}`, string(resp.Content))
	assert.Equal(t, 36, resp.Usage.TotalTokens)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIRateLimit(t *testing.T) {
	errBody := map[string]any{"error": map[string]any{"message": "rate limited", "type": "requests"}}
	p := openAIAt(t, jsonHandler(t, http.StatusTooManyRequests, errBody, nil))
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)
}

func TestOpenAINoChoices(t *testing.T) {
	empty := chatCompletion("", "stop")
	empty["choices"] = []any{}
	p := openAIAt(t, jsonHandler(t, http.StatusOK, empty, nil))
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var invalid *InvalidResponseError
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenRouterDefaults(t *testing.T) {
	p, err := NewOpenRouterProvider(Endpoint{APIKey: "k", Model: "google/gemini-2.0-flash-001"})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())
	assert.Equal(t, ProviderOpenRouter, p.name)

	_, err = NewOpenRouterProvider(Endpoint{})
	assert.Error(t, err)
}

func TestGeminiAliases(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiAliases))
}

func TestToGeminiSchema(t *testing.T) {
	s := toGeminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "description": "one line"},
			"steps":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"score":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"verdict": map[string]any{"type": "string", "enum": []any{"correct", "incorrect"}},
		},
		"required": []any{"summary", "steps"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, "one line", s.Properties["summary"].Description)
	assert.Equal(t, genai.TypeArray, s.Properties["steps"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["steps"].Items.Type)
	require.NotNil(t, s.Properties["score"].Maximum)
	assert.Equal(t, 100.0, *s.Properties["score"].Maximum)
	assert.Equal(t, []string{"correct", "incorrect"}, s.Properties["verdict"].Enum)
	assert.Equal(t, []string{"summary", "steps"}, s.Required)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	require.NotNil(t, LookupCost("google/gemini-2.0-flash-001"))
	assert.Nil(t, LookupCost("unknown-model"))
}
