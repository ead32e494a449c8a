package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *LLMClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewLLMClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func textResponse(text, stopReason string) map[string]any {
	return map[string]any{
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stopReason,
	}
}

func TestNewLLMClient_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMClient(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestSend_TextResponse(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(textResponse("The answer.", "end_turn"))
	})

	resp, err := client.Send(context.Background(), driven.ChatRequest{
		System:   "Be helpful.",
		Messages: []driven.ChatMessage{{Role: "user", Text: "question"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "The answer.", resp.Text)
	assert.Equal(t, driven.StopEndTurn, resp.StopReason)
	assert.Empty(t, resp.ToolCalls)

	assert.Equal(t, "Be helpful.", captured["system"])
	assert.Equal(t, float64(1024), captured["max_tokens"], "MaxTokens defaults to 1024")
	assert.Nil(t, captured["tools"], "no tools field without tool definitions")
	assert.Nil(t, captured["tool_choice"])

	msgs := captured["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "question", msg["content"], "plain text messages use string content")
}

func TestSend_ToolsCarriedWithAutoChoice(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{
					"type":  "tool_use",
					"id":    "toolu_01",
					"name":  "search_course_content",
					"input": map[string]any{"query": "mcp"},
				},
			},
			"stop_reason": "tool_use",
		})
	})

	resp, err := client.Send(context.Background(), driven.ChatRequest{
		Messages: []driven.ChatMessage{{Role: "user", Text: "q"}},
		Tools: []driven.ToolDefinition{
			{
				Name:        "search_course_content",
				Description: "Search the course corpus",
				InputSchema: map[string]any{"type": "object"},
			},
		},
		MaxTokens: 800,
	})
	require.NoError(t, err)

	assert.Equal(t, driven.StopToolUse, resp.StopReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_01", resp.ToolCalls[0].ID)
	assert.Equal(t, "search_course_content", resp.ToolCalls[0].Name)
	assert.Equal(t, "mcp", resp.ToolCalls[0].Input["query"])

	tools := captured["tools"].([]any)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "search_course_content", tool["name"])
	assert.NotNil(t, tool["input_schema"])

	choice := captured["tool_choice"].(map[string]any)
	assert.Equal(t, "auto", choice["type"])
	assert.Equal(t, float64(800), captured["max_tokens"])
}

func TestSend_ToolResultMessagesBecomeContentBlocks(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(textResponse("done", "end_turn"))
	})

	_, err := client.Send(context.Background(), driven.ChatRequest{
		Messages: []driven.ChatMessage{
			{Role: "user", Text: "q"},
			{Role: "assistant", ToolCalls: []driven.ToolCall{
				{ID: "toolu_01", Name: "search_course_content", Input: map[string]any{"query": "mcp"}},
			}},
			{Role: "user", ToolResults: []driven.ToolResult{
				{CallID: "toolu_01", Content: "evidence", IsError: false},
			}},
		},
	})
	require.NoError(t, err)

	msgs := captured["messages"].([]any)
	require.Len(t, msgs, 3)

	assistant := msgs[1].(map[string]any)
	blocks := assistant["content"].([]any)
	require.Len(t, blocks, 1)
	use := blocks[0].(map[string]any)
	assert.Equal(t, "tool_use", use["type"])
	assert.Equal(t, "toolu_01", use["id"])
	assert.Equal(t, "search_course_content", use["name"])

	user := msgs[2].(map[string]any)
	blocks = user["content"].([]any)
	require.Len(t, blocks, 1)
	result := blocks[0].(map[string]any)
	assert.Equal(t, "tool_result", result["type"])
	assert.Equal(t, "toolu_01", result["tool_use_id"])
	assert.Equal(t, "evidence", result["content"])
}

func TestSend_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	})

	_, err := client.Send(context.Background(), driven.ChatRequest{
		Messages: []driven.ChatMessage{{Role: "user", Text: "q"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestSend_TransportErrorIsUnavailable(t *testing.T) {
	client, err := NewLLMClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), driven.ChatRequest{
		Messages: []driven.ChatMessage{{Role: "user", Text: "q"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestSend_EmptyContentIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}, "stop_reason": "end_turn"})
	})

	_, err := client.Send(context.Background(), driven.ChatRequest{
		Messages: []driven.ChatMessage{{Role: "user", Text: "q"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response content")
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, client.Ping(context.Background()))

	failing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.Error(t, failing.Ping(context.Background()))
}

func TestModelName(t *testing.T) {
	client, err := NewLLMClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.ModelName())

	client, err = NewLLMClient(Config{APIKey: "k", Model: "claude-haiku-4"})
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4", client.ModelName())
}
