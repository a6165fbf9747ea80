package transport

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmbox/internal/chat"
	"llmbox/internal/llm"
)

func TestOpenAISDK_ChatComplete(t *testing.T) {
	srv, got := mockAPI(t, http.StatusOK, chatCompletion("This is the LLM response."))

	tr := NewOpenAISDK(Config{BaseURL: srv.URL})
	resp, err := tr.ChatComplete(context.Background(), llm.Credential{APIKey: "sk-sdk"}, &llm.ChatRequest{
		Model: "gpt-4",
		Messages: []chat.StructuredMessage{
			{Role: "system", Content: "You are helpful."},
			{Role: "user", Content: "Hello"},
		},
		Temperature: llm.Float(0.3),
	})
	require.NoError(t, err)
	assert.Equal(t, "This is the LLM response.", resp.Content)
	assert.Equal(t, 12, resp.Usage.PromptTokens)
	assert.Equal(t, 9, resp.Usage.CompletionTokens)

	require.Equal(t, 1, got.requests)
	assert.Equal(t, "Bearer sk-sdk", got.headers[0].Get("Authorization"))
	body := got.bodies[0]
	assert.Equal(t, "gpt-4", body["model"])
	assert.Equal(t, 0.3, body["temperature"])
	assert.NotContains(t, body, "max_tokens")
	assert.NotContains(t, body, "top_p")
	assert.NotContains(t, body, "stop")
	assert.Len(t, body["messages"], 2)
}

func TestOpenAISDK_StatusErrorNotRetried(t *testing.T) {
	srv, got := mockAPI(t, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"message": "boom", "type": "server_error"},
	})

	_, err := NewOpenAISDK(Config{BaseURL: srv.URL}).ChatComplete(context.Background(), llm.Credential{APIKey: "k"}, earthRequest())
	require.Error(t, err)
	assert.True(t, IsServerError(err))
	assert.Equal(t, 1, got.requests)
}

func TestOpenAISDK_NoChoices(t *testing.T) {
	resp := chatCompletion("")
	resp["choices"] = []map[string]any{}
	srv, _ := mockAPI(t, http.StatusOK, resp)

	_, err := NewOpenAISDK(Config{BaseURL: srv.URL}).ChatComplete(context.Background(), llm.Credential{APIKey: "k"}, earthRequest())
	assert.Error(t, err)
}

func TestToSDKMessages(t *testing.T) {
	msgs, err := toSDKMessages([]chat.StructuredMessage{
		{Role: "system", Content: "s"},
		{Role: "user", Content: "u"},
		{Role: "assistant", Content: "a"},
	})
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	empty, err := toSDKMessages(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = toSDKMessages([]chat.StructuredMessage{{Role: "model", Content: "x"}})
	assert.ErrorIs(t, err, chat.ErrUnsupportedRole)
}

func TestOpenAISDK_ExplicitZeroAndEmptyStop(t *testing.T) {
	srv, got := mockAPI(t, http.StatusOK, chatCompletion("ok"))

	req := earthRequest()
	req.Temperature = llm.Float(0)
	req.MaxTokens = llm.Int(0)
	req.Stop = &[]string{}
	_, err := NewOpenAISDK(Config{BaseURL: srv.URL}).ChatComplete(context.Background(), llm.Credential{APIKey: "k"}, req)
	require.NoError(t, err)

	body := got.bodies[0]
	assert.Equal(t, float64(0), body["temperature"])
	assert.Equal(t, float64(0), body["max_tokens"])
	assert.Equal(t, []any{}, body["stop"])
	assert.NotContains(t, body, "top_p")
}

func TestOpenAISDK_TopK(t *testing.T) {
	srv, got := mockAPI(t, http.StatusOK, chatCompletion("ok"))

	req := earthRequest()
	req.TopK = llm.Int(7)
	_, err := NewOpenRouterSDK(Config{BaseURL: srv.URL}).ChatComplete(context.Background(), llm.Credential{APIKey: "k"}, req)
	require.NoError(t, err)
	assert.Equal(t, float64(7), got.bodies[0]["top_k"])

	_, err = NewOpenRouterSDK(Config{BaseURL: srv.URL}).ChatComplete(context.Background(), llm.Credential{APIKey: "k"}, earthRequest())
	require.NoError(t, err)
	assert.NotContains(t, got.bodies[1], "top_k")
}

func TestOpenRouterSDK_ThroughClientForwardsTopK(t *testing.T) {
	srv, got := mockAPI(t, http.StatusOK, chatCompletion("fine"))

	client, err := llm.NewOpenRouterClient("openai/gpt-4o-mini", NewOpenRouterSDK(Config{BaseURL: srv.URL}), llm.WithAPIKey("k"))
	require.NoError(t, err)

	conv := chat.NewConversation()
	conv.Append(chat.UserMessage("hi"))
	_, err = client.Generate(context.Background(), conv, llm.WithTopK(3))
	require.NoError(t, err)
	assert.Equal(t, float64(3), got.bodies[0]["top_k"])
}

func TestOpenRouterSDK_Headers(t *testing.T) {
	srv, got := mockAPI(t, http.StatusOK, chatCompletion("ok"))

	tr := NewOpenRouterSDK(Config{BaseURL: srv.URL, Headers: map[string]string{"X-Title": "custom"}})
	_, err := tr.ChatComplete(context.Background(), llm.Credential{APIKey: "k"}, earthRequest())
	require.NoError(t, err)

	h := got.headers[0]
	assert.Equal(t, "custom", h.Get("X-Title"))
	assert.NotEmpty(t, h.Get("HTTP-Referer"))
}

func TestOpenAISDK_StatusErrorNamesBackend(t *testing.T) {
	srv, _ := mockAPI(t, http.StatusUnauthorized, map[string]any{
		"error": map[string]any{"message": "Invalid API Key", "type": "invalid_request_error"},
	})

	_, err := NewGroqSDK(Config{BaseURL: srv.URL}).ChatComplete(context.Background(), llm.Credential{APIKey: "bad"}, earthRequest())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "groq", se.Provider)
	assert.True(t, IsAuthentication(err))
}
