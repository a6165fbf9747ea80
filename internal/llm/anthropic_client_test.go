package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmbox/internal/chat"
)

func TestNewAnthropicClient_AuthenticationMissing(t *testing.T) {
	tr := &recordingCompletion{}

	_, err := NewClaude2(tr, WithCredentialResolver(EnvCredentials{Var: EnvAnthropicAPIKey, Lookup: noEnv}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationMissing)
	assert.Empty(t, tr.calls)
}

func TestNewAnthropicClient_NilTransport(t *testing.T) {
	_, err := NewClaude2(nil, WithAPIKey("k"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoTransport)
}

func TestNewAnthropicClient_Models(t *testing.T) {
	tr := &recordingCompletion{}

	instant, err := NewClaudeInstant1(tr, WithAPIKey("k"))
	require.NoError(t, err)
	assert.Equal(t, ModelClaudeInstant1, instant.Model())
	assert.Equal(t, ProviderAnthropic, instant.Provider())

	two, err := NewClaude2(tr, WithAPIKey("k"))
	require.NoError(t, err)
	assert.Equal(t, ModelClaude2, two.Model())
}

func TestAnthropicClient_Generate(t *testing.T) {
	tr := &recordingCompletion{resp: &CompletionResponse{Completion: " It has a radius of about 6,371 km. \n"}}
	c, err := NewClaude2(tr, WithCredentialResolver(EnvCredentials{
		Var:    EnvAnthropicAPIKey,
		Lookup: env(map[string]string{EnvAnthropicAPIKey: "sk-ant"}),
	}))
	require.NoError(t, err)

	got, err := c.Generate(context.Background(), earth())
	require.NoError(t, err)
	assert.Equal(t, " It has a radius of about 6,371 km.", got)

	require.Len(t, tr.calls, 1)
	req := tr.calls[0]
	assert.Equal(t, ModelClaude2, req.Model)
	assert.Equal(t, "\n\nHuman: How big is the earth? \n\nAssistant:", req.Prompt)
	assert.Equal(t, AnthropicDefaultMaxTokens, req.MaxTokensToSample)
	assert.Equal(t, Credential{APIKey: "sk-ant"}, tr.creds[0])
}

func TestAnthropicClient_UnsetParamsOmitted(t *testing.T) {
	tr := &recordingCompletion{resp: &CompletionResponse{Completion: "ok"}}
	c, err := NewClaude2(tr, WithAPIKey("k"))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), earth())
	require.NoError(t, err)

	raw, err := json.Marshal(tr.calls[0])
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	for _, key := range []string{"stop_sequences", "temperature", "top_p", "top_k"} {
		assert.NotContains(t, body, key)
	}
	assert.Contains(t, body, "max_tokens_to_sample")
}

func TestAnthropicClient_ForwardsSetParams(t *testing.T) {
	tr := &recordingCompletion{resp: &CompletionResponse{Completion: "ok"}}
	c, err := NewClaudeInstant1(tr, WithAuthToken("tok"))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), earth(),
		WithMaxTokens(50),
		WithTemperature(0),
		WithTopP(0.9),
		WithTopK(5),
		WithStopSequences(),
	)
	require.NoError(t, err)

	raw, err := json.Marshal(tr.calls[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model": "claude-instant-1",
		"prompt": "\n\nHuman: How big is the earth? \n\nAssistant:",
		"max_tokens_to_sample": 50,
		"stop_sequences": [],
		"temperature": 0,
		"top_p": 0.9,
		"top_k": 5
	}`, string(raw))
	assert.Equal(t, Credential{AuthToken: "tok"}, tr.creds[0])
}

func TestAnthropicClient_TransportFailure(t *testing.T) {
	cause := errors.New("connection reset")
	tr := &recordingCompletion{err: cause}
	c, err := NewClaude2(tr, WithAPIKey("k"))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), earth())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	te, ok := AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, te.Provider)
	assert.Equal(t, ModelClaude2, te.Model)
	assert.Len(t, tr.calls, 1)
}

func TestAnthropicClient_Cancellation(t *testing.T) {
	tr := CompletionTransportFunc(func(ctx context.Context, _ Credential, _ *CompletionRequest) (*CompletionResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c, err := NewClaude2(tr, WithAPIKey("k"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Generate(ctx, earth())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnthropicClient_UnsupportedRoleSkipsTransport(t *testing.T) {
	tr := &recordingCompletion{}
	c, err := NewClaude2(tr, WithAPIKey("k"))
	require.NoError(t, err)

	conv := earth()
	conv.Append(chat.Message{Text: "?", Role: chat.Role(7)})
	_, err = c.Generate(context.Background(), conv)
	assert.ErrorIs(t, err, chat.ErrUnsupportedRole)
	assert.Empty(t, tr.calls)
}

func TestAnthropicClient_NilResponse(t *testing.T) {
	c, err := NewClaude2(&recordingCompletion{}, WithAPIKey("k"))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), earth())
	_, ok := AsTransportError(err)
	assert.True(t, ok)
}
