package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"llmbox/internal/chat"
)

// AnthropicDefaultMaxTokens is sent as max_tokens_to_sample when the caller
// sets no limit; the completions API requires the field.
const AnthropicDefaultMaxTokens = 300

var _ Client = (*AnthropicClient)(nil)

// AnthropicClient implements Client for Anthropic's text completions API.
// The conversation is sent as a single Human/Assistant prompt.
type AnthropicClient struct {
	model     string
	cred      Credential
	transport CompletionTransport
	logger    *zap.Logger
}

// NewAnthropicClient creates a client bound to model. The credential comes
// from WithCredential/WithAPIKey/WithAuthToken or ANTHROPIC_API_KEY.
func NewAnthropicClient(model string, t CompletionTransport, opts ...ClientOption) (*AnthropicClient, error) {
	cred, logger, err := resolveClient(ProviderAnthropic, model, EnvAnthropicAPIKey, opts)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("anthropic client for %s: %w", model, errNoTransport)
	}
	return &AnthropicClient{
		model:     model,
		cred:      cred,
		transport: t,
		logger:    logger,
	}, nil
}

// NewClaudeInstant1 creates a client for claude-instant-1.
func NewClaudeInstant1(t CompletionTransport, opts ...ClientOption) (*AnthropicClient, error) {
	return NewAnthropicClient(ModelClaudeInstant1, t, opts...)
}

// NewClaude2 creates a client for claude-2.
func NewClaude2(t CompletionTransport, opts ...ClientOption) (*AnthropicClient, error) {
	return NewAnthropicClient(ModelClaude2, t, opts...)
}

func (c *AnthropicClient) Provider() Provider { return ProviderAnthropic }

func (c *AnthropicClient) Model() string { return c.model }

// Generate sends the conversation as a completion prompt and returns the
// completion with trailing whitespace removed. Supported parameters:
// max tokens (default AnthropicDefaultMaxTokens), stop sequences,
// temperature, top-p and top-k.
func (c *AnthropicClient) Generate(ctx context.Context, conv *chat.Conversation, opts ...CallOption) (string, error) {
	prompt, err := chat.FormatRaw(chat.AnthropicMarkers, conv.History())
	if err != nil {
		return "", fmt.Errorf("format anthropic prompt: %w", err)
	}

	params := ApplyOptions(opts...)
	req := &CompletionRequest{
		Model:             c.model,
		Prompt:            prompt,
		MaxTokensToSample: params.MaxTokensOr(AnthropicDefaultMaxTokens),
		StopSequences:     params.stopSequences(),
		Temperature:       params.Temperature,
		TopP:              params.TopP,
		TopK:              params.TopK,
	}

	c.logger.Debug("generate", zap.Int("messages", conv.Len()), zap.Int("prompt_bytes", len(prompt)))

	resp, err := c.transport.Complete(ctx, c.cred, req)
	if err != nil {
		return "", &TransportError{Provider: ProviderAnthropic, Model: c.model, Err: err}
	}
	if resp == nil {
		return "", &TransportError{Provider: ProviderAnthropic, Model: c.model, Err: errors.New("empty completion response")}
	}
	return strings.TrimRightFunc(resp.Completion, unicode.IsSpace), nil
}
