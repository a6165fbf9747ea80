package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"llmbox/internal/chat"
)

var _ Client = (*OpenAIClient)(nil)

// OpenAIClient implements Client for OpenAI-style chat completions. It also
// backs the Groq and OpenRouter clients, which speak the same format.
type OpenAIClient struct {
	provider  Provider
	model     string
	cred      Credential
	transport ChatTransport
	logger    *zap.Logger
	// topK is forwarded only by backends that accept it.
	topK bool
}

// NewOpenAIClient creates an OpenAI client bound to model. The credential
// comes from WithCredential/WithAPIKey or OPENAI_API_KEY.
func NewOpenAIClient(model string, t ChatTransport, opts ...ClientOption) (*OpenAIClient, error) {
	return newOpenAICompatible(ProviderOpenAI, model, EnvOpenAIAPIKey, false, t, opts)
}

// NewGPT35Turbo creates a client for gpt-3.5-turbo.
func NewGPT35Turbo(t ChatTransport, opts ...ClientOption) (*OpenAIClient, error) {
	return NewOpenAIClient(ModelGPT35Turbo, t, opts...)
}

// NewGPT4 creates a client for gpt-4.
func NewGPT4(t ChatTransport, opts ...ClientOption) (*OpenAIClient, error) {
	return NewOpenAIClient(ModelGPT4, t, opts...)
}

func newOpenAICompatible(provider Provider, model, envVar string, topK bool, t ChatTransport, opts []ClientOption) (*OpenAIClient, error) {
	cred, logger, err := resolveClient(provider, model, envVar, opts)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%s client for %s: %w", provider, model, errNoTransport)
	}
	return &OpenAIClient{
		provider:  provider,
		model:     model,
		cred:      cred,
		transport: t,
		logger:    logger,
		topK:      topK,
	}, nil
}

func (c *OpenAIClient) Provider() Provider { return c.provider }

func (c *OpenAIClient) Model() string { return c.model }

// Generate sends the conversation as a message list and returns the first
// choice's content unaltered. Supported parameters: max tokens, stop
// sequences, temperature and top-p; top-k only where the backend accepts it.
func (c *OpenAIClient) Generate(ctx context.Context, conv *chat.Conversation, opts ...CallOption) (string, error) {
	messages, err := chat.FormatStructured(chat.OpenAILabels, conv.History())
	if err != nil {
		return "", fmt.Errorf("format %s messages: %w", c.provider, err)
	}

	params := ApplyOptions(opts...)
	req := &ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		Stop:        params.stopSequences(),
	}
	if c.topK {
		req.TopK = params.TopK
	} else if params.TopK != nil {
		c.logger.Debug("dropping unsupported parameter", zap.String("param", "top_k"))
	}

	c.logger.Debug("generate", zap.Int("messages", len(messages)))

	resp, err := c.transport.ChatComplete(ctx, c.cred, req)
	if err != nil {
		return "", &TransportError{Provider: c.provider, Model: c.model, Err: err}
	}
	if resp == nil {
		return "", &TransportError{Provider: c.provider, Model: c.model, Err: errors.New("empty chat response")}
	}
	return resp.Content, nil
}
