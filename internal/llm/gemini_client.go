package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"

	"llmbox/internal/chat"
)

var _ Client = (*GeminiClient)(nil)

// GeminiClient implements Client for the Google Gemini API.
type GeminiClient struct {
	model     string
	cred      Credential
	transport ChatTransport
	logger    *zap.Logger
}

// NewGeminiClient creates a Gemini client bound to model. The credential
// comes from WithCredential/WithAPIKey or GEMINI_API_KEY.
func NewGeminiClient(model string, t ChatTransport, opts ...ClientOption) (*GeminiClient, error) {
	cred, logger, err := resolveClient(ProviderGemini, model, EnvGeminiAPIKey, opts)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("gemini client for %s: %w", model, errNoTransport)
	}
	return &GeminiClient{
		model:     model,
		cred:      cred,
		transport: t,
		logger:    logger,
	}, nil
}

func (c *GeminiClient) Provider() Provider { return ProviderGemini }

func (c *GeminiClient) Model() string { return c.model }

// Generate sends the conversation as Gemini content turns. System messages
// are joined into the system instruction; the other turns keep their order.
// All parameters are supported.
func (c *GeminiClient) Generate(ctx context.Context, conv *chat.Conversation, opts ...CallOption) (string, error) {
	var system []string
	for m := range conv.History() {
		if m.Role == chat.System {
			system = append(system, m.Text)
		}
	}

	contents, err := chat.FormatStructured(chat.GeminiLabels, withoutSystem(conv.History()))
	if err != nil {
		return "", fmt.Errorf("format gemini contents: %w", err)
	}

	params := ApplyOptions(opts...)
	req := &ChatRequest{
		Model:       c.model,
		Messages:    contents,
		System:      strings.Join(system, "\n"),
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		TopK:        params.TopK,
		Stop:        params.stopSequences(),
	}

	c.logger.Debug("generate", zap.Int("messages", len(contents)), zap.Bool("system", len(system) > 0))

	resp, err := c.transport.ChatComplete(ctx, c.cred, req)
	if err != nil {
		return "", &TransportError{Provider: ProviderGemini, Model: c.model, Err: err}
	}
	if resp == nil {
		return "", &TransportError{Provider: ProviderGemini, Model: c.model, Err: errors.New("empty content response")}
	}
	return resp.Content, nil
}

func withoutSystem(history iter.Seq[chat.Message]) iter.Seq[chat.Message] {
	return func(yield func(chat.Message) bool) {
		for m := range history {
			if m.Role == chat.System {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}
