// Package llm provides a pluggable interface for LLM providers.
//
// Every provider client is bound to one model at construction and exposes the
// same Client capability, so calling code can swap providers without change:
//
//	client, err := llm.NewClaude2(transport.NewAnthropic(transport.Config{}))
//	if err != nil {
//		return err
//	}
//	conv := chat.NewConversation()
//	conv.Append(chat.UserMessage("How big is the earth?"))
//	reply, err := client.Generate(ctx, conv, llm.WithMaxTokens(200))
//
// Clients never perform HTTP themselves; they shape requests for an injected
// CompletionTransport or ChatTransport and unshape the reply.
package llm

import (
	"context"

	"llmbox/internal/chat"
)

// Provider names the company or service behind a model.
type Provider string

const (
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenAI     Provider = "openai"
	ProviderGroq       Provider = "groq"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
)

// Well-known model identifiers.
const (
	ModelClaudeInstant1 = "claude-instant-1"
	ModelClaude2        = "claude-2"
	ModelGPT35Turbo     = "gpt-3.5-turbo"
	ModelGPT4           = "gpt-4"
)

// Client is the common interface implemented by all LLM providers.
// Implementations are immutable after construction and safe for concurrent
// use across independent conversations.
type Client interface {
	// Generate formats the conversation for the bound provider, sends it
	// through the transport once and returns the reply text.
	Generate(ctx context.Context, conv *chat.Conversation, opts ...CallOption) (string, error)

	// Provider returns the provider the client talks to.
	Provider() Provider

	// Model returns the model identifier fixed at construction.
	Model() string
}
