package llm

import (
	"fmt"
	"strings"
)

// Transports bundles the transports a factory may hand to a client. Only the
// one matching the provider's wire format is used.
type Transports struct {
	Completion CompletionTransport
	Chat       ChatTransport
}

// ParseProvider maps a provider name to a Provider.
// Supported providers: "anthropic", "openai", "groq", "openrouter", "gemini".
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGroq, ProviderOpenRouter, ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider: %q", name)
	}
}

// NewClient returns a Client for the specified provider and model.
func NewClient(provider Provider, model string, t Transports, opts ...ClientOption) (Client, error) {
	var (
		c   Client
		err error
	)
	switch provider {
	case ProviderAnthropic:
		c, err = NewAnthropicClient(model, t.Completion, opts...)
	case ProviderOpenAI:
		c, err = NewOpenAIClient(model, t.Chat, opts...)
	case ProviderGroq:
		c, err = NewGroqClient(model, t.Chat, opts...)
	case ProviderOpenRouter:
		c, err = NewOpenRouterClient(model, t.Chat, opts...)
	case ProviderGemini:
		c, err = NewGeminiClient(model, t.Chat, opts...)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", provider)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
