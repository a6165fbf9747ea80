package transport

import (
	"context"
	"fmt"

	"llmbox/internal/llm"
)

// Base URLs of OpenAI-compatible chat completion APIs.
const (
	OpenAIBaseURL     = "https://api.openai.com/v1"
	GroqBaseURL       = "https://api.groq.com/openai/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

var _ llm.ChatTransport = (*OpenAICompatible)(nil)

// OpenAICompatible sends chat requests to any OpenAI-compatible
// /chat/completions endpoint with bearer authentication.
type OpenAICompatible struct {
	name string
	cfg  Config
}

// NewOpenAI creates a transport for the OpenAI API.
func NewOpenAI(cfg Config) *OpenAICompatible {
	return &OpenAICompatible{name: "openai", cfg: cfg.withDefaults(OpenAIBaseURL)}
}

// NewGroq creates a transport for the Groq API.
func NewGroq(cfg Config) *OpenAICompatible {
	return &OpenAICompatible{name: "groq", cfg: cfg.withDefaults(GroqBaseURL)}
}

// NewOpenRouter creates a transport for OpenRouter. OpenRouter asks clients
// to identify themselves; cfg.Headers may override the defaults.
func NewOpenRouter(cfg Config) *OpenAICompatible {
	cfg.Headers = openRouterHeaders(cfg.Headers)
	return &OpenAICompatible{name: "openrouter", cfg: cfg.withDefaults(OpenRouterBaseURL)}
}

// openRouterHeaders returns the OpenRouter identification headers with
// overrides applied.
func openRouterHeaders(overrides map[string]string) map[string]string {
	headers := map[string]string{
		"HTTP-Referer": "https://github.com/victorycrest/llmbox",
		"X-Title":      "llmbox",
	}
	for k, v := range overrides {
		headers[k] = v
	}
	return headers
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

// ChatComplete posts the request and returns the first choice.
func (o *OpenAICompatible) ChatComplete(ctx context.Context, cred llm.Credential, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	headers := map[string]string{"Authorization": "Bearer " + cred.Bearer()}

	var out chatCompletionResponse
	if err := postJSON(ctx, o.cfg, o.name, o.cfg.BaseURL+"/chat/completions", headers, req, &out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", o.name)
	}
	return &llm.ChatResponse{
		Content: out.Choices[0].Message.Content,
		Model:   out.Model,
		Usage:   out.Usage,
	}, nil
}
