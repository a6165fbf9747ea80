package llm

import (
	"context"

	"llmbox/internal/chat"
)

// CompletionRequest is the raw-completion request shape.
type CompletionRequest struct {
	Model             string    `json:"model"`
	Prompt            string    `json:"prompt"`
	MaxTokensToSample int       `json:"max_tokens_to_sample"`
	StopSequences     *[]string `json:"stop_sequences,omitempty"`
	Temperature       *float64  `json:"temperature,omitempty"`
	TopP              *float64  `json:"top_p,omitempty"`
	TopK              *int      `json:"top_k,omitempty"`
}

// CompletionResponse is the raw-completion response shape.
type CompletionResponse struct {
	Completion string `json:"completion"`
	StopReason string `json:"stop_reason"`
	Model      string `json:"model"`
}

// CompletionTransport sends raw-completion requests.
type CompletionTransport interface {
	Complete(ctx context.Context, cred Credential, req *CompletionRequest) (*CompletionResponse, error)
}

// CompletionTransportFunc adapts a function to CompletionTransport.
type CompletionTransportFunc func(ctx context.Context, cred Credential, req *CompletionRequest) (*CompletionResponse, error)

func (f CompletionTransportFunc) Complete(ctx context.Context, cred Credential, req *CompletionRequest) (*CompletionResponse, error) {
	return f(ctx, cred, req)
}

// ChatRequest is the structured-message request shape. Its JSON form is the
// OpenAI chat completions body; other transports translate it.
type ChatRequest struct {
	Model       string                   `json:"model"`
	Messages    []chat.StructuredMessage `json:"messages"`
	System      string                   `json:"-"`
	MaxTokens   *int                     `json:"max_tokens,omitempty"`
	Temperature *float64                 `json:"temperature,omitempty"`
	TopP        *float64                 `json:"top_p,omitempty"`
	TopK        *int                     `json:"top_k,omitempty"`
	Stop        *[]string                `json:"stop,omitempty"`
}

// Usage reports token consumption when the provider returns it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the structured-message response shape.
type ChatResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// ChatTransport sends structured-message requests.
type ChatTransport interface {
	ChatComplete(ctx context.Context, cred Credential, req *ChatRequest) (*ChatResponse, error)
}

// ChatTransportFunc adapts a function to ChatTransport.
type ChatTransportFunc func(ctx context.Context, cred Credential, req *ChatRequest) (*ChatResponse, error)

func (f ChatTransportFunc) ChatComplete(ctx context.Context, cred Credential, req *ChatRequest) (*ChatResponse, error) {
	return f(ctx, cred, req)
}
