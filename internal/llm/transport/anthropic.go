package transport

import (
	"context"

	"llmbox/internal/llm"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

var _ llm.CompletionTransport = (*Anthropic)(nil)

// Anthropic sends raw-completion requests to Anthropic's /v1/complete.
type Anthropic struct {
	cfg Config
}

// NewAnthropic creates an Anthropic transport.
func NewAnthropic(cfg Config) *Anthropic {
	return &Anthropic{cfg: cfg.withDefaults(anthropicBaseURL)}
}

// Complete posts the request. An API key goes in x-api-key; a token alone is
// sent as a bearer token.
func (a *Anthropic) Complete(ctx context.Context, cred llm.Credential, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	headers := map[string]string{"anthropic-version": anthropicVersion}
	if cred.APIKey != "" {
		headers["x-api-key"] = cred.APIKey
	} else {
		headers["Authorization"] = "Bearer " + cred.AuthToken
	}

	var out llm.CompletionResponse
	if err := postJSON(ctx, a.cfg, "anthropic", a.cfg.BaseURL+"/v1/complete", headers, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
