// Package registry wires provider names from configuration to a ready
// llm.Client with the matching transport.
package registry

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"llmbox/internal/llm"
	"llmbox/internal/llm/transport"
)

// Transport kinds selectable in Config.Transport.
const (
	TransportHTTP = "http"
	TransportSDK  = "sdk"
)

// Config selects and configures one provider client.
type Config struct {
	Provider  string        `mapstructure:"provider"`
	Model     string        `mapstructure:"model"` // provider default when empty
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Transport string        `mapstructure:"transport"` // "http" (default) or "sdk"
	APIKey    string        `mapstructure:"api_key"`
	AuthToken string        `mapstructure:"auth_token"`

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client `mapstructure:"-"`
	// Lookup overrides os.LookupEnv for credential resolution.
	Lookup func(string) (string, bool) `mapstructure:"-"`
}

// ModelInfo describes a model the registry knows about.
type ModelInfo struct {
	Provider llm.Provider
	Model    string
	Default  bool
	Shape    string // "completion" or "chat"
}

var models = []ModelInfo{
	{Provider: llm.ProviderAnthropic, Model: llm.ModelClaude2, Default: true, Shape: "completion"},
	{Provider: llm.ProviderAnthropic, Model: llm.ModelClaudeInstant1, Shape: "completion"},
	{Provider: llm.ProviderOpenAI, Model: llm.ModelGPT35Turbo, Default: true, Shape: "chat"},
	{Provider: llm.ProviderOpenAI, Model: llm.ModelGPT4, Shape: "chat"},
	{Provider: llm.ProviderGroq, Model: "llama-3.3-70b-versatile", Default: true, Shape: "chat"},
	{Provider: llm.ProviderOpenRouter, Model: "openai/gpt-4o-mini", Default: true, Shape: "chat"},
	{Provider: llm.ProviderGemini, Model: "gemini-1.5-flash", Default: true, Shape: "chat"},
}

// Models returns the known provider/model pairs. Any other model name is
// still accepted by New; this list only feeds defaults and the CLI listing.
func Models() []ModelInfo {
	out := make([]ModelInfo, len(models))
	copy(out, models)
	return out
}

// DefaultModel returns the default model for p, or "" if p is unknown.
func DefaultModel(p llm.Provider) string {
	for _, m := range models {
		if m.Provider == p && m.Default {
			return m.Model
		}
	}
	return ""
}

// New builds the transport and client described by cfg.
func New(cfg Config, logger *zap.Logger) (llm.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(provider)
	}

	transports, err := newTransports(provider, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create %s transport: %w", provider, err)
	}

	opts := []llm.ClientOption{
		llm.WithCredential(llm.Credential{APIKey: cfg.APIKey, AuthToken: cfg.AuthToken}),
		llm.WithLogger(logger),
	}
	if cfg.Lookup != nil {
		opts = append(opts, llm.WithCredentialResolver(llm.EnvCredentials{
			Var:    envVar(provider),
			Lookup: cfg.Lookup,
		}))
	}

	client, err := llm.NewClient(provider, model, transports, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("llm client ready",
		zap.String("provider", string(provider)),
		zap.String("model", model),
		zap.String("transport", transportKind(cfg)),
	)
	return client, nil
}

func newTransports(provider llm.Provider, cfg Config, logger *zap.Logger) (llm.Transports, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil && cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	tc := transport.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	kind := transportKind(cfg)
	switch kind {
	case TransportHTTP:
	case TransportSDK:
		switch provider {
		case llm.ProviderOpenAI:
			return llm.Transports{Chat: transport.NewOpenAISDK(tc)}, nil
		case llm.ProviderGroq:
			return llm.Transports{Chat: transport.NewGroqSDK(tc)}, nil
		case llm.ProviderOpenRouter:
			return llm.Transports{Chat: transport.NewOpenRouterSDK(tc)}, nil
		default:
			return llm.Transports{}, fmt.Errorf("sdk transport is not available for %s", provider)
		}
	default:
		return llm.Transports{}, fmt.Errorf("unknown transport %q", kind)
	}

	switch provider {
	case llm.ProviderAnthropic:
		return llm.Transports{Completion: transport.NewAnthropic(tc)}, nil
	case llm.ProviderOpenAI:
		return llm.Transports{Chat: transport.NewOpenAI(tc)}, nil
	case llm.ProviderGroq:
		return llm.Transports{Chat: transport.NewGroq(tc)}, nil
	case llm.ProviderOpenRouter:
		return llm.Transports{Chat: transport.NewOpenRouter(tc)}, nil
	case llm.ProviderGemini:
		return llm.Transports{Chat: transport.NewGemini(tc)}, nil
	}
	return llm.Transports{}, fmt.Errorf("unsupported LLM provider: %q", provider)
}

func transportKind(cfg Config) string {
	kind := strings.ToLower(strings.TrimSpace(cfg.Transport))
	if kind == "" {
		return TransportHTTP
	}
	return kind
}

func envVar(p llm.Provider) string {
	switch p {
	case llm.ProviderAnthropic:
		return llm.EnvAnthropicAPIKey
	case llm.ProviderOpenAI:
		return llm.EnvOpenAIAPIKey
	case llm.ProviderGroq:
		return llm.EnvGroqAPIKey
	case llm.ProviderOpenRouter:
		return llm.EnvOpenRouterAPIKey
	default:
		return llm.EnvGeminiAPIKey
	}
}
