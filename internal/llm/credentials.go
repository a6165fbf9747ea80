package llm

import (
	"fmt"
	"os"
)

// Default environment variables holding provider API keys.
const (
	EnvAnthropicAPIKey  = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
	EnvGroqAPIKey       = "GROQ_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
)

// Credential authenticates requests to a provider. Either field is enough;
// transports prefer APIKey when both are set.
type Credential struct {
	APIKey    string
	AuthToken string
}

// IsZero reports whether neither an API key nor a token is present.
func (c Credential) IsZero() bool {
	return c.APIKey == "" && c.AuthToken == ""
}

// Bearer returns the value to send as a bearer token.
func (c Credential) Bearer() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.AuthToken
}

// CredentialResolver turns an optional explicit credential into the one a
// client will use, or fails with ErrAuthenticationMissing.
type CredentialResolver interface {
	Resolve(explicit Credential) (Credential, error)
}

// CredentialResolverFunc adapts a function to CredentialResolver.
type CredentialResolverFunc func(explicit Credential) (Credential, error)

func (f CredentialResolverFunc) Resolve(explicit Credential) (Credential, error) {
	return f(explicit)
}

// EnvCredentials resolves the explicit credential first and falls back to the
// API key stored in the environment variable Var.
type EnvCredentials struct {
	Var string
	// Lookup reads a variable; os.LookupEnv when nil.
	Lookup func(key string) (string, bool)
}

func (e EnvCredentials) Resolve(explicit Credential) (Credential, error) {
	if !explicit.IsZero() {
		return explicit, nil
	}
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if e.Var != "" {
		if v, ok := lookup(e.Var); ok && v != "" {
			return Credential{APIKey: v}, nil
		}
	}
	return Credential{}, fmt.Errorf("%w: set %s or pass a credential explicitly", ErrAuthenticationMissing, e.Var)
}
