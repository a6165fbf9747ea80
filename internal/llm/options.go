package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// ClientOption configures a provider client at construction.
type ClientOption func(*clientConfig)

type clientConfig struct {
	credential Credential
	resolver   CredentialResolver
	logger     *zap.Logger
}

// WithCredential passes an explicit credential. It takes precedence over the
// environment.
func WithCredential(c Credential) ClientOption {
	return func(cfg *clientConfig) { cfg.credential = c }
}

// WithAPIKey passes an explicit API key.
func WithAPIKey(key string) ClientOption {
	return func(cfg *clientConfig) { cfg.credential.APIKey = key }
}

// WithAuthToken passes an explicit bearer token.
func WithAuthToken(token string) ClientOption {
	return func(cfg *clientConfig) { cfg.credential.AuthToken = token }
}

// WithCredentialResolver replaces the default environment resolver. A nil
// resolver keeps the default.
func WithCredentialResolver(r CredentialResolver) ClientOption {
	return func(cfg *clientConfig) {
		if r != nil {
			cfg.resolver = r
		}
	}
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) ClientOption {
	return func(cfg *clientConfig) { cfg.logger = l }
}

// resolveClient applies options and resolves the credential, defaulting to the
// provider's environment variable.
func resolveClient(provider Provider, model, envVar string, opts []ClientOption) (Credential, *zap.Logger, error) {
	cfg := clientConfig{resolver: EnvCredentials{Var: envVar}}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	cred, err := cfg.resolver.Resolve(cfg.credential)
	if err != nil {
		return Credential{}, nil, fmt.Errorf("%s client for %s: %w", provider, model, err)
	}
	if cred.IsZero() {
		return Credential{}, nil, fmt.Errorf("%s client for %s: %w", provider, model, ErrAuthenticationMissing)
	}

	logger := cfg.logger.With(zap.String("provider", string(provider)), zap.String("model", model))
	return cred, logger, nil
}
