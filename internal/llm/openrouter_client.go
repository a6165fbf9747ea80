package llm

// NewOpenRouterClient creates a client for a model routed through OpenRouter.
// OpenRouter provides access to many models via a unified API and, unlike
// OpenAI, accepts top_k. The credential comes from WithCredential/WithAPIKey
// or OPENROUTER_API_KEY.
func NewOpenRouterClient(model string, t ChatTransport, opts ...ClientOption) (*OpenAIClient, error) {
	return newOpenAICompatible(ProviderOpenRouter, model, EnvOpenRouterAPIKey, true, t, opts)
}
