package llm

// NewGroqClient creates a client for a model hosted on Groq's
// OpenAI-compatible API. The credential comes from WithCredential/WithAPIKey
// or GROQ_API_KEY. Groq has no top-k knob.
func NewGroqClient(model string, t ChatTransport, opts ...ClientOption) (*OpenAIClient, error) {
	return newOpenAICompatible(ProviderGroq, model, EnvGroqAPIKey, false, t, opts)
}
