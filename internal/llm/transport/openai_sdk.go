package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"llmbox/internal/chat"
	"llmbox/internal/llm"
)

var _ llm.ChatTransport = (*OpenAISDK)(nil)

// OpenAISDK sends chat requests through the official OpenAI Go SDK. It
// supports any OpenAI-compatible endpoint via Config.BaseURL. The SDK's own
// retries are disabled.
type OpenAISDK struct {
	name   string
	client openai.Client
	logger *zap.Logger
}

// NewOpenAISDK creates an SDK-backed transport for the OpenAI API.
func NewOpenAISDK(cfg Config) *OpenAISDK {
	return newOpenAISDK("openai", cfg.withDefaults(OpenAIBaseURL))
}

// NewGroqSDK creates an SDK-backed transport for the Groq API.
func NewGroqSDK(cfg Config) *OpenAISDK {
	return newOpenAISDK("groq", cfg.withDefaults(GroqBaseURL))
}

// NewOpenRouterSDK creates an SDK-backed transport for OpenRouter with the
// same identification headers as NewOpenRouter.
func NewOpenRouterSDK(cfg Config) *OpenAISDK {
	cfg.Headers = openRouterHeaders(cfg.Headers)
	return newOpenAISDK("openrouter", cfg.withDefaults(OpenRouterBaseURL))
}

func newOpenAISDK(name string, cfg Config) *OpenAISDK {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
	}
	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	return &OpenAISDK{
		name:   name,
		client: openai.NewClient(opts...),
		logger: cfg.Logger,
	}
}

// ChatComplete sends the request with the credential as API key.
func (s *OpenAISDK) ChatComplete(ctx context.Context, cred llm.Credential, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	messages, err := toSDKMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: messages,
	}
	if req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if req.Stop != nil {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: *req.Stop}
	}

	callOpts := []option.RequestOption{option.WithAPIKey(cred.Bearer())}
	// top_k is not part of the OpenAI schema; backends that accept it read
	// it from the body.
	if req.TopK != nil {
		callOpts = append(callOpts, option.WithJSONSet("top_k", *req.TopK))
	}

	completion, err := s.client.Chat.Completions.New(ctx, params, callOpts...)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{
				Provider:   s.name,
				StatusCode: apiErr.StatusCode,
				Type:       apiErr.Type,
				Message:    apiErr.Message,
				Err:        err,
			}
		}
		return nil, fmt.Errorf("%s chat completion: %w", s.name, err)
	}

	s.logger.Debug("provider request", zap.String("provider", s.name), zap.String("id", completion.ID))

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", s.name)
	}
	return &llm.ChatResponse{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
		Usage: llm.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

// toSDKMessages converts structured messages to the SDK union type.
func toSDKMessages(msgs []chat.StructuredMessage) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case "system":
			out[i] = openai.SystemMessage(m.Content)
		case "user":
			out[i] = openai.UserMessage(m.Content)
		case "assistant":
			out[i] = openai.AssistantMessage(m.Content)
		default:
			return nil, fmt.Errorf("message %d: %w: %q", i, chat.ErrUnsupportedRole, m.Role)
		}
	}
	return out, nil
}
