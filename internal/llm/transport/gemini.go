package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"llmbox/internal/llm"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var _ llm.ChatTransport = (*Gemini)(nil)

// Gemini sends chat requests to the Gemini generateContent API.
type Gemini struct {
	cfg Config
}

// NewGemini creates a Gemini transport.
func NewGemini(cfg Config) *Gemini {
	return &Gemini{cfg: cfg.withDefaults(geminiBaseURL)}
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     *float64  `json:"temperature,omitempty"`
	TopP            *float64  `json:"topP,omitempty"`
	TopK            *int      `json:"topK,omitempty"`
	MaxOutputTokens *int      `json:"maxOutputTokens,omitempty"`
	StopSequences   *[]string `json:"stopSequences,omitempty"`
}

func (g geminiGenerationConfig) empty() bool {
	return g.Temperature == nil && g.TopP == nil && g.TopK == nil &&
		g.MaxOutputTokens == nil && g.StopSequences == nil
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// ChatComplete translates the request into Gemini contents and returns the
// text parts of the first candidate.
func (g *Gemini) ChatComplete(ctx context.Context, cred llm.Credential, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	body := geminiRequest{Contents: make([]geminiContent, 0, len(req.Messages))}
	for _, m := range req.Messages {
		body.Contents = append(body.Contents, geminiContent{
			Role:  m.Role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	gen := geminiGenerationConfig{
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		TopK:            req.TopK,
		MaxOutputTokens: req.MaxTokens,
		StopSequences:   req.Stop,
	}
	if !gen.empty() {
		body.GenerationConfig = &gen
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.cfg.BaseURL, url.PathEscape(req.Model))
	headers := map[string]string{"X-Goog-Api-Key": cred.Bearer()}

	var out geminiResponse
	if err := postJSON(ctx, g.cfg, "gemini", endpoint, headers, body, &out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in gemini response")
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return &llm.ChatResponse{
		Content: text.String(),
		Model:   out.ModelVersion,
		Usage: llm.Usage{
			PromptTokens:     out.UsageMetadata.PromptTokenCount,
			CompletionTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      out.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
