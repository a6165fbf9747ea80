package transport

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError_Code(t *testing.T) {
	tests := []struct {
		name string
		err  StatusError
		want string
	}{
		{"unauthorized", StatusError{StatusCode: 401}, CodeAuthentication},
		{"forbidden", StatusError{StatusCode: 403}, CodeAuthentication},
		{"rate limit", StatusError{StatusCode: 429}, CodeRateLimit},
		{"anthropic not found", StatusError{StatusCode: 404, Type: "not_found_error"}, CodeModelNotFound},
		{"openai model 404", StatusError{StatusCode: 404, Message: "The model `gpt-9` does not exist"}, CodeModelNotFound},
		{"context length", StatusError{StatusCode: 400, Type: "invalid_request_error", Message: "prompt is too long: 120000 tokens"}, CodeContextLength},
		{"server", StatusError{StatusCode: 503}, CodeServerError},
		{"bad request", StatusError{StatusCode: 400, Message: "missing field"}, CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Code())
		})
	}
}

func TestStatusError_Wrapped(t *testing.T) {
	err := fmt.Errorf("anthropic (claude-2): %w", &StatusError{Provider: "anthropic", StatusCode: 529, Message: "Overloaded"})
	assert.True(t, IsServerError(err))
	assert.True(t, IsRetryable(err))
	assert.False(t, IsModelNotFound(err))
	assert.Contains(t, err.Error(), "anthropic: 529: Overloaded")
}

func TestParseStatusError_PlainBody(t *testing.T) {
	resp := &http.Response{StatusCode: 502, Status: "502 Bad Gateway"}

	se := parseStatusError("groq", resp, []byte("upstream unavailable"))
	assert.Equal(t, "upstream unavailable", se.Message)

	se = parseStatusError("groq", resp, nil)
	assert.Equal(t, "502 Bad Gateway", se.Message)
}
