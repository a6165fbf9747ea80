package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes for classifying provider failures.
const (
	CodeAuthentication = "authentication_error"
	CodeRateLimit      = "rate_limit_exceeded"
	CodeModelNotFound  = "model_not_found"
	CodeInvalidRequest = "invalid_request"
	CodeContextLength  = "context_length_exceeded"
	CodeServerError    = "server_error"
)

// StatusError is a non-success HTTP response from a provider API.
type StatusError struct {
	Provider   string
	StatusCode int
	Type       string // provider-specific error type, may be empty
	Message    string
	Err        error // underlying SDK error, may be nil
}

func (e *StatusError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Provider, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Code classifies the error into one of the Code* constants.
func (e *StatusError) Code() string {
	msg := strings.ToLower(e.Message)
	typ := strings.ToLower(e.Type)
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return CodeAuthentication
	case e.StatusCode == http.StatusTooManyRequests:
		return CodeRateLimit
	case typ == "not_found_error" ||
		(e.StatusCode == http.StatusNotFound && strings.Contains(msg, "model")):
		return CodeModelNotFound
	case typ == "context_length_exceeded" ||
		strings.Contains(msg, "context length") ||
		strings.Contains(msg, "prompt is too long"):
		return CodeContextLength
	case e.StatusCode >= 500:
		return CodeServerError
	default:
		return CodeInvalidRequest
	}
}

// IsAuthentication reports whether err is a rejected credential.
func IsAuthentication(err error) bool { return hasCode(err, CodeAuthentication) }

// IsRateLimit reports whether err is a rate-limit response.
func IsRateLimit(err error) bool { return hasCode(err, CodeRateLimit) }

// IsModelNotFound reports whether err names an unknown model.
func IsModelNotFound(err error) bool { return hasCode(err, CodeModelNotFound) }

// IsServerError reports whether err is a provider-side failure.
func IsServerError(err error) bool { return hasCode(err, CodeServerError) }

// IsRetryable reports whether the request may succeed if sent again. Nothing
// in this module retries; callers decide.
func IsRetryable(err error) bool {
	return IsRateLimit(err) || IsServerError(err)
}

func hasCode(err error, code string) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code() == code
}

// parseStatusError decodes the error envelope shared, with small variations,
// by the Anthropic, OpenAI and Gemini APIs.
func parseStatusError(provider string, resp *http.Response, body []byte) *StatusError {
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}

	se := &StatusError{Provider: provider, StatusCode: resp.StatusCode, Message: resp.Status}
	if err := json.Unmarshal(body, &envelope); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			se.Message = text
		}
		return se
	}

	if envelope.Error.Message != "" {
		se.Message = envelope.Error.Message
	}
	se.Type = envelope.Error.Type
	if se.Type == "" {
		se.Type = envelope.Error.Status
	}
	return se
}
