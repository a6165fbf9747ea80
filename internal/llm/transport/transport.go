// Package transport sends llm request shapes to provider HTTP APIs. Each
// transport implements llm.CompletionTransport or llm.ChatTransport; clients
// in package llm never talk to the network themselves.
//
// Transports own timeouts (through the http.Client) and perform no retries.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// DefaultTimeout is used when Config.HTTPClient is nil.
const DefaultTimeout = 60 * time.Second

// Config holds the settings shared by all transports.
type Config struct {
	// BaseURL overrides the provider's API root.
	BaseURL string
	// HTTPClient sends requests; a client with DefaultTimeout when nil.
	HTTPClient *http.Client
	// Headers are added to every request.
	Headers map[string]string
	Logger  *zap.Logger
}

func (c Config) withDefaults(baseURL string) Config {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// postJSON sends body as JSON to url and decodes a 2xx response into out.
// Non-2xx responses are returned as *StatusError.
func postJSON(ctx context.Context, cfg Config, provider, url string, headers map[string]string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s API: %w", provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	cfg.Logger.Debug("provider request",
		zap.String("provider", provider),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseStatusError(provider, resp, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", provider, err)
	}
	return nil
}
