// Package provider contains the LLM provider adapters. Each adapter turns a
// prompt into raw response text over HTTP; everything the engine consumes is
// that text.
package provider

import (
	"context"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 2 * time.Minute

// Request is the provider-agnostic completion request.
type Request struct {
	// System sets the system message that guides the model's behavior.
	System string

	// Prompt is the user message to send.
	Prompt string

	// Temperature controls response randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens limits the response length. Zero means provider default.
	MaxTokens int
}

// Client is a single LLM provider. Complete returns the raw response text,
// which downstream layers validate and parse as a diff or sentinel.
type Client interface {
	// Name identifies the provider ("gemini", "openrouter", "ollama").
	Name() string

	// Complete sends the request and returns the raw response text.
	Complete(ctx context.Context, req Request) (string, error)
}

// Config carries the settings shared by all provider adapters.
type Config struct {
	// APIKey authenticates against the provider, where required.
	APIKey string

	// Model names the model to use, provider-specific.
	Model string

	// BaseURL overrides the provider endpoint (useful for tests and proxies).
	BaseURL string

	// Timeout bounds each completion call. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client. Nil means a default client with
	// the configured timeout.
	HTTPClient *http.Client
}

// httpClient returns the configured HTTP client or a default one.
func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}
