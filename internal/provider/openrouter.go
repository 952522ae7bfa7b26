package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	openRouterName         = "openrouter"
	openRouterDefaultURL   = "https://openrouter.ai/api"
	openRouterDefaultModel = "anthropic/claude-3.5-sonnet"
)

func init() {
	Register(openRouterName, func(cfg Config) (Client, error) {
		return NewOpenRouter(cfg)
	})
}

// OpenRouter calls the OpenRouter chat completions endpoint, which follows
// the OpenAI wire format.
type OpenRouter struct {
	cfg    Config
	client *http.Client
}

// NewOpenRouter constructs an OpenRouter client. An API key is required.
func NewOpenRouter(cfg Config) (*OpenRouter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", openRouterName, ErrMissingAPIKey)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterDefaultURL
	}

	if cfg.Model == "" {
		cfg.Model = openRouterDefaultModel
	}

	return &OpenRouter{cfg: cfg, client: cfg.httpClient()}, nil
}

// Name implements Client.
func (o *OpenRouter) Name() string { return openRouterName }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements Client.
func (o *OpenRouter) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}

	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       o.cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", openRouterName, err)
	}

	url := strings.TrimSuffix(o.cfg.BaseURL, "/") + "/v1/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", openRouterName, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", openRouterName, ErrUnavailable, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(openRouterName, resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%s: %w: %v", openRouterName, ErrInvalidResponse, err)
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w", openRouterName, ErrEmptyResponse)
	}

	return decoded.Choices[0].Message.Content, nil
}
