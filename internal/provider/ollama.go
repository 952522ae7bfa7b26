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
	ollamaName         = "ollama"
	ollamaDefaultURL   = "http://localhost:11434"
	ollamaDefaultModel = "qwen2.5-coder"
)

func init() {
	Register(ollamaName, func(cfg Config) (Client, error) {
		return NewOllama(cfg), nil
	})
}

// Ollama calls a local Ollama server. No API key is required.
type Ollama struct {
	cfg    Config
	client *http.Client
}

// NewOllama constructs an Ollama client.
func NewOllama(cfg Config) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = ollamaDefaultURL
	}

	if cfg.Model == "" {
		cfg.Model = ollamaDefaultModel
	}

	return &Ollama{cfg: cfg, client: cfg.httpClient()}
}

// Name implements Client.
func (o *Ollama) Name() string { return ollamaName }

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Complete implements Client.
func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	payload := ollamaRequest{
		Model:   o.cfg.Model,
		System:  req.System,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: map[string]any{"temperature": req.Temperature},
	}

	if req.MaxTokens > 0 {
		payload.Options["num_predict"] = req.MaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", ollamaName, err)
	}

	url := strings.TrimSuffix(o.cfg.BaseURL, "/") + "/api/generate"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", ollamaName, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", ollamaName, ErrUnavailable, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(ollamaName, resp.StatusCode)
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%s: %w: %v", ollamaName, ErrInvalidResponse, err)
	}

	if decoded.Response == "" {
		return "", fmt.Errorf("%s: %w", ollamaName, ErrEmptyResponse)
	}

	return decoded.Response, nil
}
