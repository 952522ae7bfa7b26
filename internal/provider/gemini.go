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
	geminiName         = "gemini"
	geminiDefaultURL   = "https://generativelanguage.googleapis.com"
	geminiDefaultModel = "gemini-2.0-flash"
)

func init() {
	Register(geminiName, func(cfg Config) (Client, error) {
		return NewGemini(cfg)
	})
}

// Gemini calls the Google Generative Language generateContent endpoint.
type Gemini struct {
	cfg    Config
	client *http.Client
}

// NewGemini constructs a Gemini client. An API key is required.
func NewGemini(cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", geminiName, ErrMissingAPIKey)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiDefaultURL
	}

	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}

	return &Gemini{cfg: cfg, client: cfg.httpClient()}, nil
}

// Name implements Client.
func (g *Gemini) Name() string { return geminiName }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  map[string]any  `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete implements Client.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
	}

	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	genCfg := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		genCfg["maxOutputTokens"] = req.MaxTokens
	}

	payload.GenerationConfig = genCfg

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", geminiName, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(g.cfg.BaseURL, "/"), g.cfg.Model, g.cfg.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", geminiName, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", geminiName, ErrUnavailable, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(geminiName, resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%s: %w: %v", geminiName, ErrInvalidResponse, err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: %w", geminiName, ErrEmptyResponse)
	}

	var out strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}

	return out.String(), nil
}
