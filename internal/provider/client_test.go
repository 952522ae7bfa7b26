package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaComplete(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var got ollamaRequest

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/generate" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}

			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode request: %v", err)
			}

			_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "the diff"})
		}))
		defer srv.Close()

		client := NewOllama(Config{BaseURL: srv.URL, Model: "test-model"})

		out, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "do it"})
		if err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		if out != "the diff" {
			t.Errorf("unexpected output %q", out)
		}

		if got.Model != "test-model" || got.System != "sys" || got.Prompt != "do it" || got.Stream {
			t.Errorf("unexpected request payload %+v", got)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewOllama(Config{BaseURL: srv.URL})

		_, err := client.Complete(context.Background(), Request{Prompt: "x"})
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}

		if !IsRetryable(err) {
			t.Error("rate limiting should be retryable")
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewOllama(Config{BaseURL: srv.URL})

		_, err := client.Complete(context.Background(), Request{Prompt: "x"})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(ollamaResponse{})
		}))
		defer srv.Close()

		client := NewOllama(Config{BaseURL: srv.URL})

		_, err := client.Complete(context.Background(), Request{Prompt: "x"})
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse, got %v", err)
		}
	})
}

func TestOpenRouterComplete(t *testing.T) {
	var got chatRequest

	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		auth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "NO_CHANGES"}})

		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewOpenRouter(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "some/model"})
	if err != nil {
		t.Fatalf("client construction failed: %v", err)
	}

	out, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "anything to do?"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if out != "NO_CHANGES" {
		t.Errorf("unexpected output %q", out)
	}

	if auth != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", auth)
	}

	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestGeminiComplete(t *testing.T) {
	var got geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing key query parameter")
		}

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := geminiResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content geminiContent `json:"content"`
		}{Content: geminiContent{Parts: []geminiPart{{Text: "part one "}, {Text: "part two"}}}})

		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewGemini(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client construction failed: %v", err)
	}

	out, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "hello"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if out != "part one part two" {
		t.Errorf("candidate parts not concatenated: %q", out)
	}

	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("system instruction not sent: %+v", got.SystemInstruction)
	}
}
