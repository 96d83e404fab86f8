package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"profmailgen/app/apperr"
	"profmailgen/app/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	return NewClient(config.ModelConfig{
		BaseURL:     server.URL + "/v1",
		Token:       "test-token",
		Model:       "test-model",
		MaxTokens:   100,
		Temperature: 0.7,
	}), server
}

func TestComplete(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  Hello there.  "}, "finish_reason": "stop"}]
		}`))
	})
	defer server.Close()

	text, err := client.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello there." {
		t.Errorf("expected trimmed completion, got %q", text)
	}
}

func TestComplete_ProviderFailure(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), "say hello")
	if !errors.Is(err, apperr.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "cmpl-2", "object": "chat.completion", "choices": []}`))
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), "say hello")
	if !errors.Is(err, apperr.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}
