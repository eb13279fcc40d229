package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/draftin/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func okResponse(content string) chatResponse {
	return chatResponse{Choices: []chatChoice{{Message: ChatMessage{Role: "assistant", Content: content}}}}
}

func testRequest() ChatRequest {
	return ChatRequest{
		Model: "gpt-4",
		Messages: []ChatMessage{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hello"},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, okResponse("I am excited to apply."))

	provider := NewOpenAIProvider(srv.URL, "test-key", client)
	got, err := provider.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I am excited to apply." {
		t.Errorf("got %q", got)
	}
}

func TestComplete_HTTPErrorUsesAPIMessage(t *testing.T) {
	body := map[string]any{"error": map[string]string{"message": "model overloaded", "type": "server_error"}}
	srv, client := makeTestServer(t, http.StatusInternalServerError, body)

	provider := NewOpenAIProvider(srv.URL, "test-key", client)
	_, err := provider.Complete(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error on 5xx response")
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "api request failed: model overloaded") {
		t.Errorf("error = %q, want api message", err)
	}
}

func TestComplete_HTTPErrorFallsBackToStatusText(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusBadGateway, "not json object")

	provider := NewOpenAIProvider(srv.URL, "test-key", client)
	_, err := provider.Complete(context.Background(), testRequest())
	if err == nil || !strings.Contains(err.Error(), "api request failed: Bad Gateway") {
		t.Errorf("error = %v, want status text", err)
	}
}

func TestComplete_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-key", srv.Client())
	_, err := provider.Complete(context.Background(), testRequest())
	if !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %T", err)
	}
	if httpErr.RetryAfter != 12*time.Second {
		t.Errorf("RetryAfter = %v, want 12s", httpErr.RetryAfter)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, chatResponse{Choices: nil})

	provider := NewOpenAIProvider(srv.URL, "test-key", client)
	_, err := provider.Complete(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error when LLM returns no choices")
	}
}

func TestComplete_InvalidRequestNotSent(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		mutate func(*ChatRequest)
	}{
		{"missing model", func(r *ChatRequest) { r.Model = "" }},
		{"no messages", func(r *ChatRequest) { r.Messages = nil }},
		{"bad role", func(r *ChatRequest) { r.Messages[0].Role = "tool" }},
		{"empty content", func(r *ChatRequest) { r.Messages[1].Content = "" }},
		{"temperature too high", func(r *ChatRequest) { r.Temperature = 2.5 }},
		{"zero max tokens", func(r *ChatRequest) { r.MaxTokens = 0 }},
		{"max tokens too high", func(r *ChatRequest) { r.MaxTokens = 5000 }},
	}
	provider := NewOpenAIProvider(srv.URL, "key", srv.Client())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			if _, err := provider.Complete(context.Background(), req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if called {
		t.Error("invalid requests must not reach the server")
	}
}

func TestComplete_SendsRequestBody(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		gotReq  ChatRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(okResponse("ok"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "my-secret-key", srv.Client())
	if _, err := provider.Complete(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != "gpt-4" || gotReq.Temperature != 0.7 || gotReq.MaxTokens != 1000 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestDryRunProvider_ReturnsPrompt(t *testing.T) {
	got, err := NewDryRunProvider().Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "--- system ---\nbe brief\n\n--- user ---\nhello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
