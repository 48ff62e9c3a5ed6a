package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionResponse(content string, prompt, completion int) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{
			"prompt_tokens":     prompt,
			"completion_tokens": completion,
		},
	}
}

func TestOpenAIClientChat(t *testing.T) {
	var gotReq oaiRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(completionResponse("hello there", 12, 5))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient(srv.URL+"/v1", "sk-test")
	resp, err := client.Chat(context.Background(), ChatRequest{
		Model:  "gpt-4",
		System: "be helpful",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
		},
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	if resp.Content != "hello there" {
		t.Errorf("expected content 'hello there', got %q", resp.Content)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}

	// System prompt must arrive as the first wire message.
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected 2 wire messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "be helpful" {
		t.Errorf("expected leading system message, got %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "hi" {
		t.Errorf("expected user message, got %+v", gotReq.Messages[1])
	}
}

func TestOpenAIClientErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind ErrorKind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantKind: ErrKindAuth},
		{name: "forbidden", status: http.StatusForbidden, wantKind: ErrKindAuth},
		{name: "rate limited", status: http.StatusTooManyRequests, wantKind: ErrKindRateLimited},
		{name: "server error", status: http.StatusInternalServerError, wantKind: ErrKindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "test_error", "message": "boom"},
				})
			}))
			defer srv.Close()

			client := NewOpenAICompatibleClient(srv.URL, "sk-test")
			_, err := client.Chat(context.Background(), ChatRequest{
				Model:    "gpt-4",
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			})

			var provErr *ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if provErr.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, provErr.Kind)
			}
		})
	}
}

func TestOpenAIClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient(srv.URL, "")
	_, err := client.Chat(context.Background(), ChatRequest{
		Model:    "gpt-4",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Kind != ErrKindMalformedResponse {
		t.Errorf("expected malformed_response kind, got %q", provErr.Kind)
	}
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient(srv.URL, "")
	_, err := client.Chat(context.Background(), ChatRequest{
		Model:    "gpt-4",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Kind != ErrKindMalformedResponse {
		t.Errorf("expected malformed_response kind, got %q", provErr.Kind)
	}
}

func TestOpenAIClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewOpenAICompatibleClient(srv.URL, "")
	_, err := client.Chat(context.Background(), ChatRequest{
		Model:    "gpt-4",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Kind != ErrKindNetwork {
		t.Errorf("expected network kind, got %q", provErr.Kind)
	}
}

func TestNewOllamaClientDefaults(t *testing.T) {
	c := NewOllamaClient("")
	if c.baseURL != "http://localhost:11434/v1" {
		t.Errorf("expected default ollama base URL, got %q", c.baseURL)
	}
	if c.provider != ProviderOllama {
		t.Errorf("expected ollama provider tag, got %q", c.provider)
	}

	c = NewOllamaClient("http://gpu-box:11434/")
	if c.baseURL != "http://gpu-box:11434/v1" {
		t.Errorf("expected trimmed host + /v1, got %q", c.baseURL)
	}
}

func TestMockClientSequence(t *testing.T) {
	mock := NewMockClient(
		MockResponse{Content: "first"},
		MockResponse{Content: "second"},
	)

	ctx := context.Background()
	req := ChatRequest{Model: "m", Messages: []Message{{Role: RoleUser, Content: "x"}}}

	for i, want := range []string{"first", "second", "second"} {
		resp, err := mock.Chat(ctx, req)
		if err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
		if resp.Content != want {
			t.Errorf("call %d: expected %q, got %q", i, want, resp.Content)
		}
	}

	if len(mock.Calls()) != 3 {
		t.Errorf("expected 3 recorded calls, got %d", len(mock.Calls()))
	}
}
