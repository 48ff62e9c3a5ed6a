package llm

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		hint         string
		wantProvider Provider
	}{
		{name: "gpt prefix routes to openai", model: "gpt-4", wantProvider: ProviderOpenAI},
		{name: "gpt-5-mini routes to openai", model: "gpt-5-mini", wantProvider: ProviderOpenAI},
		{name: "o1 prefix routes to openai", model: "o1-preview", wantProvider: ProviderOpenAI},
		{name: "o3 prefix routes to openai", model: "o3-mini", wantProvider: ProviderOpenAI},
		{name: "o4 prefix routes to openai", model: "o4-mini", wantProvider: ProviderOpenAI},
		{name: "claude prefix routes to anthropic", model: "claude-sonnet-4-20250514", wantProvider: ProviderAnthropic},
		{name: "unknown model defaults to local", model: "phi4-mini:latest", wantProvider: ProviderOllama},
		{name: "llama defaults to local", model: "llama3.2", wantProvider: ProviderOllama},
		{name: "hint overrides pattern", model: "gpt-4", hint: "ollama", wantProvider: ProviderOllama},
		{name: "local hint aliases ollama", model: "mistral", hint: "local", wantProvider: ProviderOllama},
		{name: "openai hint", model: "whatever", hint: "openai", wantProvider: ProviderOpenAI},
		{name: "anthropic hint", model: "whatever", hint: "anthropic", wantProvider: ProviderAnthropic},
		{name: "hint is case-insensitive", model: "whatever", hint: "OpenAI", wantProvider: ProviderOpenAI},
		{name: "uppercase model pattern", model: "GPT-4o", wantProvider: ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.model, tt.hint)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) returned error: %v", tt.model, tt.hint, err)
			}
			if got != tt.wantProvider {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.model, tt.hint, got, tt.wantProvider)
			}

			// Resolution must be idempotent.
			again, err := Resolve(tt.model, tt.hint)
			if err != nil || again != got {
				t.Errorf("repeated Resolve(%q, %q) = %q, %v; want %q, nil", tt.model, tt.hint, again, err, got)
			}
		})
	}
}

func TestResolveBlankModel(t *testing.T) {
	for _, model := range []string{"", "   "} {
		_, err := Resolve(model, "")
		var unsupported *UnsupportedModelError
		if !errors.As(err, &unsupported) {
			t.Errorf("Resolve(%q, \"\") error = %v, want UnsupportedModelError", model, err)
		}
	}
}

func TestResolveUnknownHint(t *testing.T) {
	_, err := Resolve("gpt-4", "bedrock")
	var notFound *AdapterNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected AdapterNotFoundError, got %v", err)
	}
	if notFound.Hint != "bedrock" {
		t.Errorf("expected hint %q in error, got %q", "bedrock", notFound.Hint)
	}
}

func TestRegistryResolveClient(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	provider, client, err := reg.ResolveClient("gpt-4", "")
	if err != nil {
		t.Fatalf("ResolveClient returned error: %v", err)
	}
	if provider != ProviderOpenAI {
		t.Errorf("expected openai provider, got %q", provider)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}

	if _, _, err := reg.ResolveClient("gpt-4", "nope"); err == nil {
		t.Error("expected error for unknown hint")
	}
}

func TestRegistryRegisterOverride(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})
	mock := NewMockClient(MockResponse{Content: "hi"})
	reg.Register(ProviderOpenAI, mock)

	_, client, err := reg.ResolveClient("gpt-4", "")
	if err != nil {
		t.Fatalf("ResolveClient returned error: %v", err)
	}
	if client != Client(mock) {
		t.Error("expected registered mock client to be returned")
	}
}

func TestRegistryOpenAIBaseURL(t *testing.T) {
	reg := NewRegistry(RegistryConfig{OpenAIBaseURL: "http://localhost:8000/v1"})
	c, err := reg.Client(ProviderOpenAI)
	if err != nil {
		t.Fatalf("Client returned error: %v", err)
	}
	oai, ok := c.(*OpenAIClient)
	if !ok {
		t.Fatalf("expected *OpenAIClient, got %T", c)
	}
	if oai.baseURL != "http://localhost:8000/v1" {
		t.Errorf("expected custom base URL, got %q", oai.baseURL)
	}
}
