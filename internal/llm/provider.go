package llm

import (
	"fmt"
	"strings"
)

// Provider identifies a chat provider backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// UnsupportedModelError is returned when a model string cannot be mapped
// to any provider and no hint was given.
type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model: %q", e.Model)
}

// AdapterNotFoundError is returned when an explicit provider hint names
// a provider this build does not know about.
type AdapterNotFoundError struct {
	Hint string
}

func (e *AdapterNotFoundError) Error() string {
	return fmt.Sprintf("adapter not found: %q", e.Hint)
}

// Resolve maps a model identifier plus an optional explicit provider hint
// to a provider. It is pure and deterministic: no I/O, no environment.
//
// Decision order:
//
//  1. A recognized hint wins. An unrecognized hint fails with
//     AdapterNotFoundError.
//  2. Hosted model naming patterns: "gpt-*", "o1*"/"o3*"/"o4*" → openai,
//     "claude*" → anthropic.
//  3. Anything else defaults to the local ollama backend, so unprefixed
//     local model names ("phi4-mini:latest", "llama3.2") route without
//     configuration. Typos in hosted model names land here too; callers
//     that want strict routing should pass a hint.
//
// A blank model fails with UnsupportedModelError.
func Resolve(model, hint string) (Provider, error) {
	if strings.TrimSpace(model) == "" {
		return "", &UnsupportedModelError{Model: model}
	}

	if hint != "" {
		switch Provider(strings.ToLower(strings.TrimSpace(hint))) {
		case ProviderOpenAI:
			return ProviderOpenAI, nil
		case ProviderAnthropic:
			return ProviderAnthropic, nil
		case ProviderOllama, Provider("local"):
			return ProviderOllama, nil
		default:
			return "", &AdapterNotFoundError{Hint: hint}
		}
	}

	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "gpt-"),
		strings.HasPrefix(lower, "o1"),
		strings.HasPrefix(lower, "o3"),
		strings.HasPrefix(lower, "o4"):
		return ProviderOpenAI, nil
	case strings.HasPrefix(lower, "claude"):
		return ProviderAnthropic, nil
	}

	return ProviderOllama, nil
}

// RegistryConfig carries the already-resolved credentials and endpoints
// needed to construct concrete clients. Loading and validating these
// values is the configuration layer's job; the registry only consumes.
type RegistryConfig struct {
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	OllamaHost      string
}

// Registry holds one constructed client per provider. Clients are built
// once up front and reused across calls; the registry itself is immutable
// after construction apart from test overrides via Register.
type Registry struct {
	clients map[Provider]Client
}

// NewRegistry constructs clients for every provider from cfg.
func NewRegistry(cfg RegistryConfig) *Registry {
	openai := NewOpenAIClient(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		openai = NewOpenAICompatibleClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	}

	return &Registry{
		clients: map[Provider]Client{
			ProviderOpenAI:    openai,
			ProviderAnthropic: NewAnthropicClient(cfg.AnthropicAPIKey),
			ProviderOllama:    NewOllamaClient(cfg.OllamaHost),
		},
	}
}

// Register replaces the client for a provider. Intended for tests that
// substitute a mock transport.
func (r *Registry) Register(p Provider, c Client) {
	r.clients[p] = c
}

// Client returns the constructed client for a provider.
func (r *Registry) Client(p Provider) (Client, error) {
	c, ok := r.clients[p]
	if !ok {
		return nil, &AdapterNotFoundError{Hint: string(p)}
	}
	return c, nil
}

// ResolveClient resolves the provider for a model/hint pair and returns
// it together with its transport handle.
func (r *Registry) ResolveClient(model, hint string) (Provider, Client, error) {
	p, err := Resolve(model, hint)
	if err != nil {
		return "", nil, err
	}
	c, err := r.Client(p)
	if err != nil {
		return "", nil, err
	}
	return p, c, nil
}
