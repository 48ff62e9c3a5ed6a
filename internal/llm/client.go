// Package llm defines the chat provider abstraction consumed by the agent core.
package llm

import (
	"context"
	"fmt"
)

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single conversation turn in wire form.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenUsage tracks token consumption reported by a provider for one call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns the sum of input and output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// ChatRequest contains the parameters for a single chat call.
type ChatRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// ChatResponse contains the provider's reply to a chat call.
type ChatResponse struct {
	Content string     `json:"content"`
	Usage   TokenUsage `json:"usage"`
}

// Client is the single capability the agent core consumes from a provider.
type Client interface {
	// Chat sends the system prompt plus conversation window and returns
	// the complete reply. It blocks until the provider responds, the
	// context is cancelled, or the call fails.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ErrorKind classifies a provider failure so callers can branch on cause.
type ErrorKind string

const (
	ErrKindNetwork           ErrorKind = "network"
	ErrKindAuth              ErrorKind = "auth"
	ErrKindMalformedResponse ErrorKind = "malformed_response"
	ErrKindRateLimited       ErrorKind = "rate_limited"
)

// ProviderError is a transport or provider failure during a chat call.
type ProviderError struct {
	Provider Provider
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error { return e.Err }
