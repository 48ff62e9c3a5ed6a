package agent

import (
	"strings"

	"github.com/mfreitas/agentchat/internal/llm"
)

// Config carries the caller-supplied agent settings. It is validated as
// a whole by New; all invalid fields are reported together.
type Config struct {
	// Name identifies the agent. Required.
	Name string
	// Instructions is the fixed system prompt. Required, immutable
	// after creation.
	Instructions string
	// Model is the model identifier forwarded to the provider. Required.
	Model string
	// Provider optionally forces a provider instead of pattern-based
	// resolution ("openai", "anthropic", "ollama", "local").
	Provider string
	// HistoryCapacity bounds the retained conversation window.
	// Zero means DefaultHistoryCapacity.
	HistoryCapacity int
}

// Agent is a named conversational entity bound to one model/provider and
// one bounded history. Identity, instructions, and model are immutable
// after creation; only the history mutates over the agent's lifetime.
// An Agent is not safe for concurrent use; concurrent conversations each
// need their own instance.
type Agent struct {
	name         string
	instructions string
	model        string
	hint         string
	provider     llm.Provider
	history      *History
}

// New validates cfg and returns a fully formed agent with an empty
// history. The model is checked for resolvability without any network
// call; an unknown provider hint surfaces as AdapterNotFoundError.
func New(cfg Config) (*Agent, error) {
	var invalid []string
	if strings.TrimSpace(cfg.Name) == "" {
		invalid = append(invalid, "name")
	}
	if strings.TrimSpace(cfg.Instructions) == "" {
		invalid = append(invalid, "instructions")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		invalid = append(invalid, "model")
	}
	if len(invalid) > 0 {
		return nil, &InvalidAgentConfigError{Fields: invalid}
	}

	provider, err := llm.Resolve(cfg.Model, cfg.Provider)
	if err != nil {
		return nil, err
	}

	capacity := cfg.HistoryCapacity
	if capacity == 0 {
		capacity = DefaultHistoryCapacity
	}
	history, err := NewHistory(capacity)
	if err != nil {
		return nil, err
	}

	return &Agent{
		name:         cfg.Name,
		instructions: cfg.Instructions,
		model:        cfg.Model,
		hint:         cfg.Provider,
		provider:     provider,
		history:      history,
	}, nil
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Instructions returns the fixed system prompt.
func (a *Agent) Instructions() string { return a.instructions }

// Model returns the model identifier.
func (a *Agent) Model() string { return a.model }

// Provider returns the provider resolved at creation time.
func (a *Agent) Provider() llm.Provider { return a.provider }

// ProviderHint returns the explicit provider hint, if any.
func (a *Agent) ProviderHint() string { return a.hint }

// History returns the agent's owned conversation history.
func (a *Agent) History() *History { return a.history }

// ClearHistory empties the conversation window.
func (a *Agent) ClearHistory() { a.history.Clear() }

// Snapshot is a read-only view of an agent's state.
type Snapshot struct {
	Name         string        `json:"name"`
	Model        string        `json:"model"`
	Instructions string        `json:"instructions"`
	Provider     llm.Provider  `json:"provider"`
	History      []llm.Message `json:"history"`
}

// Describe returns a snapshot of the agent without mutating it.
func (a *Agent) Describe() Snapshot {
	return Snapshot{
		Name:         a.name,
		Model:        a.model,
		Instructions: a.instructions,
		Provider:     a.provider,
		History:      a.history.Messages(),
	}
}
