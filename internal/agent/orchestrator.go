package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mfreitas/agentchat/internal/llm"
	"github.com/mfreitas/agentchat/internal/telemetry"
)

const defaultMaxTokens = 4096

// Orchestrator drives chat turns: it appends the user message, invokes
// the resolved provider with the agent's instructions plus the trimmed
// history, and appends the assistant reply. One call, one turn; each
// call blocks until the provider responds or fails.
type Orchestrator struct {
	registry  *llm.Registry
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	maxTokens int
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics enables metric recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithMaxTokens caps the provider's reply length per turn.
func WithMaxTokens(n int) Option {
	return func(o *Orchestrator) { o.maxTokens = n }
}

// NewOrchestrator creates an orchestrator backed by the given provider
// registry.
func NewOrchestrator(registry *llm.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:  registry,
		logger:    slog.Default(),
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Send submits one user message to the agent and returns the assistant
// reply. On any provider failure no assistant message is appended, so
// the history never records a partial turn: the user message stays in
// place and the caller may retry the same logical turn.
func (o *Orchestrator) Send(ctx context.Context, ag *Agent, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	ctx = telemetry.WithTurnID(ctx, ulid.Make().String())
	logger := telemetry.TurnLogger(o.logger, ctx, ag.Name())

	userMsg, err := NewMessage(llm.RoleUser, text)
	if err != nil {
		return "", err
	}
	ag.History().Append(userMsg)

	provider, client, err := o.registry.ResolveClient(ag.Model(), ag.ProviderHint())
	if err != nil {
		return "", err
	}

	logger.Info("sending chat turn",
		"model", ag.Model(),
		"provider", provider,
		"window", ag.History().Len(),
	)

	start := time.Now()
	resp, err := client.Chat(ctx, llm.ChatRequest{
		Model:     ag.Model(),
		System:    ag.Instructions(),
		Messages:  ag.History().Messages(),
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		o.metrics.RecordChat(ag.Name(), string(provider), "error", time.Since(start), 0, 0)
		logger.Error("chat turn failed", "error", err)
		return "", &ChatError{Agent: ag.Name(), Err: err}
	}

	if strings.TrimSpace(resp.Content) == "" {
		o.metrics.RecordChat(ag.Name(), string(provider), "error", time.Since(start),
			resp.Usage.InputTokens, resp.Usage.OutputTokens)
		logger.Error("provider returned an empty reply")
		return "", &ChatError{
			Agent: ag.Name(),
			Err: &llm.ProviderError{
				Provider: provider,
				Kind:     llm.ErrKindMalformedResponse,
				Message:  "empty reply",
			},
		}
	}

	assistantMsg, err := NewMessage(llm.RoleAssistant, resp.Content)
	if err != nil {
		return "", &ChatError{Agent: ag.Name(), Err: err}
	}
	ag.History().Append(assistantMsg)

	o.metrics.RecordChat(ag.Name(), string(provider), "ok", time.Since(start),
		resp.Usage.InputTokens, resp.Usage.OutputTokens)
	logger.Info("chat turn completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return resp.Content, nil
}
