// Package telemetry provides logging and metrics for the agentchat runtime.
package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey string

const turnIDKey contextKey = "turn_id"

// NewLogger creates a structured JSON logger. Attribute values whose keys
// look like credentials are redacted before they are written.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: RedactAttr,
	})
	return slog.New(handler)
}

// WithTurnID adds a chat turn ID to the context.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnIDKey, id)
}

// TurnID retrieves the chat turn ID from context, if any.
func TurnID(ctx context.Context) string {
	if id, ok := ctx.Value(turnIDKey).(string); ok {
		return id
	}
	return ""
}

// TurnLogger returns a logger with turn-scoped fields.
func TurnLogger(logger *slog.Logger, ctx context.Context, agent string) *slog.Logger {
	attrs := []any{
		slog.String("agent", agent),
	}
	if id := TurnID(ctx); id != "" {
		attrs = append(attrs, slog.String("turn_id", id))
	}
	return logger.With(attrs...)
}
