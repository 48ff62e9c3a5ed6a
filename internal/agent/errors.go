package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMessage is returned when a caller submits a blank user message.
// Nothing is mutated; the caller may resubmit a valid message.
var ErrEmptyMessage = errors.New("message content is empty")

// InvalidMessageError is a construction-time message validation failure.
type InvalidMessageError struct {
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("invalid message: %s", e.Reason)
}

// InvalidHistoryConfigError is returned for a non-positive history capacity.
type InvalidHistoryConfigError struct {
	Capacity int
}

func (e *InvalidHistoryConfigError) Error() string {
	return fmt.Sprintf("invalid history capacity %d: must be greater than zero", e.Capacity)
}

// InvalidAgentConfigError is a construction-time agent validation failure.
// Fields names every invalid field so the caller can fix all of them at once.
type InvalidAgentConfigError struct {
	Fields []string
}

func (e *InvalidAgentConfigError) Error() string {
	return fmt.Sprintf("invalid agent config: %s", strings.Join(e.Fields, ", "))
}

// ChatError wraps a provider or transport failure during a chat turn.
// The user message appended before the failure is retained so the caller
// can retry the same logical turn.
type ChatError struct {
	Agent string
	Err   error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("chat with agent %q failed: %v", e.Agent, e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }
