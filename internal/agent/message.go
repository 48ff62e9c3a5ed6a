// Package agent implements the conversational agent core: validated
// messages, a bounded conversation history, the agent entity, and the
// orchestrator that drives one chat turn against a provider.
package agent

import (
	"fmt"
	"strings"

	"github.com/mfreitas/agentchat/internal/llm"
)

// NewMessage builds a validated conversation message. Content must be
// non-blank and the role one of the recognized values.
func NewMessage(role llm.Role, content string) (llm.Message, error) {
	if !role.Valid() {
		return llm.Message{}, &InvalidMessageError{
			Reason: fmt.Sprintf("unrecognized role %q", role),
		}
	}
	if strings.TrimSpace(content) == "" {
		return llm.Message{}, &InvalidMessageError{Reason: "content is empty"}
	}
	return llm.Message{Role: role, Content: content}, nil
}
