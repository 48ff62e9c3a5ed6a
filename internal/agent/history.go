package agent

import (
	"github.com/mfreitas/agentchat/internal/llm"
)

// DefaultHistoryCapacity is the history bound used when the caller does
// not specify one.
const DefaultHistoryCapacity = 10

// History is a bounded, ordered sequence of conversation messages.
// Appending beyond capacity silently evicts the oldest entries (FIFO),
// so the window always holds the most recent messages in chronological
// order. The bound caps the context forwarded to the provider on every
// turn. Not safe for concurrent use.
type History struct {
	capacity int
	entries  []llm.Message
}

// NewHistory creates an empty history with the given capacity.
func NewHistory(capacity int) (*History, error) {
	if capacity <= 0 {
		return nil, &InvalidHistoryConfigError{Capacity: capacity}
	}
	return &History{
		capacity: capacity,
		entries:  make([]llm.Message, 0, capacity),
	}, nil
}

// Append inserts a message at the end, evicting from the front when the
// capacity would be exceeded. Eviction is silent and expected.
func (h *History) Append(m llm.Message) {
	h.entries = append(h.entries, m)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// Messages returns the surviving window in chronological order, oldest
// first. The returned slice is a copy.
func (h *History) Messages() []llm.Message {
	out := make([]llm.Message, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the current message count.
func (h *History) Len() int { return len(h.entries) }

// Capacity returns the maximum number of retained messages.
func (h *History) Capacity() int { return h.capacity }

// Clear empties the history in place.
func (h *History) Clear() { h.entries = h.entries[:0] }
