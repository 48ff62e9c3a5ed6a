package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mfreitas/agentchat/internal/agent"
)

// Entry is a registered agent plus its serialization lock. An agent's
// history is not safe for concurrent mutation, so every chat turn and
// history mutation for one agent runs under its mutex.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Agent     *agent.Agent

	mu sync.Mutex
}

// Lock serializes access to the entry's agent.
func (e *Entry) Lock() { e.mu.Lock() }

// Unlock releases the entry's agent.
func (e *Entry) Unlock() { e.mu.Unlock() }

// Registry is the in-memory agent store backing the HTTP facade.
// Agents live for the process lifetime only.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Add registers an agent and assigns it an ID.
func (r *Registry) Add(ag *agent.Agent) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := &Entry{
		ID:        ulid.Make().String(),
		CreatedAt: time.Now(),
		Agent:     ag,
	}
	r.entries[entry.ID] = entry
	return entry
}

// Get retrieves an agent entry by ID.
func (r *Registry) Get(id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("agent %q not found", id)
	}
	return entry, nil
}

// Delete removes an agent by ID.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("agent %q not found", id)
	}
	delete(r.entries, id)
	return nil
}

// List returns all entries sorted by ID. IDs are time-prefixed ULIDs,
// so this tracks creation order.
func (r *Registry) List() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
