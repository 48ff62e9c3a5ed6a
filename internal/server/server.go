// Package server exposes the agent facade over HTTP: an in-memory agent
// registry with chat, introspection, and lifecycle endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mfreitas/agentchat/internal/agent"
	"github.com/mfreitas/agentchat/internal/llm"
	"github.com/mfreitas/agentchat/internal/telemetry"
)

// Server is the HTTP facade over the agent core.
type Server struct {
	mux          *http.ServeMux
	server       *http.Server
	logger       *slog.Logger
	metrics      *telemetry.Metrics
	registry     *Registry
	orchestrator *agent.Orchestrator

	defaultModel    string
	historyCapacity int
	apiKey          string
	startTime       time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithAPIKey enables API key authentication.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics serves the metric registry on /metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithDefaults sets the model and history capacity applied when a create
// request omits them.
func WithDefaults(model string, capacity int) Option {
	return func(s *Server) {
		s.defaultModel = model
		s.historyCapacity = capacity
	}
}

// New creates the HTTP facade.
func New(orchestrator *agent.Orchestrator, opts ...Option) *Server {
	s := &Server{
		logger:          slog.Default(),
		registry:        NewRegistry(),
		orchestrator:    orchestrator,
		historyCapacity: agent.DefaultHistoryCapacity,
		startTime:       time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /v1/agents", s.handleListAgents)
	mux.HandleFunc("POST /v1/agents", s.handleCreateAgent)
	mux.HandleFunc("GET /v1/agents/{id}", s.handleDescribeAgent)
	mux.HandleFunc("POST /v1/agents/{id}/chat", s.handleChat)
	mux.HandleFunc("DELETE /v1/agents/{id}/history", s.handleClearHistory)
	mux.HandleFunc("DELETE /v1/agents/{id}", s.handleDeleteAgent)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux = mux
	return s
}

// Handler returns the HTTP handler for use with httptest or custom servers.
func (s *Server) Handler() http.Handler {
	return s.authMiddleware(s.mux)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.authMiddleware(s.mux),
	}
	s.logger.Info("server starting", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("X-API-Key")
		if key == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				key = auth[7:]
			}
		}
		if key != s.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- request/response types ---

type createAgentRequest struct {
	Name            string `json:"name"`
	Instructions    string `json:"instructions"`
	Model           string `json:"model"`
	Provider        string `json:"provider,omitempty"`
	HistoryCapacity int    `json:"history_capacity,omitempty"`
}

type agentResponse struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Agent     agent.Snapshot `json:"agent"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	if req.Model == "" {
		req.Model = s.defaultModel
	}
	if req.HistoryCapacity == 0 {
		req.HistoryCapacity = s.historyCapacity
	}

	ag, err := agent.New(agent.Config{
		Name:            req.Name,
		Instructions:    req.Instructions,
		Model:           req.Model,
		Provider:        req.Provider,
		HistoryCapacity: req.HistoryCapacity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entry := s.registry.Add(ag)
	s.logger.Info("agent created", "id", entry.ID, "name", ag.Name(), "model", ag.Model())
	writeJSON(w, http.StatusCreated, agentResponse{
		ID:        entry.ID,
		CreatedAt: entry.CreatedAt,
		Agent:     ag.Describe(),
	})
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	entries := s.registry.List()
	out := make([]agentResponse, 0, len(entries))
	for _, e := range entries {
		e.Lock()
		out = append(out, agentResponse{ID: e.ID, CreatedAt: e.CreatedAt, Agent: e.Agent.Describe()})
		e.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": out})
}

func (s *Server) handleDescribeAgent(w http.ResponseWriter, r *http.Request) {
	entry, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	entry.Lock()
	defer entry.Unlock()
	writeJSON(w, http.StatusOK, agentResponse{
		ID:        entry.ID,
		CreatedAt: entry.CreatedAt,
		Agent:     entry.Agent.Describe(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	entry, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	entry.Lock()
	defer entry.Unlock()

	reply, err := s.orchestrator.Send(r.Context(), entry.Agent, req.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	entry, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	entry.Lock()
	entry.Agent.ClearHistory()
	entry.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps core error kinds onto HTTP statuses so API
// clients can branch on cause the same way library callers do.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		agentCfg   *agent.InvalidAgentConfigError
		histCfg    *agent.InvalidHistoryConfigError
		invalidMsg *agent.InvalidMessageError
		unsupp     *llm.UnsupportedModelError
		notFound   *llm.AdapterNotFoundError
		provErr    *llm.ProviderError
	)

	switch {
	case errors.Is(err, agent.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "empty_message", err.Error())
	case errors.As(err, &agentCfg), errors.As(err, &histCfg), errors.As(err, &invalidMsg):
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
	case errors.As(err, &unsupp), errors.As(err, &notFound):
		writeError(w, http.StatusBadRequest, "unresolvable_provider", err.Error())
	case errors.As(err, &provErr):
		status := http.StatusBadGateway
		if provErr.Kind == llm.ErrKindRateLimited {
			status = http.StatusTooManyRequests
		}
		writeError(w, status, "provider_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
