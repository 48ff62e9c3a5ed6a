package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects chat metrics on a dedicated Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	chatsTotal   *prometheus.CounterVec
	chatDuration *prometheus.HistogramVec
	tokensTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers the chat metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		chatsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentchat_chats_total",
			Help: "Total chat turns by agent, provider and status.",
		}, []string{"agent", "provider", "status"}),
		chatDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentchat_chat_duration_seconds",
			Help:    "Chat turn duration.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"agent", "provider"}),
		tokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentchat_tokens_total",
			Help: "Tokens consumed by agent and type.",
		}, []string{"agent", "type"}),
	}
	registry.MustRegister(m.chatsTotal, m.chatDuration, m.tokensTotal)
	return m
}

// RecordChat records one completed chat turn. Nil receivers are allowed
// so callers that run without metrics skip recording entirely.
func (m *Metrics) RecordChat(agent, provider, status string, duration time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.chatsTotal.WithLabelValues(agent, provider, status).Inc()
	m.chatDuration.WithLabelValues(agent, provider).Observe(duration.Seconds())
	m.tokensTotal.WithLabelValues(agent, "input").Add(float64(inputTokens))
	m.tokensTotal.WithLabelValues(agent, "output").Add(float64(outputTokens))
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
