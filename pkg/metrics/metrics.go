// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AssistantStreamDuration tracks assistant streaming response duration.
	AssistantStreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_stream_duration_seconds",
			Help:    "Assistant streaming response duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"model", "status"},
	)

	// AssistantTokensTotal tracks total assistant tokens processed.
	AssistantTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tokens_total",
			Help: "Total assistant tokens processed",
		},
		[]string{"model", "direction"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// WorkspacesActive tracks the number of live in-memory workspaces.
	WorkspacesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workspaces_active",
			Help: "Number of active user workspaces",
		},
	)

	// ConversationsTotal tracks conversations promoted from pending to confirmed.
	ConversationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversations_total",
			Help: "Total conversations confirmed",
		},
		[]string{"org_id"},
	)

	// MessagesTotal tracks total messages appended.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages appended",
		},
		[]string{"org_id", "role"},
	)

	// ToolResultsTotal tracks tool results ingested by classified kind.
	ToolResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_results_total",
			Help: "Total tool results ingested",
		},
		[]string{"kind"},
	)

	// SnapshotsTotal tracks workspace snapshots exported to the cache.
	SnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshots_total",
			Help: "Total workspace snapshots exported",
		},
	)

	// DuplicateRequestsAborted tracks in-flight duplicates rejected by the deduper.
	DuplicateRequestsAborted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_requests_aborted_total",
			Help: "Duplicate in-flight requests aborted before reaching a handler",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAssistantStream records metrics for an assistant streaming response.
func RecordAssistantStream(model, status string, duration float64, tokensIn, tokensOut int) {
	AssistantStreamDuration.WithLabelValues(model, status).Observe(duration)
	AssistantTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	AssistantTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
