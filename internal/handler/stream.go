package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finboard-ai/workspace-platform/internal/model"
	"github.com/finboard-ai/workspace-platform/pkg/metrics"
)

// setSSEHeaders prepares the response for server-sent events.
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// sendSSEEvent writes a named SSE event with a JSON payload and flushes.
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// StreamHandler serves a long-lived SSE connection carrying heartbeats so
// clients can detect stalled connections.
type StreamHandler struct {
	heartbeatInterval time.Duration
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{heartbeatInterval: 15 * time.Second}
}

// Events serves the SSE heartbeat stream.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	setSSEHeaders(w)
	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	if err := sendSSEEvent(w, flusher, "heartbeat", model.HeartbeatEvent{Timestamp: time.Now()}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case t := <-ticker.C:
			if err := sendSSEEvent(w, flusher, "heartbeat", model.HeartbeatEvent{Timestamp: t}); err != nil {
				return
			}
		}
	}
}
