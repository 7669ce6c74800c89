package handler

import (
	"net/http"
	"time"

	"github.com/finboard-ai/workspace-platform/internal/nats"
)

// HealthHandler handles health and readiness checks.
type HealthHandler struct {
	natsClient *nats.Client
	startTime  time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(natsClient *nats.Client) *HealthHandler {
	return &HealthHandler{
		natsClient: natsClient,
		startTime:  time.Now(),
	}
}

// Health returns liveness status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startTime).String(),
	})
}

// Ready returns readiness status, checking downstream dependencies.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if h.natsClient != nil && h.natsClient.IsConnected() {
		checks["nats"] = "ok"
	} else {
		checks["nats"] = "disconnected"
		healthy = false
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
