package handler

import (
	"net/http"

	"github.com/finboard-ai/workspace-platform/internal/cache"
	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
	"github.com/finboard-ai/workspace-platform/pkg/metrics"
)

// SnapshotHandler handles the capped per-user workspace snapshot cache.
type SnapshotHandler struct {
	workspaces *service.WorkspaceManager
	snapshots  *cache.SnapshotCache
	log        *logger.Logger
}

// NewSnapshotHandler creates a new snapshot handler. The cache may be nil
// when the snapshot bucket is unavailable.
func NewSnapshotHandler(workspaces *service.WorkspaceManager, snapshots *cache.SnapshotCache, log *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{workspaces: workspaces, snapshots: snapshots, log: log}
}

func (h *SnapshotHandler) workspace(r *http.Request) *store.Workspace {
	return h.workspaces.Get(middleware.GetOrgID(r.Context()), middleware.GetUserID(r.Context()))
}

func snapshotKey(ws *store.Workspace) string {
	return ws.OrgID + "." + ws.UserID
}

// Save exports the live registry into a snapshot and prepends it to the
// user's capped list. Live state is untouched.
func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot cache unavailable")
		return
	}

	ws := h.workspace(r)
	snap := ws.ToolResults.Export()
	if err := h.snapshots.Save(r.Context(), snapshotKey(ws), snap); err != nil {
		h.log.Error("failed to save snapshot", "error", err, "org_id", ws.OrgID, "user_id", ws.UserID)
		writeError(w, http.StatusBadGateway, "failed to save snapshot")
		return
	}
	metrics.SnapshotsTotal.Inc()
	writeJSON(w, http.StatusCreated, snap)
}

// List returns the user's snapshot list, newest first.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot cache unavailable")
		return
	}

	ws := h.workspace(r)
	list, err := h.snapshots.List(r.Context(), snapshotKey(ws))
	if err != nil {
		h.log.Error("failed to list snapshots", "error", err, "org_id", ws.OrgID, "user_id", ws.UserID)
		writeError(w, http.StatusBadGateway, "failed to list snapshots")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"snapshots": list})
}
