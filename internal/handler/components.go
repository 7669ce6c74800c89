package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
)

// ComponentHandler handles UI component registration and state, plus the
// named loading flags.
type ComponentHandler struct {
	workspaces *service.WorkspaceManager
	log        *logger.Logger
}

// NewComponentHandler creates a new component handler.
func NewComponentHandler(workspaces *service.WorkspaceManager, log *logger.Logger) *ComponentHandler {
	return &ComponentHandler{workspaces: workspaces, log: log}
}

func (h *ComponentHandler) workspace(r *http.Request) *store.Workspace {
	return h.workspaces.Get(middleware.GetOrgID(r.Context()), middleware.GetUserID(r.Context()))
}

// List returns all component state.
func (h *ComponentHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace(r).Components.Snapshot())
}

// Register creates component state on first reference. Re-registering an
// existing id is a no-op.
func (h *ComponentHandler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateComponentID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Type string `json:"type"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Components.Register(id, body.Type)
	writeJSON(w, http.StatusOK, ws.Components.Snapshot())
}

// Open marks a component open with the given params.
func (h *ComponentHandler) Open(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateComponentID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Params map[string]any `json:"params"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Components.Open(id, body.Params)
	writeJSON(w, http.StatusOK, ws.Components.Snapshot())
}

// Close marks a component closed.
func (h *ComponentHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateComponentID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws := h.workspace(r)
	ws.Components.Close(id)
	writeJSON(w, http.StatusOK, ws.Components.Snapshot())
}

// SetParams replaces a component's params.
func (h *ComponentHandler) SetParams(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateComponentID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Params map[string]any `json:"params"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Components.SetParams(id, body.Params)
	writeJSON(w, http.StatusOK, ws.Components.Snapshot())
}

// Flags returns all loading flags.
func (h *ComponentHandler) Flags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace(r).Flags.Snapshot())
}

// SetFlag assigns a named loading flag.
func (h *ComponentHandler) SetFlag(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "flag name is required")
		return
	}

	var body struct {
		Value bool `json:"value"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Flags.Set(name, body.Value)
	writeJSON(w, http.StatusOK, ws.Flags.Snapshot())
}
