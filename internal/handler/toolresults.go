package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
)

// ToolResultHandler handles the tool-result registry.
type ToolResultHandler struct {
	workspaces *service.WorkspaceManager
	assistant  *service.AssistantService
	log        *logger.Logger
}

// NewToolResultHandler creates a new tool-result handler.
func NewToolResultHandler(workspaces *service.WorkspaceManager, assistant *service.AssistantService, log *logger.Logger) *ToolResultHandler {
	return &ToolResultHandler{workspaces: workspaces, assistant: assistant, log: log}
}

func (h *ToolResultHandler) workspace(r *http.Request) *store.Workspace {
	return h.workspaces.Get(middleware.GetOrgID(r.Context()), middleware.GetUserID(r.Context()))
}

// List returns the registry snapshot.
func (h *ToolResultHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace(r).ToolResults.Snapshot())
}

// Ingest classifies a terminal tool payload and upserts it into the registry.
// The result becomes active regardless of whether it replaced an entry.
func (h *ToolResultHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ConversationID string `json:"conversation_id"`
		ToolCallID     string `json:"tool_call_id"`
		ToolName       string `json:"tool_name"`
		Payload        string `json:"payload"`
		MessageID      string `json:"message_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ToolCallID == "" {
		writeError(w, http.StatusBadRequest, "tool_call_id is required")
		return
	}

	ws := h.workspace(r)
	res := h.assistant.HandleToolResult(r.Context(), ws, body.ConversationID, body.ToolCallID, body.ToolName, body.Payload, body.MessageID)
	writeJSON(w, http.StatusCreated, res)
}

// SetActive moves the active-result pointer. The pointer is set
// unconditionally; the view layer filters unknown ids.
func (h *ToolResultHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ToolCallID string `json:"tool_call_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.ToolResults.SetActive(body.ToolCallID)
	writeJSON(w, http.StatusOK, ws.ToolResults.Snapshot())
}

// Remove deletes a result by tool-call id, repairing the active pointer.
func (h *ToolResultHandler) Remove(w http.ResponseWriter, r *http.Request) {
	toolCallID := chi.URLParam(r, "toolCallID")
	if toolCallID == "" {
		writeError(w, http.StatusBadRequest, "tool call id is required")
		return
	}

	ws := h.workspace(r)
	ws.ToolResults.Remove(toolCallID)
	writeJSON(w, http.StatusOK, ws.ToolResults.Snapshot())
}

// Reset clears the registry, the active pointer and the editable-code buffer.
func (h *ToolResultHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	ws.ToolResults.Reset()
	writeJSON(w, http.StatusOK, ws.ToolResults.Snapshot())
}

// SetEditableCode stores the user-edited code buffer.
func (h *ToolResultHandler) SetEditableCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.ToolResults.SetEditableCode(body.Code)
	writeJSON(w, http.StatusOK, ws.ToolResults.Snapshot())
}
