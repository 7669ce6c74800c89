package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/model"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
)

// ConversationHandler handles conversation-list and session-chrome state.
type ConversationHandler struct {
	workspaces *service.WorkspaceManager
	log        *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(workspaces *service.WorkspaceManager, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{workspaces: workspaces, log: log}
}

func (h *ConversationHandler) workspace(r *http.Request) *store.Workspace {
	return h.workspaces.Get(middleware.GetOrgID(r.Context()), middleware.GetUserID(r.Context()))
}

// Workspace returns the full workspace snapshot.
func (h *ConversationHandler) Workspace(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": ws.Conversations.Snapshot(),
		"tool_results":  ws.ToolResults.Snapshot(),
		"components":    ws.Components.Snapshot(),
		"flags":         ws.Flags.Snapshot(),
		"selection":     ws.Selection.Snapshot(),
	})
}

// List returns the conversation store snapshot.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace(r).Conversations.Snapshot())
}

// Initialize discards any pending conversation and starts a fresh one.
func (h *ConversationHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AssistantID string `json:"assistant_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv := h.workspace(r).Conversations.InitializeNewConversation(body.AssistantID)
	writeJSON(w, http.StatusCreated, conv)
}

// Load replaces the confirmed conversation list from the backend listing.
// Sessions of conversations already in memory survive the reload.
func (h *ConversationHandler) Load(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Conversations []model.Conversation `json:"conversations"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Conversations.LoadConfirmedList(body.Conversations)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}

// Activate moves the active-conversation pointer.
func (h *ConversationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.workspace(r).Conversations.SetActiveConversation(id) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active_conversation_id": id})
}

// Remove deletes a confirmed conversation. Removing the active conversation
// repairs the pointer; an unknown id is absorbed.
func (h *ConversationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws := h.workspace(r)
	ws.Conversations.RemoveConversation(id)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}

// Rename renames a conversation.
func (h *ConversationHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTitle(body.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.workspace(r).Conversations.RenameConversation(id, body.Name) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": body.Name})
}

// SetActiveMessage sets or clears the active-message pointer on the active
// conversation. The response-panel width moves with it.
func (h *ConversationHandler) SetActiveMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MessageID string `json:"message_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Conversations.SetActiveMessageID(body.MessageID)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}

// SetPanelWidth sets the response-panel width, clamped to [0,100].
func (h *ConversationHandler) SetPanelWidth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Width int `json:"width"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Conversations.SetResponsePanelWidth(body.Width)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}

// SetSidebar toggles the sidebar on the active conversation.
func (h *ConversationHandler) SetSidebar(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Open bool `json:"open"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Conversations.SetSidebarOpen(body.Open)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}

// SetResponding sets the responding flag on the active conversation, for
// surfaces that drive turns outside the streaming endpoint.
func (h *ConversationHandler) SetResponding(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Responding bool `json:"responding"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Conversations.SetResponding(body.Responding)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}

// SetVariant selects a response variant on the active conversation.
func (h *ConversationHandler) SetVariant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Variant int `json:"variant"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Conversations.SetSelectedVariant(body.Variant)
	writeJSON(w, http.StatusOK, ws.Conversations.Snapshot())
}
