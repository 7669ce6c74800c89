package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/model"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
	"github.com/finboard-ai/workspace-platform/pkg/metrics"
)

// MessageHandler handles message sends, replacements and conversation replay.
type MessageHandler struct {
	workspaces *service.WorkspaceManager
	assistant  *service.AssistantService
	log        *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(workspaces *service.WorkspaceManager, assistant *service.AssistantService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{workspaces: workspaces, assistant: assistant, log: log}
}

func (h *MessageHandler) workspace(r *http.Request) *store.Workspace {
	return h.workspaces.Get(middleware.GetOrgID(r.Context()), middleware.GetUserID(r.Context()))
}

// Send runs one assistant turn and streams the reply over SSE. Sending the
// first user message into the pending conversation promotes it in the same
// store operation as the append.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(body.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	setSSEHeaders(w)
	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	ws := h.workspace(r)
	_, err := h.assistant.SendWithStream(r.Context(), ws, id, body.Content, func(event string, data interface{}) error {
		return sendSSEEvent(w, flusher, event, data)
	})
	if err != nil {
		h.log.Error("assistant turn failed",
			"error", err,
			"conversation_id", id,
			"org_id", ws.OrgID,
		)
		sendSSEEvent(w, flusher, "error", model.ErrorEvent{
			Code:    "stream_failed",
			Message: "assistant stream failed",
		})
		return
	}
}

// Append appends a message without running an assistant turn, for messages
// originating outside the chat input. Appending a user message to the pending
// conversation still promotes it.
func (h *MessageHandler) Append(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var msg model.Message
	if err := decodeBody(r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg.ID == "" {
		writeError(w, http.StatusBadRequest, "message id is required")
		return
	}

	ws := h.workspace(r)
	if !ws.Conversations.AppendMessage(id, msg) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	metrics.MessagesTotal.WithLabelValues(ws.OrgID, string(msg.Role)).Inc()
	writeJSON(w, http.StatusCreated, msg)
}

// Replace overwrites a message by id. Tool-call positions on the existing
// message survive the replacement.
func (h *MessageHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	messageID := chi.URLParam(r, "messageID")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var msg model.Message
	if err := decodeBody(r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg.ID = messageID

	if !h.workspace(r).Conversations.ReplaceMessage(id, msg) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Replay hydrates a conversation from its backend records.
func (h *MessageHandler) Replay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Limit int `json:"limit"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	count, err := h.assistant.Replay(r.Context(), ws, id, body.Limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "replay failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":       count,
		"conversations": ws.Conversations.Snapshot(),
		"tool_results":  ws.ToolResults.Snapshot(),
	})
}
