package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
)

// identityStub injects a fixed org/user pair, standing in for Auth.
func identityStub(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, "user-1")
		ctx = context.WithValue(ctx, middleware.OrgIDKey, "org-1")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newConversationRouter(t *testing.T) (*chi.Mux, *service.WorkspaceManager) {
	t.Helper()
	workspaces := service.NewWorkspaceManager("analyst", logger.NewNop())
	h := NewConversationHandler(workspaces, logger.NewNop())

	r := chi.NewRouter()
	r.Use(identityStub)
	r.Get("/workspace", h.Workspace)
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Put("/", h.Load)
		r.Post("/new", h.Initialize)
		r.Post("/{id}/activate", h.Activate)
		r.Delete("/{id}", h.Remove)
		r.Patch("/{id}", h.Rename)
	})
	r.Route("/session", func(r chi.Router) {
		r.Put("/active-message", h.SetActiveMessage)
		r.Put("/panel-width", h.SetPanelWidth)
	})
	return r, workspaces
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestInitializeEndpoint(t *testing.T) {
	r, workspaces := newConversationRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/conversations/new", `{"assistant_id":"quant"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var conv struct {
		ID          string `json:"id"`
		AssistantID string `json:"assistant_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.Equal(t, "quant", conv.AssistantID)

	ws := workspaces.Get("org-1", "user-1")
	assert.Equal(t, conv.ID, ws.Conversations.ActiveID())
}

func TestLoadEndpointRefreshesList(t *testing.T) {
	r, workspaces := newConversationRouter(t)

	rec := doJSON(t, r, http.MethodPut, "/conversations",
		`{"conversations":[{"id":"c1","name":"Revenue"},{"id":"c2","name":"Costs"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var state store.ConversationState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Confirmed, 2)
	assert.Equal(t, "c1", state.Confirmed[0].ID)

	ws := workspaces.Get("org-1", "user-1")
	assert.NotNil(t, ws.Conversations.Snapshot().Pending, "load keeps the pending conversation")
}

func TestActivateUnknownConversation(t *testing.T) {
	r, _ := newConversationRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/conversations/missing/activate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameEndpoint(t *testing.T) {
	r, workspaces := newConversationRouter(t)
	ws := workspaces.Get("org-1", "user-1")
	id := ws.Conversations.ActiveID()

	rec := doJSON(t, r, http.MethodPatch, "/conversations/"+id, `{"name":"Q3 earnings"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	conv, ok := ws.Conversations.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Q3 earnings", conv.Name)

	rec = doJSON(t, r, http.MethodPatch, "/conversations/"+id, `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanelWidthEndpointClamps(t *testing.T) {
	r, workspaces := newConversationRouter(t)

	rec := doJSON(t, r, http.MethodPut, "/session/panel-width", `{"width":150}`)
	require.Equal(t, http.StatusOK, rec.Code)

	ws := workspaces.Get("org-1", "user-1")
	assert.Equal(t, 100, ws.Conversations.Active().Session.ResponsePanelWidth)
}

func TestActiveMessageEndpoint(t *testing.T) {
	r, workspaces := newConversationRouter(t)

	rec := doJSON(t, r, http.MethodPut, "/session/active-message", `{"message_id":"m1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	ws := workspaces.Get("org-1", "user-1")
	active := ws.Conversations.Active()
	assert.Equal(t, "m1", active.Session.ActiveMessageID)
	assert.Equal(t, store.DefaultPanelWidth, active.Session.ResponsePanelWidth)
}

func TestWorkspaceEndpointShape(t *testing.T) {
	r, _ := newConversationRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/workspace", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"conversations", "tool_results", "components", "flags", "selection"} {
		assert.Contains(t, body, key)
	}
}

func TestRemoveEndpoint(t *testing.T) {
	r, workspaces := newConversationRouter(t)
	doJSON(t, r, http.MethodPut, "/conversations", `{"conversations":[{"id":"c1","name":"A"}]}`)

	rec := doJSON(t, r, http.MethodDelete, "/conversations/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ws := workspaces.Get("org-1", "user-1")
	assert.Empty(t, ws.Conversations.Snapshot().Confirmed)
}
