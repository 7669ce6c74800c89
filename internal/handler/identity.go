package handler

import (
	"net/http"

	"github.com/finboard-ai/workspace-platform/internal/middleware"
	"github.com/finboard-ai/workspace-platform/internal/model"
	"github.com/finboard-ai/workspace-platform/internal/service"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
)

// IdentityHandler handles user, organization and company selection state.
type IdentityHandler struct {
	workspaces *service.WorkspaceManager
	log        *logger.Logger
}

// NewIdentityHandler creates a new identity handler.
func NewIdentityHandler(workspaces *service.WorkspaceManager, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{workspaces: workspaces, log: log}
}

func (h *IdentityHandler) workspace(r *http.Request) *store.Workspace {
	return h.workspaces.Get(middleware.GetOrgID(r.Context()), middleware.GetUserID(r.Context()))
}

// Get returns the selection context snapshot.
func (h *IdentityHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace(r).Selection.Snapshot())
}

// SetUser sets the current user.
func (h *IdentityHandler) SetUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Selection.SetUser(user)
	writeJSON(w, http.StatusOK, ws.Selection.Snapshot())
}

// SetOrganization sets the selected organization.
func (h *IdentityHandler) SetOrganization(w http.ResponseWriter, r *http.Request) {
	var org model.Organization
	if err := decodeBody(r, &org); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Selection.SetOrganization(org)
	writeJSON(w, http.StatusOK, ws.Selection.Snapshot())
}

// SetCompanies merges a company list into the selection context. Matching ids
// overwrite in place so first-seen order is kept.
func (h *IdentityHandler) SetCompanies(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Companies []model.Company `json:"companies"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	ws.Selection.SetCompanies(body.Companies)
	writeJSON(w, http.StatusOK, ws.Selection.Snapshot())
}

// AddCompany adds one company.
func (h *IdentityHandler) AddCompany(w http.ResponseWriter, r *http.Request) {
	var company model.Company
	if err := decodeBody(r, &company); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if company.ID == "" {
		writeError(w, http.StatusBadRequest, "company id is required")
		return
	}

	ws := h.workspace(r)
	ws.Selection.AddCompany(company)
	writeJSON(w, http.StatusOK, ws.Selection.Snapshot())
}

// SelectCompany moves the selected-company pointer.
func (h *IdentityHandler) SelectCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.workspace(r).Selection.SelectCompany(body.ID) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, h.workspace(r).Selection.Snapshot())
}
