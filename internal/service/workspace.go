// Package service implements business logic for the workspace platform.
package service

import (
	"sync"

	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
	"github.com/finboard-ai/workspace-platform/pkg/metrics"
)

// WorkspaceManager hands out the in-memory workspace for an org/user pair,
// creating it lazily on first access. Workspaces live for the process
// lifetime; durable state lives in the record stream and snapshot bucket.
type WorkspaceManager struct {
	mu               sync.Mutex
	workspaces       map[string]*store.Workspace
	defaultAssistant string
	log              *logger.Logger
}

// NewWorkspaceManager creates a new workspace manager.
func NewWorkspaceManager(defaultAssistant string, log *logger.Logger) *WorkspaceManager {
	return &WorkspaceManager{
		workspaces:       make(map[string]*store.Workspace),
		defaultAssistant: defaultAssistant,
		log:              log,
	}
}

// Get returns the workspace for the given org/user pair, creating it if
// needed.
func (m *WorkspaceManager) Get(orgID, userID string) *store.Workspace {
	key := orgID + "/" + userID

	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[key]; ok {
		return ws
	}

	ws := store.NewWorkspace(orgID, userID, m.defaultAssistant)
	m.workspaces[key] = ws
	metrics.WorkspacesActive.Set(float64(len(m.workspaces)))

	m.log.Info("workspace created", "org_id", orgID, "user_id", userID)
	return ws
}

// Count returns the number of live workspaces.
func (m *WorkspaceManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}
