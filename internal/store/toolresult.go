package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

// ToolResultRegistry is an ordered, indexed collection of tool-call results
// with an active pointer driving the response panel.
type ToolResultRegistry struct {
	mu               sync.RWMutex
	results          []model.ToolCallResult
	activeToolCallID string
	editableCode     string
}

// RegistryState is a read-only snapshot for the view layer.
type RegistryState struct {
	Results          []model.ToolCallResult `json:"results"`
	ActiveToolCallID string                 `json:"active_tool_call_id,omitempty"`
	EditableCode     string                 `json:"editable_code,omitempty"`
}

// NewToolResultRegistry creates an empty registry.
func NewToolResultRegistry() *ToolResultRegistry {
	return &ToolResultRegistry{results: make([]model.ToolCallResult, 0)}
}

// Upsert stores a result keyed by its tool-call id. An existing entry with
// the same tool-call id is replaced in place, preserving list position; a new
// entry is appended. Either way the upserted result becomes active: every
// upsert focuses the panel on that result.
func (r *ToolResultRegistry) Upsert(res model.ToolCallResult) model.ToolCallResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.ID == "" {
		res.ID = uuid.Must(uuid.NewV7()).String()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}

	replaced := false
	for i := range r.results {
		if r.results[i].ToolCallID == res.ToolCallID {
			r.results[i] = res
			replaced = true
			break
		}
	}
	if !replaced {
		r.results = append(r.results, res)
	}
	r.activeToolCallID = res.ToolCallID
	return res
}

// SetActive sets the active pointer unconditionally. No existence check: the
// view layer is expected to filter.
func (r *ToolResultRegistry) SetActive(toolCallID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeToolCallID = toolCallID
}

// Remove deletes the result with the given tool-call id. If it was active,
// the active pointer moves to the first remaining result, or clears.
func (r *ToolResultRegistry) Remove(toolCallID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.results {
		if r.results[i].ToolCallID == toolCallID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	r.results = append(r.results[:idx], r.results[idx+1:]...)

	if r.activeToolCallID != toolCallID {
		return
	}
	if len(r.results) > 0 {
		r.activeToolCallID = r.results[0].ToolCallID
	} else {
		r.activeToolCallID = ""
	}
}

// Reset clears all results, the active pointer, and the editable-code buffer.
func (r *ToolResultRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = make([]model.ToolCallResult, 0)
	r.activeToolCallID = ""
	r.editableCode = ""
}

// SetEditableCode stores the user-edited code buffer for the active code view.
func (r *ToolResultRegistry) SetEditableCode(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editableCode = code
}

// Active returns the active result, if any.
func (r *ToolResultRegistry) Active() (model.ToolCallResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.results {
		if res.ToolCallID == r.activeToolCallID {
			return res, true
		}
	}
	return model.ToolCallResult{}, false
}

// Snapshot returns a copied view of the registry for rendering.
func (r *ToolResultRegistry) Snapshot() RegistryState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RegistryState{
		Results:          append([]model.ToolCallResult(nil), r.results...),
		ActiveToolCallID: r.activeToolCallID,
		EditableCode:     r.editableCode,
	}
}

// Export serializes the registry state into a snapshot with a generated id
// and timestamp, ready for the capped cache. Live state is not mutated.
func (r *ToolResultRegistry) Export() model.WorkspaceSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return model.WorkspaceSnapshot{
		ID:               uuid.Must(uuid.NewV7()).String(),
		CreatedAt:        time.Now(),
		Results:          append([]model.ToolCallResult(nil), r.results...),
		ActiveToolCallID: r.activeToolCallID,
		EditableCode:     r.editableCode,
	}
}
