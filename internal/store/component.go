package store

import (
	"sync"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

// ComponentRegistry holds open/closed and parameter state for navigation
// chrome, keyed by a caller-chosen string id.
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]*model.ComponentState
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{components: make(map[string]*model.ComponentState)}
}

// Register creates state for a component id on first reference. A no-op if
// the id is already present.
func (r *ComponentRegistry) Register(id, componentType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.components[id]; ok {
		return
	}
	r.components[id] = &model.ComponentState{Type: componentType}
}

// Open marks the component open, replacing its params. No-op for unknown ids.
func (r *ComponentRegistry) Open(id string, params map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.components[id]
	if !ok {
		return
	}
	c.IsOpen = true
	if params != nil {
		c.Params = params
	}
}

// Close marks the component closed. No-op for unknown ids.
func (r *ComponentRegistry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.components[id]; ok {
		c.IsOpen = false
	}
}

// SetParams replaces the component's params. No-op for unknown ids.
func (r *ComponentRegistry) SetParams(id string, params map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.components[id]; ok {
		c.Params = params
	}
}

// Get returns a copy of the component state.
func (r *ComponentRegistry) Get(id string) (model.ComponentState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[id]
	if !ok {
		return model.ComponentState{}, false
	}
	return copyComponent(c), true
}

// Snapshot returns a copied view of all component state.
func (r *ComponentRegistry) Snapshot() map[string]model.ComponentState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.ComponentState, len(r.components))
	for id, c := range r.components {
		out[id] = copyComponent(c)
	}
	return out
}

func copyComponent(c *model.ComponentState) model.ComponentState {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]any, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return out
}
