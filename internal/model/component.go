package model

// ComponentState holds generic open/closed and parameter state for a piece of
// navigation chrome (sidebar, modal, dropdown), keyed by a caller-chosen id.
type ComponentState struct {
	Type   string         `json:"type"`
	IsOpen bool           `json:"is_open"`
	Params map[string]any `json:"params,omitempty"`
}
