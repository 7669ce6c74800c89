package model

import (
	"time"
)

// ResultKind discriminates how a tool result is rendered.
type ResultKind string

const (
	ResultCode  ResultKind = "code"
	ResultTable ResultKind = "table"
	ResultGraph ResultKind = "graph"
	ResultError ResultKind = "error"
	ResultText  ResultKind = "text"
)

// ToolCallResult is the resolved output of one tool call. ToolCallID is
// unique among live results; re-adding the same id overwrites in place.
type ToolCallResult struct {
	ID         string     `json:"id"`
	ToolCallID string     `json:"tool_call_id"`
	ToolName   string     `json:"tool_name"`
	Kind       ResultKind `json:"kind"`
	Payload    string     `json:"payload"`
	MessageID  string     `json:"message_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// WorkspaceSnapshot is a serialized export of the tool-result registry,
// written to the capped snapshot cache.
type WorkspaceSnapshot struct {
	ID               string           `json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	Results          []ToolCallResult `json:"results"`
	ActiveToolCallID string           `json:"active_tool_call_id,omitempty"`
	EditableCode     string           `json:"editable_code,omitempty"`
}
