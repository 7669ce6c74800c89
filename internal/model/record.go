package model

import (
	"time"
)

// RecordType is the wire-level message type used by the backend message log.
type RecordType string

const (
	RecordHuman RecordType = "human"
	RecordAI    RecordType = "ai"
	RecordTool  RecordType = "tool"
)

// BackendRecord is one historical message record as delivered by the message
// log. Human records become user messages, tool records are routed to the
// tool-result classifier, everything else becomes an assistant message.
type BackendRecord struct {
	ID               string         `json:"id"`
	Type             RecordType     `json:"type"`
	Content          string         `json:"content"`
	ToolCalls        []ToolCall     `json:"tool_calls,omitempty"`
	ToolCallID       string         `json:"tool_call_id,omitempty"`
	Name             string         `json:"name,omitempty"`
	Timestamp        *time.Time     `json:"timestamp,omitempty"`
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`
}
