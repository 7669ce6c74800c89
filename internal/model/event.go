package model

import (
	"time"
)

// TokenEvent represents a streaming token event.
type TokenEvent struct {
	Token string `json:"token"`
	Index int    `json:"index"`
}

// ToolCallEvent announces a tool invocation emitted during a turn.
type ToolCallEvent struct {
	ToolCall ToolCall `json:"tool_call"`
}

// ToolResultEvent announces a classified tool result folded into the registry.
type ToolResultEvent struct {
	Result ToolCallResult `json:"result"`
}

// MessageCompleteEvent represents a message completion event.
type MessageCompleteEvent struct {
	Message Message `json:"message"`
}

// ErrorEvent represents an error event.
type ErrorEvent struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// HeartbeatEvent represents a heartbeat event.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}
