// Package model defines data structures for the workspace platform.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartKind discriminates message content parts.
type PartKind string

const (
	PartText     PartKind = "text"
	PartToolCall PartKind = "tool_call"
)

// ContentPart is one segment of a message body: either a text run or a
// reference to a tool call, interleaved in display order.
type ContentPart struct {
	Kind       PartKind `json:"kind"`
	Text       string   `json:"text,omitempty"`
	ToolCallID string   `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured invocation emitted by the assistant. Position is a
// view-layout value and must survive content replacement during streaming.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Position  int             `json:"position"`
}

// Message represents a conversation message.
type Message struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Parts     []ContentPart `json:"parts"`
	ToolCalls []ToolCall    `json:"tool_calls,omitempty"`
	Variants  []string      `json:"variants,omitempty"`
	BackendID string        `json:"backend_id,omitempty"`
	IsError   bool          `json:"is_error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewUserMessage creates a user message with a single text part.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      RoleUser,
		Parts:     []ContentPart{{Kind: PartText, Text: text}},
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an empty assistant message for streaming.
func NewAssistantMessage() Message {
	return Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// Text concatenates all text parts of the message.
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Kind == PartText {
			out += p.Text
		}
	}
	return out
}

// HasToolCall reports whether a tool call with the given id exists on the
// message. A tool-call content part must reference a tool call that passes
// this check.
func (m *Message) HasToolCall(id string) bool {
	for _, tc := range m.ToolCalls {
		if tc.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	out.Parts = append([]ContentPart(nil), m.Parts...)
	out.Variants = append([]string(nil), m.Variants...)
	if m.ToolCalls != nil {
		out.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			out.ToolCalls[i] = tc
			out.ToolCalls[i].Arguments = append(json.RawMessage(nil), tc.Arguments...)
		}
	}
	return out
}
