package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the mutable UI/runtime state of one conversation. It is owned
// exclusively by its parent Conversation and never shared.
type Session struct {
	Messages           []Message `json:"messages"`
	Responding         bool      `json:"responding"`
	SelectedVariant    int       `json:"selected_variant"`
	SidebarOpen        bool      `json:"sidebar_open"`
	ResponsePanelWidth int       `json:"response_panel_width"`
	ActiveMessageID    string    `json:"active_message_id,omitempty"`
	AssistantID        string    `json:"assistant_id"`
}

// Conversation represents a conversation thread. A conversation is either
// pending (unsaved, not yet in the confirmed list) or confirmed.
type Conversation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ThreadID     string    `json:"thread_id,omitempty"`
	AssistantID  string    `json:"assistant_id"`
	LastActivity time.Time `json:"last_activity"`
	Session      Session   `json:"session"`
}

// NewPendingConversation creates a fresh pending conversation with an empty
// message list and the given assistant pre-selected.
func NewPendingConversation(assistantID string) *Conversation {
	return &Conversation{
		ID:           uuid.Must(uuid.NewV7()).String(),
		AssistantID:  assistantID,
		LastActivity: time.Now(),
		Session: Session{
			Messages:    make([]Message, 0),
			AssistantID: assistantID,
		},
	}
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Session.Messages = make([]Message, len(c.Session.Messages))
	for i, m := range c.Session.Messages {
		out.Session.Messages[i] = m.Clone()
	}
	return &out
}
