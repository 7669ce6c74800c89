// Package store holds the in-memory state of a user workspace: conversations,
// tool results, UI chrome and selection context. Mutations run under each
// store's lock. Stale ids are absorbed as no-ops rather than errors, since
// view dispatches can race with list updates.
package store

import (
	"sync"
	"time"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

// DefaultPanelWidth is the width the response panel opens to when a message
// is focused while the panel is closed.
const DefaultPanelWidth = 35

// ConversationStore owns the confirmed conversation list, at most one pending
// conversation, and the active-conversation pointer.
type ConversationStore struct {
	mu               sync.RWMutex
	confirmed        []*model.Conversation
	pending          *model.Conversation
	activeID         string
	defaultAssistant string
}

// ConversationState is a read-only snapshot for the view layer.
type ConversationState struct {
	Confirmed            []model.Conversation `json:"confirmed"`
	Pending              *model.Conversation  `json:"pending,omitempty"`
	ActiveConversationID string               `json:"active_conversation_id,omitempty"`
}

// NewConversationStore creates a store with a fresh pending conversation
// active, so there is never a state with no active target.
func NewConversationStore(defaultAssistant string) *ConversationStore {
	s := &ConversationStore{defaultAssistant: defaultAssistant}
	s.pending = model.NewPendingConversation(defaultAssistant)
	s.activeID = s.pending.ID
	return s
}

// resolve returns the conversation for id, checking pending first.
// Callers must hold the lock.
func (s *ConversationStore) resolve(id string) *model.Conversation {
	if s.pending != nil && s.pending.ID == id {
		return s.pending
	}
	for _, c := range s.confirmed {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// activeConversation resolves the active pointer. Callers must hold the lock.
func (s *ConversationStore) activeConversation() *model.Conversation {
	return s.resolve(s.activeID)
}

// InitializeNewConversation discards any existing pending conversation and
// replaces it with a fresh one, pre-selecting the given assistant, and makes
// it active. A discarded pending conversation with no user messages is lost.
func (s *ConversationStore) InitializeNewConversation(assistantID string) *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if assistantID == "" {
		assistantID = s.defaultAssistant
	}
	s.pending = model.NewPendingConversation(assistantID)
	s.activeID = s.pending.ID
	return s.pending.Clone()
}

// LoadConfirmedList replaces the confirmed list from an external source.
// Incoming conversations whose id matches an existing confirmed conversation
// keep that conversation's session (messages, flags); only the assistant id
// is refreshed alongside the conversation-level metadata.
func (s *ConversationStore) LoadConfirmedList(raw []model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]*model.Conversation, len(s.confirmed))
	for _, c := range s.confirmed {
		existing[c.ID] = c
	}

	next := make([]*model.Conversation, 0, len(raw))
	for _, in := range raw {
		if prev, ok := existing[in.ID]; ok {
			prev.Name = in.Name
			prev.ThreadID = in.ThreadID
			prev.AssistantID = in.AssistantID
			prev.Session.AssistantID = in.AssistantID
			if !in.LastActivity.IsZero() {
				prev.LastActivity = in.LastActivity
			}
			next = append(next, prev)
			continue
		}
		c := in
		if c.Session.Messages == nil {
			c.Session.Messages = make([]model.Message, 0)
		}
		if c.Session.AssistantID == "" {
			c.Session.AssistantID = c.AssistantID
		}
		next = append(next, &c)
	}
	s.confirmed = next

	// Repair the active pointer if the load dropped its target.
	if s.activeConversation() == nil {
		switch {
		case s.pending != nil:
			s.activeID = s.pending.ID
		case len(s.confirmed) > 0:
			s.activeID = s.confirmed[0].ID
		default:
			s.pending = model.NewPendingConversation(s.defaultAssistant)
			s.activeID = s.pending.ID
		}
	}
}

// AppendMessage appends to the target conversation's message list and stamps
// last-activity time. If the target is the pending conversation and the
// message is a user message, the conversation is promoted: moved to the head
// of the confirmed list with the pending slot cleared, in the same locked
// operation as the append.
func (s *ConversationStore) AppendMessage(conversationID string, msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.resolve(conversationID)
	if c == nil {
		return false
	}

	c.Session.Messages = append(c.Session.Messages, msg.Clone())
	c.LastActivity = time.Now()

	if s.pending != nil && c == s.pending && msg.Role == model.RoleUser {
		s.confirmed = append([]*model.Conversation{c}, s.confirmed...)
		s.pending = nil
	}
	return true
}

// ReplaceMessage overwrites an existing message by id. Tool-call positions
// from the existing message survive the replacement: streaming updates
// regenerate content but must not jitter tool-call layout.
func (s *ConversationStore) ReplaceMessage(conversationID string, msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.resolve(conversationID)
	if c == nil {
		return false
	}

	for i := range c.Session.Messages {
		if c.Session.Messages[i].ID != msg.ID {
			continue
		}
		existing := c.Session.Messages[i]
		replacement := msg.Clone()
		if len(existing.ToolCalls) > 0 && len(replacement.ToolCalls) > 0 {
			positions := make(map[string]int, len(existing.ToolCalls))
			for _, tc := range existing.ToolCalls {
				positions[tc.ID] = tc.Position
			}
			for j := range replacement.ToolCalls {
				if pos, ok := positions[replacement.ToolCalls[j].ID]; ok {
					replacement.ToolCalls[j].Position = pos
				}
			}
		}
		c.Session.Messages[i] = replacement
		return true
	}
	return false
}

// LoadMessages replaces a conversation's message list wholesale, e.g. after
// replaying its backend records. No promotion happens: replay targets
// conversations that are already confirmed.
func (s *ConversationStore) LoadMessages(conversationID string, msgs []model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.resolve(conversationID)
	if c == nil {
		return false
	}

	next := make([]model.Message, len(msgs))
	for i, m := range msgs {
		next[i] = m.Clone()
	}
	c.Session.Messages = next
	return true
}

// SetActiveConversation moves the active pointer. No-op if the id resolves to
// neither pending nor a confirmed conversation.
func (s *ConversationStore) SetActiveConversation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolve(id) == nil {
		return false
	}
	s.activeID = id
	return true
}

// SetResponding sets the responding flag on the active conversation.
func (s *ConversationStore) SetResponding(responding bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.activeConversation(); c != nil {
		c.Session.Responding = responding
	}
}

// SetSelectedVariant selects a response variant on the active conversation.
func (s *ConversationStore) SetSelectedVariant(variant int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.activeConversation(); c != nil {
		c.Session.SelectedVariant = variant
	}
}

// SetSidebarOpen toggles the sidebar flag on the active conversation.
func (s *ConversationStore) SetSidebarOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.activeConversation(); c != nil {
		c.Session.SidebarOpen = open
	}
}

// SetActiveMessageID sets the active-message pointer on the active
// conversation. The pointer and the response-panel width are coupled and
// change together: a non-empty id opens the panel to the default width if it
// was closed, an empty id closes the panel.
func (s *ConversationStore) SetActiveMessageID(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.activeConversation()
	if c == nil {
		return
	}

	if messageID == "" {
		c.Session.ActiveMessageID = ""
		c.Session.ResponsePanelWidth = 0
		return
	}
	c.Session.ActiveMessageID = messageID
	if c.Session.ResponsePanelWidth == 0 {
		c.Session.ResponsePanelWidth = DefaultPanelWidth
	}
}

// SetResponsePanelWidth sets the response-panel width on the active
// conversation, clamped to [0,100].
func (s *ConversationStore) SetResponsePanelWidth(width int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.activeConversation()
	if c == nil {
		return
	}

	if width < 0 {
		width = 0
	}
	if width > 100 {
		width = 100
	}
	c.Session.ResponsePanelWidth = width
}

// RemoveConversation removes a conversation from the confirmed list. If it
// was active, the new head of the confirmed list becomes active; if the list
// is now empty, a brand-new pending conversation is synthesized and activated.
func (s *ConversationStore) RemoveConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.confirmed {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	s.confirmed = append(s.confirmed[:idx], s.confirmed[idx+1:]...)

	if s.activeID != id {
		return
	}
	if len(s.confirmed) > 0 {
		s.activeID = s.confirmed[0].ID
		return
	}
	s.pending = model.NewPendingConversation(s.defaultAssistant)
	s.activeID = s.pending.ID
}

// RenameConversation renames a pending or confirmed conversation by id.
func (s *ConversationStore) RenameConversation(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.resolve(id)
	if c == nil {
		return false
	}
	c.Name = name
	return true
}

// Get returns a deep copy of the conversation with the given id.
func (s *ConversationStore) Get(id string) (*model.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.resolve(id)
	if c == nil {
		return nil, false
	}
	return c.Clone(), true
}

// Active returns a deep copy of the active conversation.
func (s *ConversationStore) Active() *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.activeConversation()
	if c == nil {
		return nil
	}
	return c.Clone()
}

// ActiveID returns the active-conversation pointer.
func (s *ConversationStore) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// IsPending reports whether the given id is the current pending conversation.
func (s *ConversationStore) IsPending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending != nil && s.pending.ID == id
}

// Snapshot returns a deep-copied view of the whole store for rendering.
func (s *ConversationStore) Snapshot() ConversationState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := ConversationState{
		Confirmed:            make([]model.Conversation, len(s.confirmed)),
		ActiveConversationID: s.activeID,
	}
	for i, c := range s.confirmed {
		state.Confirmed[i] = *c.Clone()
	}
	if s.pending != nil {
		state.Pending = s.pending.Clone()
	}
	return state
}
