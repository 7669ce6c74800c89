package store

// Workspace aggregates the per-user stores. It is handed to handlers and
// services explicitly rather than reached through package globals, so every
// call site carries its own org/user scoping.
type Workspace struct {
	OrgID  string
	UserID string

	Conversations *ConversationStore
	ToolResults   *ToolResultRegistry
	Components    *ComponentRegistry
	Flags         *FlagSet
	Selection     *SelectionContext
}

// NewWorkspace creates the stores for one org/user pair.
func NewWorkspace(orgID, userID, defaultAssistant string) *Workspace {
	return &Workspace{
		OrgID:         orgID,
		UserID:        userID,
		Conversations: NewConversationStore(defaultAssistant),
		ToolResults:   NewToolResultRegistry(),
		Components:    NewComponentRegistry(),
		Flags:         NewFlagSet(),
		Selection:     NewSelectionContext(),
	}
}
