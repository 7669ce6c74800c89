package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

// Replay converts historical backend records into messages and tool results.
// Human records map to user messages, tool records are filtered out of the
// message list and routed through classification, everything else maps to
// assistant messages. Results come back in record order, so applying them to
// the registry in sequence leaves the last one focused.
func Replay(records []model.BackendRecord) ([]model.Message, []model.ToolCallResult) {
	messages := make([]model.Message, 0, len(records))
	results := make([]model.ToolCallResult, 0)

	// Maps tool-call ids to the message that issued them, so replayed
	// results carry their owning message id.
	owners := make(map[string]string)

	for _, rec := range records {
		if rec.Type == model.RecordTool {
			results = append(results, Classify(rec.ToolCallID, rec.Name, rec.Content, owners[rec.ToolCallID]))
			continue
		}

		role := model.RoleAssistant
		if rec.Type == model.RecordHuman {
			role = model.RoleUser
		}
		msg := messageFromRecord(rec, role)
		for _, tc := range msg.ToolCalls {
			owners[tc.ID] = msg.ID
		}
		messages = append(messages, msg)
	}
	return messages, results
}

func messageFromRecord(rec model.BackendRecord, role model.Role) model.Message {
	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		BackendID: rec.ID,
		Role:      role,
		Timestamp: time.Now(),
		IsError:   isErrorMetadata(rec.ResponseMetadata),
	}
	if rec.Timestamp != nil {
		msg.Timestamp = *rec.Timestamp
	}

	if rec.Content != "" {
		msg.Parts = append(msg.Parts, model.ContentPart{Kind: model.PartText, Text: rec.Content})
	}
	for _, tc := range rec.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, tc)
		msg.Parts = append(msg.Parts, model.ContentPart{Kind: model.PartToolCall, ToolCallID: tc.ID})
	}
	return msg
}

func isErrorMetadata(meta map[string]any) bool {
	if meta == nil {
		return false
	}
	if v, ok := meta["is_error"].(bool); ok && v {
		return true
	}
	if v, ok := meta["status"].(string); ok && v == "error" {
		return true
	}
	return false
}
