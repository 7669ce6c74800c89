package service

import (
	"context"
	"fmt"
	"time"

	"github.com/finboard-ai/workspace-platform/internal/ingest"
	"github.com/finboard-ai/workspace-platform/internal/llm"
	"github.com/finboard-ai/workspace-platform/internal/model"
	"github.com/finboard-ai/workspace-platform/internal/nats"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
	"github.com/finboard-ai/workspace-platform/pkg/metrics"
)

// Emitter delivers one named stream event to the client. Returning an error
// aborts the stream.
type Emitter func(event string, data interface{}) error

// AssistantService orchestrates assistant turns: it appends the user message
// (which may promote a pending conversation), streams the assistant reply into
// the workspace, and mirrors every message to the durable record log.
type AssistantService struct {
	client llm.Client
	record *nats.StreamLog
	log    *logger.Logger
}

// NewAssistantService creates a new assistant service. The record log may be
// nil, in which case turns are not persisted.
func NewAssistantService(client llm.Client, record *nats.StreamLog, log *logger.Logger) *AssistantService {
	return &AssistantService{
		client: client,
		record: record,
		log:    log,
	}
}

// SendWithStream runs one assistant turn against the given conversation.
// The user message append and any pending-to-confirmed promotion happen in
// one store operation before anything is streamed. Text deltas are folded
// into the assistant message as they arrive and emitted to the caller;
// terminal tool invocations are emitted as tool_call events.
func (s *AssistantService) SendWithStream(ctx context.Context, ws *store.Workspace, conversationID, content string, emit Emitter) (*model.Message, error) {
	wasPending := ws.Conversations.IsPending(conversationID)

	userMsg := model.NewUserMessage(content)
	if !ws.Conversations.AppendMessage(conversationID, userMsg) {
		return nil, fmt.Errorf("conversation %s not found", conversationID)
	}
	metrics.MessagesTotal.WithLabelValues(ws.OrgID, string(model.RoleUser)).Inc()
	if wasPending {
		metrics.ConversationsTotal.WithLabelValues(ws.OrgID).Inc()
	}

	s.publishRecord(ctx, ws, conversationID, &model.BackendRecord{
		ID:      userMsg.ID,
		Type:    model.RecordHuman,
		Content: content,
	})

	ws.Conversations.SetResponding(true)
	defer ws.Conversations.SetResponding(false)

	assistantMsg := model.NewAssistantMessage()
	if !ws.Conversations.AppendMessage(conversationID, assistantMsg) {
		return nil, fmt.Errorf("conversation %s not found", conversationID)
	}

	history := s.buildHistory(ws, conversationID)

	start := time.Now()
	var streamed string
	resp, err := s.client.CompleteStream(ctx, &llm.CompletionRequest{
		Messages: history,
		Stream:   true,
	}, func(token string, index int) error {
		streamed += token
		// Fold the partial content into the message so workspace reads during
		// the stream see the text so far.
		partial := assistantMsg
		partial.Parts = []model.ContentPart{{Kind: model.PartText, Text: streamed}}
		ws.Conversations.ReplaceMessage(conversationID, partial)

		if emit != nil {
			return emit("token", model.TokenEvent{Token: token, Index: index})
		}
		return nil
	})
	if err != nil {
		metrics.RecordAssistantStream(s.client.Name(), "error", time.Since(start).Seconds(), 0, 0)
		errMsg := assistantMsg
		errMsg.IsError = true
		errMsg.Parts = []model.ContentPart{{Kind: model.PartText, Text: streamed}}
		ws.Conversations.ReplaceMessage(conversationID, errMsg)
		return nil, fmt.Errorf("assistant stream failed: %w", err)
	}

	final := assistantMsg
	final.Parts = []model.ContentPart{{Kind: model.PartText, Text: resp.Content}}
	for i, inv := range resp.ToolCalls {
		tc := model.ToolCall{
			ID:        inv.ID,
			Name:      inv.Name,
			Arguments: inv.Arguments,
			Position:  i,
		}
		final.ToolCalls = append(final.ToolCalls, tc)
		final.Parts = append(final.Parts, model.ContentPart{Kind: model.PartToolCall, ToolCallID: tc.ID})
		if emit != nil {
			if err := emit("tool_call", model.ToolCallEvent{ToolCall: tc}); err != nil {
				return nil, err
			}
		}
	}
	ws.Conversations.ReplaceMessage(conversationID, final)
	metrics.MessagesTotal.WithLabelValues(ws.OrgID, string(model.RoleAssistant)).Inc()
	metrics.RecordAssistantStream(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	s.publishRecord(ctx, ws, conversationID, &model.BackendRecord{
		ID:        final.ID,
		Type:      model.RecordAI,
		Content:   resp.Content,
		ToolCalls: final.ToolCalls,
	})

	if emit != nil {
		if err := emit("message_complete", model.MessageCompleteEvent{Message: final}); err != nil {
			return nil, err
		}
	}
	return &final, nil
}

// HandleToolResult classifies a terminal tool payload and folds it into the
// workspace registry. The upsert always focuses the result.
func (s *AssistantService) HandleToolResult(ctx context.Context, ws *store.Workspace, conversationID, toolCallID, toolName, payload, messageID string) model.ToolCallResult {
	res := ingest.Classify(toolCallID, toolName, payload, messageID)
	res = ws.ToolResults.Upsert(res)
	metrics.ToolResultsTotal.WithLabelValues(string(res.Kind)).Inc()

	s.publishRecord(ctx, ws, conversationID, &model.BackendRecord{
		ID:         res.ID,
		Type:       model.RecordTool,
		Content:    payload,
		ToolCallID: toolCallID,
		Name:       toolName,
	})
	return res
}

// Replay hydrates a conversation from its backend records: messages replace
// the session message list, tool results are folded into the registry in
// record order.
func (s *AssistantService) Replay(ctx context.Context, ws *store.Workspace, conversationID string, limit int) (int, error) {
	if s.record == nil {
		return 0, fmt.Errorf("record log unavailable")
	}

	records, err := s.record.ReplayRecords(ctx, ws.OrgID, conversationID, limit)
	if err != nil {
		return 0, fmt.Errorf("replay failed: %w", err)
	}

	messages, results := ingest.Replay(records)
	if !ws.Conversations.LoadMessages(conversationID, messages) {
		return 0, fmt.Errorf("conversation %s not found", conversationID)
	}
	for _, res := range results {
		ws.ToolResults.Upsert(res)
	}

	s.log.Info("conversation replayed",
		"org_id", ws.OrgID,
		"conversation_id", conversationID,
		"records", len(records),
		"messages", len(messages),
		"tool_results", len(results),
	)
	return len(records), nil
}

// buildHistory flattens the conversation into provider chat messages.
func (s *AssistantService) buildHistory(ws *store.Workspace, conversationID string) []llm.ChatMessage {
	conv, ok := ws.Conversations.Get(conversationID)
	if !ok {
		return nil
	}

	history := make([]llm.ChatMessage, 0, len(conv.Session.Messages))
	for _, m := range conv.Session.Messages {
		text := m.Text()
		if text == "" {
			continue
		}
		history = append(history, llm.ChatMessage{
			Role:    string(m.Role),
			Content: text,
		})
	}
	return history
}

func (s *AssistantService) publishRecord(ctx context.Context, ws *store.Workspace, conversationID string, rec *model.BackendRecord) {
	if s.record == nil {
		return
	}
	now := time.Now()
	rec.Timestamp = &now
	if _, err := s.record.PublishRecord(ctx, ws.OrgID, conversationID, rec); err != nil {
		s.log.Warn("failed to publish record",
			"error", err,
			"conversation_id", conversationID,
			"type", rec.Type,
		)
	}
}
