package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-ai/workspace-platform/internal/llm"
	"github.com/finboard-ai/workspace-platform/internal/model"
	"github.com/finboard-ai/workspace-platform/internal/store"
	"github.com/finboard-ai/workspace-platform/pkg/logger"
)

// fakeClient streams canned tokens and returns a canned response.
type fakeClient struct {
	tokens    []string
	toolCalls []llm.ToolInvocation
	err       error
	lastReq   *llm.CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	var content string
	for _, t := range f.tokens {
		content += t
	}
	return &llm.CompletionResponse{Content: content, ToolCalls: f.toolCalls, Model: "fake-1"}, nil
}

func (f *fakeClient) CompleteStream(ctx context.Context, req *llm.CompletionRequest, callback llm.StreamCallback) (*llm.CompletionResponse, error) {
	f.lastReq = req
	for i, t := range f.tokens {
		if err := callback(t, i); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	var content string
	for _, t := range f.tokens {
		content += t
	}
	return &llm.CompletionResponse{Content: content, ToolCalls: f.toolCalls, Model: "fake-1"}, nil
}

func (f *fakeClient) Name() string     { return "fake" }
func (f *fakeClient) Models() []string { return []string{"fake-1"} }

func newTestWorkspace() *store.Workspace {
	return store.NewWorkspace("org-1", "user-1", "analyst")
}

func TestSendWithStreamPromotesAndStreams(t *testing.T) {
	client := &fakeClient{tokens: []string{"hel", "lo"}}
	svc := NewAssistantService(client, nil, logger.NewNop())
	ws := newTestWorkspace()
	convID := ws.Conversations.ActiveID()

	var events []string
	final, err := svc.SendWithStream(context.Background(), ws, convID, "show revenue", func(event string, data interface{}) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)

	state := ws.Conversations.Snapshot()
	assert.Nil(t, state.Pending, "first user message promotes the pending conversation")
	require.Len(t, state.Confirmed, 1)
	require.Len(t, state.Confirmed[0].Session.Messages, 2)

	assert.Equal(t, "show revenue", state.Confirmed[0].Session.Messages[0].Text())
	assert.Equal(t, "hello", state.Confirmed[0].Session.Messages[1].Text())
	assert.Equal(t, "hello", final.Text())
	assert.False(t, state.Confirmed[0].Session.Responding)

	assert.Equal(t, []string{"token", "token", "message_complete"}, events)
}

func TestSendWithStreamEmitsToolCalls(t *testing.T) {
	client := &fakeClient{
		tokens: []string{"one chart"},
		toolCalls: []llm.ToolInvocation{
			{ID: "tc-1", Name: "graph_tool", Arguments: json.RawMessage(`{"metric":"revenue"}`)},
			{ID: "tc-2", Name: "report_tool", Arguments: json.RawMessage(`{}`)},
		},
	}
	svc := NewAssistantService(client, nil, logger.NewNop())
	ws := newTestWorkspace()
	convID := ws.Conversations.ActiveID()

	var toolCalls []model.ToolCall
	final, err := svc.SendWithStream(context.Background(), ws, convID, "charts please", func(event string, data interface{}) error {
		if event == "tool_call" {
			toolCalls = append(toolCalls, data.(model.ToolCallEvent).ToolCall)
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, final.ToolCalls, 2)
	assert.Equal(t, 0, final.ToolCalls[0].Position)
	assert.Equal(t, 1, final.ToolCalls[1].Position)
	assert.True(t, final.HasToolCall("tc-1"))
	require.Len(t, final.Parts, 3, "text part plus one part per tool call")

	require.Len(t, toolCalls, 2)
	assert.Equal(t, "graph_tool", toolCalls[0].Name)
}

func TestSendWithStreamUnknownConversation(t *testing.T) {
	svc := NewAssistantService(&fakeClient{}, nil, logger.NewNop())
	ws := newTestWorkspace()

	_, err := svc.SendWithStream(context.Background(), ws, "missing", "hi", nil)
	assert.Error(t, err)
}

func TestSendWithStreamMarksErrorOnFailure(t *testing.T) {
	client := &fakeClient{tokens: []string{"partial"}, err: errors.New("upstream closed")}
	svc := NewAssistantService(client, nil, logger.NewNop())
	ws := newTestWorkspace()
	convID := ws.Conversations.ActiveID()

	_, err := svc.SendWithStream(context.Background(), ws, convID, "hi", nil)
	require.Error(t, err)

	conv, ok := ws.Conversations.Get(convID)
	require.True(t, ok)
	require.Len(t, conv.Session.Messages, 2)
	assistant := conv.Session.Messages[1]
	assert.True(t, assistant.IsError)
	assert.Equal(t, "partial", assistant.Text(), "streamed text kept on failure")
	assert.False(t, conv.Session.Responding)
}

func TestSendWithStreamBuildsHistory(t *testing.T) {
	client := &fakeClient{tokens: []string{"second answer"}}
	svc := NewAssistantService(client, nil, logger.NewNop())
	ws := newTestWorkspace()
	convID := ws.Conversations.ActiveID()

	_, err := svc.SendWithStream(context.Background(), ws, convID, "first question", nil)
	require.NoError(t, err)
	_, err = svc.SendWithStream(context.Background(), ws, convID, "second question", nil)
	require.NoError(t, err)

	require.NotNil(t, client.lastReq)
	require.Len(t, client.lastReq.Messages, 3, "history carries prior turns, empty drafts skipped")
	assert.Equal(t, "first question", client.lastReq.Messages[0].Content)
	assert.Equal(t, "second answer", client.lastReq.Messages[1].Content)
	assert.Equal(t, "second question", client.lastReq.Messages[2].Content)
}

func TestHandleToolResultClassifiesAndFocuses(t *testing.T) {
	svc := NewAssistantService(&fakeClient{}, nil, logger.NewNop())
	ws := newTestWorkspace()

	res := svc.HandleToolResult(context.Background(), ws, "c1", "tc-1", "report_tool", `{"type":"report"}`, "msg-1")
	assert.Equal(t, model.ResultTable, res.Kind)
	assert.NotEmpty(t, res.ID)

	state := ws.ToolResults.Snapshot()
	require.Len(t, state.Results, 1)
	assert.Equal(t, "tc-1", state.ActiveToolCallID)
}

func TestReplayWithoutRecordLog(t *testing.T) {
	svc := NewAssistantService(&fakeClient{}, nil, logger.NewNop())
	ws := newTestWorkspace()

	_, err := svc.Replay(context.Background(), ws, "c1", 0)
	assert.Error(t, err)
}

func TestWorkspaceManagerReusesWorkspace(t *testing.T) {
	m := NewWorkspaceManager("analyst", logger.NewNop())

	ws1 := m.Get("org-1", "user-1")
	ws2 := m.Get("org-1", "user-1")
	ws3 := m.Get("org-1", "user-2")

	assert.Same(t, ws1, ws2)
	assert.NotSame(t, ws1, ws3)
	assert.Equal(t, 2, m.Count())
}
