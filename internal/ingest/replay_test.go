package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

func TestReplayRoleMapping(t *testing.T) {
	records := []model.BackendRecord{
		{ID: "r1", Type: model.RecordHuman, Content: "show revenue"},
		{ID: "r2", Type: model.RecordAI, Content: "here you go"},
		{ID: "r3", Type: "system", Content: "anything unrecognized"},
	}

	messages, results := Replay(records)
	require.Len(t, messages, 3)
	assert.Empty(t, results)

	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Equal(t, model.RoleAssistant, messages[2].Role, "unknown types map to assistant")
	assert.Equal(t, "r1", messages[0].BackendID)
}

func TestReplayFiltersToolRecords(t *testing.T) {
	records := []model.BackendRecord{
		{
			ID:      "r1",
			Type:    model.RecordAI,
			Content: "running report",
			ToolCalls: []model.ToolCall{
				{ID: "tc-1", Name: "report_tool"},
			},
		},
		{ID: "r2", Type: model.RecordTool, ToolCallID: "tc-1", Name: "report_tool", Content: `{"type":"report"}`},
	}

	messages, results := Replay(records)
	require.Len(t, messages, 1, "tool records never appear as messages")
	require.Len(t, results, 1)

	assert.Equal(t, model.ResultTable, results[0].Kind)
	assert.Equal(t, "tc-1", results[0].ToolCallID)
	assert.Equal(t, messages[0].ID, results[0].MessageID, "result linked to its issuing message")
}

func TestReplayOrphanToolRecord(t *testing.T) {
	records := []model.BackendRecord{
		{ID: "r1", Type: model.RecordTool, ToolCallID: "tc-x", Content: "Error: upstream timeout"},
	}

	messages, results := Replay(records)
	assert.Empty(t, messages)
	require.Len(t, results, 1)
	assert.Equal(t, model.ResultError, results[0].Kind)
	assert.Empty(t, results[0].MessageID)
}

func TestReplayBuildsPartsFromRecord(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []model.BackendRecord{
		{
			ID:        "r1",
			Type:      model.RecordAI,
			Content:   "two charts coming",
			Timestamp: &ts,
			ToolCalls: []model.ToolCall{
				{ID: "tc-1", Name: "graph_tool"},
				{ID: "tc-2", Name: "graph_tool"},
			},
		},
	}

	messages, _ := Replay(records)
	require.Len(t, messages, 1)
	msg := messages[0]

	assert.Equal(t, ts, msg.Timestamp)
	require.Len(t, msg.Parts, 3)
	assert.Equal(t, model.PartText, msg.Parts[0].Kind)
	assert.Equal(t, "tc-1", msg.Parts[1].ToolCallID)
	assert.Equal(t, "tc-2", msg.Parts[2].ToolCallID)
	assert.True(t, msg.HasToolCall("tc-1"))
}

func TestReplayErrorMetadata(t *testing.T) {
	records := []model.BackendRecord{
		{ID: "r1", Type: model.RecordAI, Content: "failed", ResponseMetadata: map[string]any{"is_error": true}},
		{ID: "r2", Type: model.RecordAI, Content: "failed too", ResponseMetadata: map[string]any{"status": "error"}},
		{ID: "r3", Type: model.RecordAI, Content: "fine", ResponseMetadata: map[string]any{"status": "ok"}},
	}

	messages, _ := Replay(records)
	require.Len(t, messages, 3)
	assert.True(t, messages[0].IsError)
	assert.True(t, messages[1].IsError)
	assert.False(t, messages[2].IsError)
}
