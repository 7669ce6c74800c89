package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

func TestUpsertAppendsAndFocuses(t *testing.T) {
	r := NewToolResultRegistry()

	res := r.Upsert(model.ToolCallResult{ToolCallID: "tc-1", Kind: model.ResultTable, Payload: "{}"})
	assert.NotEmpty(t, res.ID)
	assert.False(t, res.CreatedAt.IsZero())

	state := r.Snapshot()
	require.Len(t, state.Results, 1)
	assert.Equal(t, "tc-1", state.ActiveToolCallID)
}

func TestUpsertReplacesInPlace(t *testing.T) {
	r := NewToolResultRegistry()
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1", Kind: model.ResultText, Payload: "first"})
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-2", Kind: model.ResultGraph, Payload: "graph"})

	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1", Kind: model.ResultTable, Payload: "second"})

	state := r.Snapshot()
	require.Len(t, state.Results, 2)
	assert.Equal(t, "tc-1", state.Results[0].ToolCallID, "replacement keeps list position")
	assert.Equal(t, "second", state.Results[0].Payload)
	assert.Equal(t, "tc-1", state.ActiveToolCallID, "every upsert focuses the result")
}

func TestSetActiveIsUnconditional(t *testing.T) {
	r := NewToolResultRegistry()
	r.SetActive("never-seen")

	state := r.Snapshot()
	assert.Equal(t, "never-seen", state.ActiveToolCallID)
}

func TestRemoveRepairsActivePointer(t *testing.T) {
	r := NewToolResultRegistry()
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1"})
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-2"})
	r.SetActive("tc-2")

	r.Remove("tc-2")
	state := r.Snapshot()
	require.Len(t, state.Results, 1)
	assert.Equal(t, "tc-1", state.ActiveToolCallID)

	r.Remove("tc-1")
	state = r.Snapshot()
	assert.Empty(t, state.Results)
	assert.Empty(t, state.ActiveToolCallID)
}

func TestRemoveInactiveKeepsPointer(t *testing.T) {
	r := NewToolResultRegistry()
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1"})
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-2"})

	r.Remove("tc-1")
	assert.Equal(t, "tc-2", r.Snapshot().ActiveToolCallID)
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	r := NewToolResultRegistry()
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1"})

	r.Remove("missing")
	assert.Len(t, r.Snapshot().Results, 1)
}

func TestResetClearsEverything(t *testing.T) {
	r := NewToolResultRegistry()
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1"})
	r.SetEditableCode("df = load()")

	r.Reset()

	state := r.Snapshot()
	assert.Empty(t, state.Results)
	assert.Empty(t, state.ActiveToolCallID)
	assert.Empty(t, state.EditableCode)
}

func TestActiveLookup(t *testing.T) {
	r := NewToolResultRegistry()
	_, ok := r.Active()
	assert.False(t, ok)

	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1", Payload: "p"})
	res, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "tc-1", res.ToolCallID)
}

func TestExportDoesNotMutateLiveState(t *testing.T) {
	r := NewToolResultRegistry()
	r.Upsert(model.ToolCallResult{ToolCallID: "tc-1", Payload: "p"})
	r.SetEditableCode("code")

	snap := r.Export()
	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.CreatedAt.IsZero())
	require.Len(t, snap.Results, 1)
	assert.Equal(t, "tc-1", snap.ActiveToolCallID)
	assert.Equal(t, "code", snap.EditableCode)

	state := r.Snapshot()
	assert.Len(t, state.Results, 1)
	assert.Equal(t, "code", state.EditableCode)
}
