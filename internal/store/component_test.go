package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsLazy(t *testing.T) {
	r := NewComponentRegistry()

	r.Register("sidebar", "nav")
	r.Open("sidebar", map[string]any{"tab": "companies"})

	// Re-registering must not reset existing state.
	r.Register("sidebar", "nav")

	c, ok := r.Get("sidebar")
	require.True(t, ok)
	assert.True(t, c.IsOpen)
	assert.Equal(t, "companies", c.Params["tab"])
}

func TestOpenCloseUnknownIDIsNoOp(t *testing.T) {
	r := NewComponentRegistry()

	r.Open("ghost", nil)
	r.Close("ghost")
	r.SetParams("ghost", map[string]any{"x": 1})

	_, ok := r.Get("ghost")
	assert.False(t, ok)
	assert.Empty(t, r.Snapshot())
}

func TestOpenCloseCycle(t *testing.T) {
	r := NewComponentRegistry()
	r.Register("panel", "modal")

	r.Open("panel", map[string]any{"companyId": "c1"})
	c, _ := r.Get("panel")
	assert.True(t, c.IsOpen)

	r.Close("panel")
	c, _ = r.Get("panel")
	assert.False(t, c.IsOpen)
	assert.Equal(t, "c1", c.Params["companyId"], "close keeps params")
}

func TestSnapshotCopiesParams(t *testing.T) {
	r := NewComponentRegistry()
	r.Register("panel", "modal")
	r.Open("panel", map[string]any{"k": "v"})

	snap := r.Snapshot()
	snap["panel"].Params["k"] = "mutated"

	c, _ := r.Get("panel")
	assert.Equal(t, "v", c.Params["k"])
}

func TestFlagSet(t *testing.T) {
	f := NewFlagSet()

	assert.False(t, f.Get("loading_companies"))
	f.Set("loading_companies", true)
	assert.True(t, f.Get("loading_companies"))

	f.Set("loading_companies", false)
	assert.False(t, f.Get("loading_companies"))

	f.Set("loading_report", true)
	snap := f.Snapshot()
	assert.Len(t, snap, 2)
	assert.True(t, snap["loading_report"])
}
