// Package cache implements the capped per-user workspace snapshot cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

// DefaultLimit is the maximum number of snapshots kept per user. The list is
// a sliding window: newest first, oldest evicted.
const DefaultLimit = 50

// SnapshotCache persists capped snapshot lists in a KV bucket, one key per
// user. Saving never mutates live workspace state.
type SnapshotCache struct {
	kv    jetstream.KeyValue
	limit int
}

// New creates a snapshot cache over the given bucket.
func New(kv jetstream.KeyValue, limit int) *SnapshotCache {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &SnapshotCache{kv: kv, limit: limit}
}

// Save prepends the snapshot to the user's list, evicting the oldest entries
// beyond the cap, and writes the list back.
func (c *SnapshotCache) Save(ctx context.Context, userKey string, snap model.WorkspaceSnapshot) error {
	list, err := c.List(ctx, userKey)
	if err != nil {
		return err
	}

	list = prepend(list, snap, c.limit)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot list: %w", err)
	}
	if _, err := c.kv.Put(ctx, userKey, data); err != nil {
		return fmt.Errorf("failed to store snapshot list: %w", err)
	}
	return nil
}

// List returns the user's snapshot list, newest first. A missing key is an
// empty list, not an error.
func (c *SnapshotCache) List(ctx context.Context, userKey string) ([]model.WorkspaceSnapshot, error) {
	entry, err := c.kv.Get(ctx, userKey)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return []model.WorkspaceSnapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot list: %w", err)
	}

	var list []model.WorkspaceSnapshot
	if err := json.Unmarshal(entry.Value(), &list); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot list: %w", err)
	}
	return list, nil
}

// prepend inserts the snapshot at the head and truncates to limit entries,
// dropping the oldest.
func prepend(list []model.WorkspaceSnapshot, snap model.WorkspaceSnapshot, limit int) []model.WorkspaceSnapshot {
	out := make([]model.WorkspaceSnapshot, 0, len(list)+1)
	out = append(out, snap)
	out = append(out, list...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
