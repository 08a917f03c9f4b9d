package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(freshness, retention time.Duration) (*MemoryStore, *time.Time) {
	store := NewMemoryStore(freshness, retention)
	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	return store, &current
}

func TestMemoryStoreFreshHit(t *testing.T) {
	store, _ := newTestStore(24*time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a1", "a perfectly valid summary", "test-model", Metadata{"source": "TechCrunch"}))

	entry, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "a perfectly valid summary", entry.Summary)
	assert.Equal(t, "test-model", entry.Model)
	assert.Equal(t, "TechCrunch", entry.Metadata["source"])
}

func TestMemoryStoreMiss(t *testing.T) {
	store, _ := newTestStore(24*time.Hour, 30*24*time.Hour)

	entry, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestMemoryStoreStaleIsMissButRetained(t *testing.T) {
	store, current := newTestStore(24*time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a1", "a perfectly valid summary", "test-model", nil))

	// Past freshness but well inside retention.
	*current = current.Add(25 * time.Hour)

	entry, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, entry, "stale entry must read as a miss")
	assert.Equal(t, 1, store.Len(), "stale entry must stay until retention expires")
}

func TestMemoryStoreRewriteRestoresFreshness(t *testing.T) {
	store, current := newTestStore(24*time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a1", "first generation summary text", "test-model", nil))
	*current = current.Add(25 * time.Hour)
	require.NoError(t, store.Put(ctx, "a1", "second generation summary text", "test-model", nil))

	entry, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "second generation summary text", entry.Summary)
}

func TestMemoryStoreSweep(t *testing.T) {
	store, current := newTestStore(24*time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old", "summary for the older entry", "test-model", nil))
	*current = current.Add(15 * 24 * time.Hour)
	require.NoError(t, store.Put(ctx, "new", "summary for the newer entry", "test-model", nil))

	// Only "old" has crossed its retention deadline.
	*current = current.Add(16 * 24 * time.Hour)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}
