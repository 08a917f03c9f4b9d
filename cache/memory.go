package cache

import (
	"context"
	"sync"
	"time"

	"recapbot/config"
)

// MemoryStore is an in-process Store used for tests and cacheless runs.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]*CachedSummary
	freshness time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewMemoryStore creates an in-memory store. Non-positive windows fall back
// to the configured defaults.
func NewMemoryStore(freshness, retention time.Duration) *MemoryStore {
	if freshness <= 0 {
		freshness = config.DefaultFreshness
	}
	if retention <= 0 {
		retention = config.DefaultRetention
	}
	return &MemoryStore{
		entries:   make(map[string]*CachedSummary),
		freshness: freshness,
		retention: retention,
		now:       time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, articleID string) (*CachedSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[articleID]
	if !ok {
		return nil, nil
	}
	if m.now().Sub(entry.CreatedAt) >= m.freshness {
		// Stale: treated as a miss, but retained until the retention
		// window expires.
		return nil, nil
	}

	copied := *entry
	return &copied, nil
}

func (m *MemoryStore) Put(_ context.Context, articleID, summary, model string, meta Metadata) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[articleID] = &CachedSummary{
		ArticleID: articleID,
		Summary:   summary,
		CreatedAt: now,
		ExpiresAt: now.Add(m.retention),
		Model:     model,
		Metadata:  meta,
	}
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, entry := range m.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Close() error { return nil }

// Len reports the number of entries held, including stale ones.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
