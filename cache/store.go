// Package cache persists per-article summaries with expiration.
//
// Entries within the freshness window are served as hits; older entries are
// reported as misses but kept until the retention window expires. The store
// owns all raw storage access; callers never touch backend keys directly.
package cache

import (
	"context"
	"time"
)

// Metadata is free-form descriptive data stored alongside a summary.
type Metadata map[string]string

// CachedSummary is one persisted summary record, keyed by article ID.
type CachedSummary struct {
	ArticleID string    `json:"article_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Model     string    `json:"model_used"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

// Store is the summary cache contract. Implementations must be safe for
// concurrent use; last-write-wins per article ID is acceptable.
type Store interface {
	// Get returns the cached summary, or (nil, nil) when no entry exists
	// or the entry is older than the freshness window.
	Get(ctx context.Context, articleID string) (*CachedSummary, error)

	// Put upserts a summary, stamping the current time and an expiry of
	// now + retention window.
	Put(ctx context.Context, articleID, summary, model string, meta Metadata) error

	// Sweep removes entries past the retention window and reports how many
	// were deleted. Backends with native TTL expiry may be passive here.
	Sweep(ctx context.Context) (int, error)

	Close() error
}
