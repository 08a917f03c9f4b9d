package types

import (
	"time"

	"github.com/google/uuid"
)

// Article represents a single normalized article flowing through the pipeline.
// It is created at fetch time, enriched in place by the normalizer and
// classifier, and treated as read-only afterwards. Only its derived summary
// outlives the process, via the cache store.
type Article struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Source          string    `json:"source"`
	SourceWeight    float64   `json:"source_weight"`
	PublishedAt     time.Time `json:"published_at"`
	FetchedAt       time.Time `json:"fetched_at"`
	Body            string    `json:"body"`
	Categories      []string  `json:"categories,omitempty"`
	PrimaryCategory string    `json:"primary_category,omitempty"`
	Score           float64   `json:"score"`
	ExtractionError string    `json:"extraction_error,omitempty"`
}

// FetchResult is the top-level wrapper for one fetch pass across all sources.
type FetchResult struct {
	FetchedAt    time.Time  `json:"fetched_at"`
	ArticleCount int        `json:"article_count"`
	SourceErrors int        `json:"source_errors"`
	Articles     []*Article `json:"articles"`
}

// GenerateID derives a stable identifier from an article URL. The same URL
// always yields the same ID across runs; cache correctness depends on it.
func GenerateID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}
