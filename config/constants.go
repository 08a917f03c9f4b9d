package config

import "time"

// Pipeline Constants
const (
	// DefaultLookback is how far back the fetcher looks for entries
	DefaultLookback = 7 * 24 * time.Hour

	// PerSourceLimit caps entries taken from a single feed per run
	PerSourceLimit = 15

	// MaxBatchSize caps articles summarized in one batch
	MaxBatchSize = 50

	// MinArticles is the default minimum fetched article count for a
	// meaningful recap; Config.MinArticles carries the effective value
	MinArticles = 5

	// FetchTimeout bounds a single feed fetch
	FetchTimeout = 30 * time.Second

	// GenerateTimeout bounds a single summarization call
	GenerateTimeout = 60 * time.Second

	// SummaryWorkers is the worker pool size for generation calls
	SummaryWorkers = 5

	// MaxBodyLength bounds normalized article body text
	MaxBodyLength = 1000

	// MaxPromptLength bounds article content placed into a prompt
	MaxPromptLength = 4000

	// MinSummaryLength is the shortest generated summary accepted as valid
	MinSummaryLength = 20
)

// Cache Constants
const (
	// DefaultFreshness is the maximum age at which a cached summary is
	// still served instead of regenerated
	DefaultFreshness = 24 * time.Hour

	// DefaultRetention is the age after which a cached summary is eligible
	// for deletion
	DefaultRetention = 30 * 24 * time.Hour
)
