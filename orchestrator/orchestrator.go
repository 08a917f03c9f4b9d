// Package orchestrator drives summary generation for article batches and
// wires the full fetch → classify → summarize → recap cycle.
package orchestrator

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"recapbot/cache"
	"recapbot/config"
	"recapbot/summarize"
	"recapbot/types"
)

// Generation parameters. Low temperature favors deterministic summaries.
const (
	genTemperature = 0.3
	genMaxTokens   = 150
)

// Per-article processing status.
const (
	StatusCached    = "cached"
	StatusGenerated = "generated"
	StatusFailed    = "failed"
)

// ArticleResult is the per-article outcome of one batch.
type ArticleResult struct {
	Article *types.Article `json:"article"`
	Status  string         `json:"status"` // "cached", "generated", "failed"
	Summary string         `json:"summary,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BatchStats aggregates one batch run.
type BatchStats struct {
	Total     int           `json:"total"`
	CacheHits int           `json:"cache_hits"`
	Generated int           `json:"generated"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Orchestrator decides cache-hit vs. generate per article, fans generation
// out over a bounded worker pool, and writes new summaries through to the
// cache.
type Orchestrator struct {
	store      cache.Store
	summarizer summarize.Summarizer
	workers    int
}

// New creates an orchestrator. store and summarizer must be non-nil.
func New(store cache.Store, summarizer summarize.Summarizer) *Orchestrator {
	return &Orchestrator{
		store:      store,
		summarizer: summarizer,
		workers:    config.SummaryWorkers,
	}
}

// ProcessBatch summarizes up to MaxBatchSize articles. One article's failure
// never stops the rest; failed articles are recorded and skipped. Nothing is
// retried within a batch; the caller may re-submit on a later run.
func (o *Orchestrator) ProcessBatch(ctx context.Context, articles []*types.Article) ([]ArticleResult, BatchStats) {
	start := time.Now()

	if len(articles) > config.MaxBatchSize {
		log.Printf("limiting batch to %d articles (received %d)", config.MaxBatchSize, len(articles))
		articles = articles[:config.MaxBatchSize]
	}

	results := make([]ArticleResult, len(articles))

	var wg sync.WaitGroup
	indexes := make(chan int, len(articles))

	for w := 0; w < o.workers; w++ {
		go func() {
			for i := range indexes {
				results[i] = o.processOne(ctx, articles[i])
				wg.Done()
			}
		}()
	}

	for i := range articles {
		wg.Add(1)
		indexes <- i
	}
	wg.Wait()
	close(indexes)

	stats := BatchStats{Total: len(articles), Elapsed: time.Since(start)}
	for _, r := range results {
		switch r.Status {
		case StatusCached:
			stats.CacheHits++
		case StatusGenerated:
			stats.Generated++
		case StatusFailed:
			stats.Failed++
		}
	}
	return results, stats
}

// processOne walks a single article through cache check, generation, and
// write-through.
func (o *Orchestrator) processOne(ctx context.Context, article *types.Article) ArticleResult {
	// Cache check. A read failure is logged and treated as a miss.
	entry, err := o.store.Get(ctx, article.ID)
	if err != nil {
		log.Printf("  cache read failed for %s: %v (treating as miss)", article.ID, err)
	}
	if entry != nil {
		return ArticleResult{Article: article, Status: StatusCached, Summary: entry.Summary}
	}

	// Generate with a per-call timeout; a hung provider call is a failure,
	// never a stall.
	genCtx, cancel := context.WithTimeout(ctx, config.GenerateTimeout)
	defer cancel()

	result, err := o.summarizer.Summarize(genCtx, summarize.Request{
		System:      summarize.BuildSystemPrompt(article.PrimaryCategory),
		Prompt:      summarize.BuildUserPrompt(article.Title, article.Body),
		MaxTokens:   genMaxTokens,
		Temperature: genTemperature,
	})
	if err != nil {
		log.Printf("  generation failed for %s: %v", article.ID, err)
		return ArticleResult{Article: article, Status: StatusFailed, Error: err.Error()}
	}
	if err := summarize.Validate(result.Text); err != nil {
		log.Printf("  generation rejected for %s: %v", article.ID, err)
		return ArticleResult{Article: article, Status: StatusFailed, Error: err.Error()}
	}

	// Write-through is best-effort: a cache write failure is logged and
	// swallowed, never aborts the batch.
	meta := cache.Metadata{
		"title":    article.Title,
		"source":   article.Source,
		"category": article.PrimaryCategory,
		"length":   strconv.Itoa(len(result.Text)),
	}
	if err := o.store.Put(ctx, article.ID, result.Text, o.summarizer.ModelName(), meta); err != nil {
		log.Printf("  cache write failed for %s: %v", article.ID, err)
	}

	return ArticleResult{Article: article, Status: StatusGenerated, Summary: result.Text}
}

// Summaries collapses batch results into an article-ID → summary map.
func Summaries(results []ArticleResult) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		if r.Summary != "" {
			out[r.Article.ID] = r.Summary
		}
	}
	return out
}
