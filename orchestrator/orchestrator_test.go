package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recapbot/cache"
	"recapbot/config"
	"recapbot/summarize"
	"recapbot/types"
)

// fakeSummarizer returns canned results and counts provider calls.
type fakeSummarizer struct {
	calls   atomic.Int64
	respond func(req summarize.Request) (*summarize.Result, error)
}

func (f *fakeSummarizer) Summarize(_ context.Context, req summarize.Request) (*summarize.Result, error) {
	f.calls.Add(1)
	if f.respond != nil {
		return f.respond(req)
	}
	return &summarize.Result{Text: "A generated summary long enough to pass validation."}, nil
}

func (f *fakeSummarizer) ModelName() string { return "fake-model" }

func testArticle(i int) *types.Article {
	url := fmt.Sprintf("https://example.com/story-%d", i)
	return &types.Article{
		ID:              types.GenerateID(url),
		Title:           fmt.Sprintf("Story %d", i),
		URL:             url,
		Source:          "TechCrunch",
		Body:            "body text",
		PrimaryCategory: "General",
		PublishedAt:     time.Now().Add(-time.Hour),
	}
}

func TestProcessBatchGeneratesAndCaches(t *testing.T) {
	store := cache.NewMemoryStore(24*time.Hour, 30*24*time.Hour)
	fake := &fakeSummarizer{}
	o := New(store, fake)

	articles := []*types.Article{testArticle(1), testArticle(2), testArticle(3)}

	results, stats := o.ProcessBatch(context.Background(), articles)
	require.Len(t, results, 3)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Generated)
	assert.Equal(t, 0, stats.CacheHits)
	assert.Equal(t, 0, stats.Failed)
	assert.EqualValues(t, 3, fake.calls.Load())

	// Write-through records the article descriptors plus the summary length.
	entry, err := store.Get(context.Background(), articles[0].ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "TechCrunch", entry.Metadata["source"])
	assert.Equal(t, "General", entry.Metadata["category"])
	assert.Equal(t, strconv.Itoa(len(entry.Summary)), entry.Metadata["length"])

	// Second pass over the same batch must be served entirely from cache.
	_, stats = o.ProcessBatch(context.Background(), articles)
	assert.Equal(t, 3, stats.CacheHits)
	assert.Equal(t, 0, stats.Generated)
	assert.EqualValues(t, 3, fake.calls.Load(), "no provider calls on a fully cached batch")
}

func TestProcessBatchFailureIsolation(t *testing.T) {
	store := cache.NewMemoryStore(24*time.Hour, 30*24*time.Hour)
	fake := &fakeSummarizer{
		respond: func(req summarize.Request) (*summarize.Result, error) {
			if strings.Contains(req.Prompt, "Story 2") {
				return nil, errors.New("provider unavailable")
			}
			return &summarize.Result{Text: "A generated summary long enough to pass validation."}, nil
		},
	}
	o := New(store, fake)

	articles := []*types.Article{testArticle(1), testArticle(2), testArticle(3)}
	results, stats := o.ProcessBatch(context.Background(), articles)

	assert.Equal(t, 2, stats.Generated)
	assert.Equal(t, 1, stats.Failed)

	for _, r := range results {
		if r.Article.Title == "Story 2" {
			assert.Equal(t, StatusFailed, r.Status)
			assert.Contains(t, r.Error, "provider unavailable")
		} else {
			assert.Equal(t, StatusGenerated, r.Status)
		}
	}

	// The failure must not be cached; a rerun retries only the failed article.
	_, stats = o.ProcessBatch(context.Background(), articles)
	assert.Equal(t, 2, stats.CacheHits)
	assert.Equal(t, 1, stats.Failed)
}

func TestProcessBatchRejectsInvalidSummary(t *testing.T) {
	store := cache.NewMemoryStore(24*time.Hour, 30*24*time.Hour)
	fake := &fakeSummarizer{
		respond: func(summarize.Request) (*summarize.Result, error) {
			return &summarize.Result{Text: "too short"}, nil
		},
	}
	o := New(store, fake)

	results, stats := o.ProcessBatch(context.Background(), []*types.Article{testArticle(1)})
	require.Len(t, results, 1)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Equal(t, 1, stats.Failed)

	entry, err := store.Get(context.Background(), results[0].Article.ID)
	require.NoError(t, err)
	assert.Nil(t, entry, "rejected summaries must not reach the cache")
}

func TestProcessBatchCapsSize(t *testing.T) {
	store := cache.NewMemoryStore(24*time.Hour, 30*24*time.Hour)
	o := New(store, &fakeSummarizer{})

	articles := make([]*types.Article, config.MaxBatchSize+10)
	for i := range articles {
		articles[i] = testArticle(i)
	}

	results, stats := o.ProcessBatch(context.Background(), articles)
	assert.Len(t, results, config.MaxBatchSize)
	assert.Equal(t, config.MaxBatchSize, stats.Total)
}

func TestSummaries(t *testing.T) {
	results := []ArticleResult{
		{Article: testArticle(1), Status: StatusGenerated, Summary: "first summary"},
		{Article: testArticle(2), Status: StatusFailed},
		{Article: testArticle(3), Status: StatusCached, Summary: "third summary"},
	}

	m := Summaries(results)
	assert.Len(t, m, 2)
	assert.Equal(t, "first summary", m[testArticle(1).ID])
	assert.Equal(t, "third summary", m[testArticle(3).ID])
}
