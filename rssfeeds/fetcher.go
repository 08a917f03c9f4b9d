package rssfeeds

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"recapbot/config"
	"recapbot/types"

	"github.com/mmcdole/gofeed"
)

// rssUserAgent is a browser-like User-Agent; some feeds behind CDN proxies
// reject the default Go HTTP client UA.
const rssUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Item is one raw feed entry before normalization.
type Item struct {
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt time.Time // zero when the feed carries no resolvable date
}

// Fetcher pulls raw entries from configured sources within a lookback window.
type Fetcher struct {
	parser   *gofeed.Parser
	lookback time.Duration
	limit    int
}

// NewFetcher creates a fetcher with the given lookback window and per-source
// entry cap. Non-positive arguments fall back to the configured defaults.
func NewFetcher(lookback time.Duration, perSourceLimit int) *Fetcher {
	if lookback <= 0 {
		lookback = config.DefaultLookback
	}
	if perSourceLimit <= 0 {
		perSourceLimit = config.PerSourceLimit
	}

	parser := gofeed.NewParser()
	parser.UserAgent = rssUserAgent
	parser.Client = &http.Client{Timeout: config.FetchTimeout}

	return &Fetcher{parser: parser, lookback: lookback, limit: perSourceLimit}
}

// FetchSource retrieves and parses one feed, returning at most the per-source
// cap of raw items. There is no persisted cursor; every run sees whatever the
// provider's current feed window contains.
func (f *Fetcher) FetchSource(ctx context.Context, source config.Source) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	items := make([]Item, 0, min(len(feed.Items), f.limit))
	for _, entry := range feed.Items {
		if len(items) >= f.limit {
			break
		}

		var published time.Time
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		items = append(items, Item{
			Title:       entry.Title,
			Link:        entry.Link,
			Description: entry.Description,
			Content:     entry.Content,
			PublishedAt: published,
		})
	}

	return items, nil
}

// SourceResult holds the outcome of fetching a single source.
type SourceResult struct {
	Source config.Source
	Items  []Item
	Err    error
}

// FetchAll fetches every source concurrently. A failed source is logged and
// yields zero items; it never aborts the pass. No retries; a failed source
// simply contributes nothing this run.
func (f *Fetcher) FetchAll(ctx context.Context, sources []config.Source) []SourceResult {
	results := make([]SourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src config.Source) {
			defer wg.Done()
			items, err := f.FetchSource(ctx, src)
			if err != nil {
				log.Printf("  source %s failed: %v", src.Name, err)
			} else {
				log.Printf("  source %s: %d item(s)", src.Name, len(items))
			}
			results[i] = SourceResult{Source: src, Items: items, Err: err}
		}(i, src)
	}
	wg.Wait()

	return results
}

// Normalize converts the raw items of a fetch pass into Articles, applying
// the lookback window and dropping undateable or empty entries. Entries
// whose URL already appeared earlier in the pass are dropped; the first
// occurrence wins.
func (f *Fetcher) Normalize(results []SourceResult, now time.Time) *types.FetchResult {
	out := &types.FetchResult{FetchedAt: now}
	cutoff := now.Add(-f.lookback)

	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Err != nil {
			out.SourceErrors++
			continue
		}
		for _, item := range r.Items {
			article, ok := NormalizeItem(item, r.Source, now, cutoff)
			if !ok {
				continue
			}
			if _, dup := seen[article.ID]; dup {
				continue
			}
			seen[article.ID] = struct{}{}
			out.Articles = append(out.Articles, article)
		}
	}

	out.ArticleCount = len(out.Articles)
	return out
}
