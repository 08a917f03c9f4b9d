package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"recapbot/cache"
	"recapbot/classify"
	"recapbot/common"
	"recapbot/config"
	"recapbot/recap"
	"recapbot/rssfeeds"
	"recapbot/summarize"
)

// RunReport is the outcome of one end-to-end pipeline run.
type RunReport struct {
	Document         *recap.Document `json:"document,omitempty"`
	Rendered         string          `json:"rendered,omitempty"`
	Stats            BatchStats      `json:"stats"`
	FetchedArticles  int             `json:"fetched_articles"`
	SourceErrors     int             `json:"source_errors"`
	InsufficientData bool            `json:"insufficient_data"`
}

// RunOnce executes a single end-to-end cycle: fetch feeds, normalize,
// classify and score, summarize through the cache, assemble the recap, and
// optionally archive it to S3. No error category is fatal; too few articles
// yields an explicit insufficient-data report instead of a document.
func RunOnce(ctx context.Context, cfg config.Config, store cache.Store, summarizer summarize.Summarizer) (*RunReport, error) {
	log.Println("=== Weekly Recap Run ===")
	now := time.Now()

	// Step 1: fetch all sources concurrently.
	log.Printf("Fetching %d sources (lookback %s)...", len(cfg.Sources), cfg.Lookback)
	fetcher := rssfeeds.NewFetcher(cfg.Lookback, config.PerSourceLimit)
	sourceResults := fetcher.FetchAll(ctx, cfg.Sources)
	fetched := fetcher.Normalize(sourceResults, now)
	log.Printf("Fetched %d article(s), %d source error(s)", fetched.ArticleCount, fetched.SourceErrors)

	report := &RunReport{
		FetchedArticles: fetched.ArticleCount,
		SourceErrors:    fetched.SourceErrors,
	}

	if fetched.ArticleCount < cfg.MinArticles {
		log.Printf("Insufficient articles for a meaningful recap (%d < %d)", fetched.ArticleCount, cfg.MinArticles)
		report.InsufficientData = true
		return report, nil
	}

	// Step 2: pull full text for entries whose feed body is too thin.
	log.Println("Extracting full content for thin entries...")
	rssfeeds.ExtractThinBodies(fetched.Articles)

	// Step 3: classify and score.
	classifier := classify.New(nil)
	for _, article := range fetched.Articles {
		classifier.Enrich(article, now)
	}

	// Step 4: summarize the batch through the cache.
	log.Println("Summarizing batch...")
	results, stats := New(store, summarizer).ProcessBatch(ctx, fetched.Articles)
	report.Stats = stats
	log.Printf("Batch done in %s: %d cached, %d generated, %d failed",
		stats.Elapsed.Round(time.Millisecond), stats.CacheHits, stats.Generated, stats.Failed)

	// Step 5: assemble and render the recap document.
	doc := recap.Build(fetched.Articles, Summaries(results), stats.CacheHits, stats.Generated, stats.Failed, now)
	report.Document = doc
	report.Rendered = recap.Render(doc)

	// Step 6: archive to S3 when configured.
	if err := archiveRecap(ctx, report); err != nil {
		log.Printf("S3 archive failed: %v", err)
	}

	// End-of-run cache housekeeping. Redis expires keys server-side and
	// reports zero here.
	if removed, err := store.Sweep(ctx); err != nil {
		log.Printf("cache sweep failed: %v", err)
	} else if removed > 0 {
		log.Printf("cache sweep removed %d expired entr(ies)", removed)
	}

	displayRunSummary(report)
	log.Println("=== Run Complete ===")
	return report, nil
}

// archiveRecap uploads the rendered recap and the run report to S3 if
// RECAP_S3_BUCKET is set. Missing configuration is not an error.
func archiveRecap(ctx context.Context, report *RunReport) error {
	bucket := strings.TrimSpace(os.Getenv("RECAP_S3_BUCKET"))
	if bucket == "" {
		log.Println("S3 not configured; skipping archive")
		return nil
	}

	cfg := common.S3Config{
		Region:       strings.TrimSpace(os.Getenv("RECAP_S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("RECAP_S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("RECAP_S3_USE_PATH_STYLE")), "true"),
	}
	client, err := common.NewS3(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init s3 client: %w", err)
	}

	prefix := strings.TrimSpace(os.Getenv("RECAP_S3_PREFIX"))
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	datePart := report.Document.GeneratedAt.Format("2006-01-02")

	uctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	key := prefix + "recaps/" + datePart + ".md"
	if exists, err := client.Exists(uctx, bucket, key); err != nil {
		log.Printf("archive existence check for %s failed: %v", key, err)
	} else if exists {
		log.Printf("Replacing existing archive %s", key)
	}
	if err := client.Put(uctx, bucket, key, strings.NewReader(report.Rendered), "text/markdown"); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	statsJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	statsKey := prefix + "recaps/" + datePart + ".json"
	if err := client.Put(uctx, bucket, statsKey, bytes.NewReader(statsJSON), "application/json"); err != nil {
		return fmt.Errorf("upload %s: %w", statsKey, err)
	}

	log.Printf("Archived recap to s3://%s/%s", bucket, key)
	return nil
}

func displayRunSummary(report *RunReport) {
	log.Println("=== Recap Summary ===")
	log.Printf("Fetched Articles:  %d", report.FetchedArticles)
	log.Printf("Source Errors:     %d", report.SourceErrors)
	log.Printf("Cache Hits:        %d", report.Stats.CacheHits)
	log.Printf("Generated:         %d", report.Stats.Generated)
	log.Printf("Failed:            %d", report.Stats.Failed)
	if report.Document != nil {
		log.Printf("Sections:          %d", len(report.Document.Sections))
		if report.Document.Headline != nil {
			log.Printf("Headline:          %s", report.Document.Headline.Title)
		}
	}
	log.Println("=====================")
}
