// Command recap runs the weekly recap pipeline once and prints the recap
// document. The rendered markdown goes to stdout (or -out); run statistics
// are styled onto stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"recapbot/cache"
	"recapbot/config"
	"recapbot/orchestrator"
	"recapbot/summarize"
)

const (
	colorPrimary = "#7D56F4"
	colorSuccess = "#04B575"
	colorError   = "#FF0000"
	colorBorder  = "#874BFD"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSuccess))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(1, 2)
)

func main() {
	_ = godotenv.Load()

	sourcesPath := flag.String("sources", "", "yaml file with feed sources (overrides defaults)")
	outPath := flag.String("out", "", "write the rendered recap to this file instead of stdout")
	lookbackDays := flag.Int("lookback", 0, "fetch window in days (overrides LOOKBACK_DAYS)")
	asJSON := flag.Bool("json", false, "emit the full run report as JSON instead of markdown")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *sourcesPath != "" {
		sources, err := config.LoadSources(*sourcesPath)
		if err != nil {
			log.Fatalf("sources error: %v", err)
		}
		cfg.Sources = sources
	}
	if *lookbackDays > 0 {
		cfg.Lookback = time.Duration(*lookbackDays) * 24 * time.Hour
	}

	ctx := context.Background()

	var store cache.Store
	if cfg.RedisAddr != "" {
		store, err = cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Freshness: cfg.Freshness,
			Retention: cfg.Retention,
		})
		if err != nil {
			log.Fatalf("cache error: %v", err)
		}
	} else {
		store = cache.NewMemoryStore(cfg.Freshness, cfg.Retention)
	}
	defer store.Close()

	summarizer, err := summarize.NewFromEnv()
	if err != nil {
		log.Fatalf("summarizer error: %v", err)
	}

	report, err := orchestrator.RunOnce(ctx, cfg, store, summarizer)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if report.InsufficientData {
		fmt.Fprintln(os.Stderr, failStyle.Render(fmt.Sprintf(
			"Not enough articles for a recap (%d fetched, %d source errors)",
			report.FetchedArticles, report.SourceErrors)))
		os.Exit(1)
	}

	output := report.Rendered
	if *asJSON {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("encoding report: %v", err)
		}
		output = string(b)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(output), 0o644); err != nil {
			log.Fatalf("writing %s: %v", *outPath, err)
		}
		fmt.Fprintln(os.Stderr, okStyle.Render("Recap written to "+*outPath))
	} else {
		fmt.Println(output)
	}

	fmt.Fprintln(os.Stderr, statsBox(report))
}

func statsBox(report *orchestrator.RunReport) string {
	lines := titleStyle.Render("Weekly Recap Run") + "\n\n"
	lines += fmt.Sprintf("Articles fetched  %d\n", report.FetchedArticles)
	lines += fmt.Sprintf("Source errors     %d\n", report.SourceErrors)
	lines += okStyle.Render(fmt.Sprintf("Cache hits        %d", report.Stats.CacheHits)) + "\n"
	lines += okStyle.Render(fmt.Sprintf("Generated         %d", report.Stats.Generated)) + "\n"
	if report.Stats.Failed > 0 {
		lines += failStyle.Render(fmt.Sprintf("Failed            %d", report.Stats.Failed)) + "\n"
	}
	lines += fmt.Sprintf("Elapsed           %s", report.Stats.Elapsed.Round(time.Millisecond))
	return boxStyle.Render(lines)
}
