package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Source describes one syndication feed.
type Source struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	// Weight is the source reliability weight in [0, 1].
	Weight float64 `yaml:"weight" json:"weight"`
}

// Config is the immutable pipeline configuration. Build one with Load (env +
// optional sources file) or construct it directly in tests; components
// receive it at construction and never mutate it.
type Config struct {
	Sources   []Source
	Lookback  time.Duration
	Freshness time.Duration
	Retention time.Duration

	// MinArticles is the fetched-article floor below which a run reports
	// insufficient data instead of producing a recap.
	MinArticles int

	// RedisAddr enables the Redis cache backend when non-empty; otherwise
	// the in-memory backend is used.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DefaultSources returns the built-in tech source list with reliability
// weights.
func DefaultSources() []Source {
	return []Source{
		{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Weight: 1.0},
		{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml", Weight: 0.9},
		{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index", Weight: 0.95},
		{Name: "MIT Technology Review", URL: "https://www.technologyreview.com/feed/", Weight: 0.95},
		{Name: "Wired", URL: "https://www.wired.com/feed/rss", Weight: 0.9},
		{Name: "VentureBeat", URL: "https://venturebeat.com/feed/", Weight: 0.85},
		{Name: "AI News", URL: "https://artificialintelligence-news.com/feed/", Weight: 0.8},
	}
}

// Load assembles the configuration from the environment. When SOURCES_FILE
// points at a yaml file its source list replaces the built-in defaults.
func Load() (Config, error) {
	cfg := Config{
		Sources:       DefaultSources(),
		Lookback:      DefaultLookback,
		Freshness:     DefaultFreshness,
		Retention:     DefaultRetention,
		MinArticles:   MinArticles,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASS"),
	}

	if v := os.Getenv("MIN_ARTICLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid MIN_ARTICLES %q", v)
		}
		cfg.MinArticles = n
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("invalid LOOKBACK_DAYS %q", v)
		}
		cfg.Lookback = time.Duration(days) * 24 * time.Hour
	}

	if v := os.Getenv("CACHE_FRESHNESS_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_FRESHNESS_HOURS %q", v)
		}
		cfg.Freshness = time.Duration(hours) * time.Hour
	}

	if v := os.Getenv("CACHE_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_RETENTION_DAYS %q", v)
		}
		cfg.Retention = time.Duration(days) * 24 * time.Hour
	}

	if path := os.Getenv("SOURCES_FILE"); path != "" {
		sources, err := LoadSources(path)
		if err != nil {
			return Config{}, err
		}
		cfg.Sources = sources
	}

	return cfg, nil
}

// LoadSources reads a yaml source list of the form:
//
//	sources:
//	  - name: TechCrunch
//	    url: https://techcrunch.com/feed/
//	    weight: 1.0
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var doc struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}
	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}

	for i, s := range doc.Sources {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source %d missing name or url", i)
		}
		if s.Weight < 0 || s.Weight > 1 {
			return nil, fmt.Errorf("source %s weight %.2f out of range [0,1]", s.Name, s.Weight)
		}
	}
	return doc.Sources, nil
}
