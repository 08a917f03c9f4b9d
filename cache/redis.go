package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recapbot/config"

	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "summary:"

// RedisStore is a Store backed by Redis. Values are JSON records written with
// a key TTL equal to the retention window, so retention expiry is passive.
type RedisStore struct {
	client    *redis.Client
	freshness time.Duration
	retention time.Duration
}

// RedisConfig configures the Redis connection and cache windows.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// Freshness and Retention default to the configured windows when zero.
	Freshness time.Duration
	Retention time.Duration
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	freshness := cfg.Freshness
	if freshness <= 0 {
		freshness = config.DefaultFreshness
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = config.DefaultRetention
	}

	return &RedisStore{client: client, freshness: freshness, retention: retention}, nil
}

func (r *RedisStore) Get(ctx context.Context, articleID string) (*CachedSummary, error) {
	data, err := r.client.Get(ctx, summaryKeyPrefix+articleID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read for %s: %w", articleID, err)
	}

	var entry CachedSummary
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("cache entry for %s is corrupt: %w", articleID, err)
	}

	if time.Since(entry.CreatedAt) >= r.freshness {
		// Stale entry: a miss. The key TTL handles eventual deletion.
		return nil, nil
	}
	return &entry, nil
}

func (r *RedisStore) Put(ctx context.Context, articleID, summary, model string, meta Metadata) error {
	now := time.Now().UTC()
	entry := CachedSummary{
		ArticleID: articleID,
		Summary:   summary,
		CreatedAt: now,
		ExpiresAt: now.Add(r.retention),
		Model:     model,
		Metadata:  meta,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry for %s: %w", articleID, err)
	}
	if err := r.client.Set(ctx, summaryKeyPrefix+articleID, data, r.retention).Err(); err != nil {
		return fmt.Errorf("cache write for %s: %w", articleID, err)
	}
	return nil
}

// Sweep is passive for Redis: key TTLs delete expired entries server-side.
func (r *RedisStore) Sweep(context.Context) (int, error) { return 0, nil }

func (r *RedisStore) Close() error { return r.client.Close() }
