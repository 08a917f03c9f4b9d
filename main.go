package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"recapbot/api"
	"recapbot/cache"
	"recapbot/config"
	"recapbot/kafka"
	"recapbot/orchestrator"
	"recapbot/summarize"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("cache error: %v", err)
	}
	defer store.Close()

	summarizer, err := summarize.NewFromEnv()
	if err != nil {
		log.Fatalf("summarizer error: %v", err)
	}
	log.Printf("Summarizer ready (model: %s)", summarizer.ModelName())

	deps := api.Deps{Config: cfg, Store: store, Summarizer: summarizer}

	if consumer := startTriggerConsumer(ctx, deps); consumer != nil {
		defer consumer.Close()
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(deps)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/recap/run")
	log.Println("  GET  /api/recap/latest")
	log.Println("  GET  /api/summaries/:id")
	log.Println("  POST /api/summaries/batch")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newStore selects the cache backend: Redis when REDIS_ADDR is configured,
// in-memory otherwise.
func newStore(ctx context.Context, cfg config.Config) (cache.Store, error) {
	if cfg.RedisAddr == "" {
		log.Println("Redis not configured; using in-memory summary cache")
		return cache.NewMemoryStore(cfg.Freshness, cfg.Retention), nil
	}

	log.Printf("Using Redis summary cache at %s", cfg.RedisAddr)
	return cache.NewRedisStore(ctx, cache.RedisConfig{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		Freshness: cfg.Freshness,
		Retention: cfg.Retention,
	})
}

// startTriggerConsumer starts the Kafka run-trigger consumer when
// KAFKA_BROKERS is set. Optional: KAFKA_TOPIC, KAFKA_GROUP.
func startTriggerConsumer(ctx context.Context, deps api.Deps) *kafka.Consumer {
	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		return nil
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "recap-triggers"
	}
	groupID := os.Getenv("KAFKA_GROUP")
	if groupID == "" {
		groupID = "recapbot"
	}

	consumer, err := kafka.NewRunTriggerConsumer(strings.Split(brokers, ","), topic, groupID,
		func(ctx context.Context, trigger *kafka.RunTrigger) error {
			log.Printf("Recap run triggered via Kafka (requested by %q)", trigger.RequestedBy)
			_, err := orchestrator.RunOnce(ctx, deps.Config, deps.Store, deps.Summarizer)
			return err
		})
	if err != nil {
		log.Printf("Warning: failed to create Kafka consumer: %v (triggers disabled)", err)
		return nil
	}

	if err := consumer.Start(ctx); err != nil {
		log.Printf("Warning: failed to start Kafka consumer: %v (triggers disabled)", err)
		consumer.Close()
		return nil
	}
	return consumer
}
