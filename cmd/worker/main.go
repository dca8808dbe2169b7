package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/agency-api/internal/repository/postgres"
	"github.com/carebridge/agency-api/pkg/logger"
	"github.com/carebridge/agency-api/pkg/messaging/redis"
	"github.com/carebridge/agency-api/pkg/metrics"
	"github.com/carebridge/agency-api/pkg/worker"
)

// Config is read from the environment so the relay can run as a sidecar
// without a config file.
type Config struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL        string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	BatchSize       int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval    time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	ChannelName     string        `envconfig:"OUTBOX_CHANNEL" default:"agency.events"`
	MaxRetries      int           `envconfig:"OUTBOX_MAX_RETRIES" default:"5"`
	RetentionPeriod time.Duration `envconfig:"OUTBOX_RETENTION" default:"168h"`
	CleanupInterval time.Duration `envconfig:"OUTBOX_CLEANUP_INTERVAL" default:"1h"`
	HealthPort      string        `envconfig:"HEALTH_PORT" default:":8081"`
}

func setupHealthCheck(addr string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Error(err, "Health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	appLogger := logger.NewLogger(nil)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:    cfg.BatchSize,
			PollInterval: cfg.PollInterval,
			ChannelName:  cfg.ChannelName,
			MaxRetries:   cfg.MaxRetries,
		},
		appLogger,
		metrics.NewMetrics("agency", "outbox_relay"),
	)

	setupHealthCheck(cfg.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := processor.CleanupProcessed(ctx, cfg.RetentionPeriod); err != nil {
					appLogger.Error(err, "Failed to clean up processed events")
				}
			}
		}
	}()

	processor.Start(ctx)
}
