package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/agency-api/internal/config"
	"github.com/carebridge/agency-api/internal/email"
	"github.com/carebridge/agency-api/internal/handler"
	assignmentHandler "github.com/carebridge/agency-api/internal/handler/assignment"
	caregiverHandler "github.com/carebridge/agency-api/internal/handler/caregiver"
	clientHandler "github.com/carebridge/agency-api/internal/handler/client"
	scheduleHandler "github.com/carebridge/agency-api/internal/handler/schedule"
	visitHandler "github.com/carebridge/agency-api/internal/handler/visit"
	"github.com/carebridge/agency-api/internal/middleware"
	"github.com/carebridge/agency-api/internal/repository/postgres"
	"github.com/carebridge/agency-api/internal/router"
	assignmentService "github.com/carebridge/agency-api/internal/service/assignment"
	caregiverService "github.com/carebridge/agency-api/internal/service/caregiver"
	clientService "github.com/carebridge/agency-api/internal/service/client"
	directoryService "github.com/carebridge/agency-api/internal/service/directory"
	eventService "github.com/carebridge/agency-api/internal/service/event"
	scheduleService "github.com/carebridge/agency-api/internal/service/schedule"
	visitService "github.com/carebridge/agency-api/internal/service/visit"
	"github.com/carebridge/agency-api/pkg/logger"
	"github.com/carebridge/agency-api/pkg/messaging/redis"
	"github.com/carebridge/agency-api/pkg/metrics"
	"github.com/carebridge/agency-api/pkg/security"
	"github.com/carebridge/agency-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	clientRepo := postgres.NewClientRepository(db)
	caregiverRepo := postgres.NewCaregiverRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	ruleRepo := postgres.NewScheduleRuleRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	directorySvc := directoryService.NewService(clientRepo, caregiverRepo, 5*time.Minute)
	eventSvc := eventService.NewService(outboxRepo)
	appMetrics := metrics.NewMetrics("agency", "api")

	var notifier assignmentService.Notifier
	if cfg.Email.Enabled {
		notifier = email.NewService(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}, caregiverRepo, clientRepo)
	}

	clientSvc := clientService.NewService(clientRepo, directorySvc)
	caregiverSvc := caregiverService.NewService(caregiverRepo, directorySvc, security.NewBcryptHasher(security.DefaultCost))
	assignmentSvc := assignmentService.NewService(assignmentRepo, eventSvc, notifier, appMetrics)
	scheduleSvc := scheduleService.NewService(ruleRepo, visitRepo, directorySvc, eventSvc, appMetrics, cfg.DayView.WindowStartHour, cfg.DayView.WindowEndHour)
	visitSvc := visitService.NewService(visitRepo)

	// Middleware
	var authMiddleware *middleware.AuthMiddleware
	if cfg.JWT.Secret != "" {
		authMiddleware = middleware.NewAuthMiddleware(cfg.JWT.Secret)
	}

	// Handlers
	h := handler.NewHandler(db)
	clientH := clientHandler.NewHandler(clientSvc)
	caregiverH := caregiverHandler.NewHandler(caregiverSvc)
	assignmentH := assignmentHandler.NewHandler(assignmentSvc)
	scheduleH := scheduleHandler.NewHandler(scheduleSvc)
	visitH := visitHandler.NewHandler(visitSvc)

	rateLimitRPS := 0.0
	if cfg.RateLimit.Enabled {
		rateLimitRPS = cfg.RateLimit.RequestsPerSecond
	}

	r := router.NewRouter(
		authMiddleware,
		clientH,
		caregiverH,
		assignmentH,
		scheduleH,
		visitH,
		h,
		router.RouterConfig{
			RateLimitRPS:  rateLimitRPS,
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "agency_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Outbox relay
	appLogger := logger.NewLogger(nil)
	brokerLogger := log.Logger
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
		ChannelName:  cfg.Outbox.ChannelName,
		MaxRetries:   cfg.Outbox.MaxRetries,
	}, appLogger, appMetrics)

	outboxCtx, stopOutbox := context.WithCancel(context.Background())
	go outboxProcessor.Start(outboxCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopOutbox()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
