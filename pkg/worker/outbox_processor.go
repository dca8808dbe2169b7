package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
	"github.com/carebridge/agency-api/pkg/logger"
	"github.com/carebridge/agency-api/pkg/messaging"
	"github.com/carebridge/agency-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	ChannelName  string
	MaxRetries   int
}

// OutboxProcessor polls pending outbox events and relays them to the broker.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.ChannelName == "" {
		config.ChannelName = "agency.events"
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 5
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "Failed to process events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	events, err := p.repo.ClaimPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending events: %w", err)
	}

	for _, event := range events {
		start := time.Now()
		if err := p.publish(ctx, event); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			errMsg := err.Error()
			if markErr := p.repo.MarkFailed(ctx, event.ID, errMsg, p.config.MaxRetries); markErr != nil {
				p.logger.Error(markErr, "Failed to mark event failed")
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "Failed to mark event processed")
		}
	}

	return nil
}

func (p *OutboxProcessor) publish(ctx context.Context, event *model.OutboxEvent) error {
	message := messaging.Message{
		Type:    event.EventType,
		Payload: event.Payload,
	}
	if err := p.broker.Publish(ctx, p.config.ChannelName, message); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}
	return nil
}

// CleanupProcessed removes processed events older than the retention window.
func (p *OutboxProcessor) CleanupProcessed(ctx context.Context, retention time.Duration) error {
	deleted, err := p.repo.DeleteProcessedBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	if deleted > 0 {
		p.logger.Info("Cleaned up processed outbox events", "count", deleted)
	}
	return nil
}
