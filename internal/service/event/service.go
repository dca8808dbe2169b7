package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
)

// Service records domain events in the outbox table; a relay worker ships
// them to the message broker.
type Service struct {
	outbox repository.OutboxRepository
}

func NewService(outbox repository.OutboxRepository) *Service {
	return &Service{outbox: outbox}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   raw,
	})
}
