package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
)

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.RetryCount,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

// processingReclaimAfter is how long a claimed event may sit in processing
// before another relay is allowed to take it over. Covers a relay that
// crashed between claiming a batch and marking it.
const processingReclaimAfter = 5 * time.Minute

// ClaimPendingEvents flips up to limit pending events to processing and
// returns them in one statement, so a claimed batch stays invisible to
// other relays until it is marked processed or failed. SKIP LOCKED keeps
// two relays polling at the same instant from claiming the same rows.
func (r *outboxRepository) ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, updated_at = $2
		WHERE id IN (
			SELECT id
			FROM outbox_events
			WHERE status = $3
			   OR (status = $1 AND updated_at < $4)
			ORDER BY created_at ASC
			LIMIT $5
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, payload, status, error_message, retry_count,
				  created_at, updated_at, processed_at
	`
	now := time.Now()
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query,
		model.OutboxStatusProcessing,
		now,
		model.OutboxStatusPending,
		now.Add(-processingReclaimAfter),
		limit,
	); err != nil {
		return nil, fmt.Errorf("failed to claim pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = $2, updated_at = $2
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

// MarkFailed records the publish error and requeues the event for the next
// poll. Once the retry count reaches maxRetries the event is parked as
// failed and the poller stops picking it up.
func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, maxRetries int) error {
	query := `
		UPDATE outbox_events
		SET status = CASE WHEN retry_count + 1 >= $1 THEN $2 ELSE $3 END,
			error_message = $4,
			retry_count = retry_count + 1,
			updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		maxRetries,
		model.OutboxStatusFailed,
		model.OutboxStatusPending,
		errorMessage,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`
	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
