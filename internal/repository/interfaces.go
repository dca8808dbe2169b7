package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
)

// All repository interfaces in one file
type (
	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error)
		// Deactivate soft-deletes by status; client rows are never removed
		// while assignments, rules or visits reference them.
		Deactivate(ctx context.Context, id uuid.UUID) error
	}

	CaregiverRepository interface {
		Create(ctx context.Context, caregiver *model.Caregiver) error
		Get(ctx context.Context, id uuid.UUID) (*model.Caregiver, error)
		Update(ctx context.Context, caregiver *model.Caregiver) error
		List(ctx context.Context, filters *model.CaregiverFilters) ([]*model.Caregiver, error)
		SetPinHash(ctx context.Context, id uuid.UUID, pinHash string) error
	}

	// AssignmentRepository owns the single-active-primary invariant at the
	// storage level: every mutation that can affect it runs as one
	// transaction with the client's assignment rows locked.
	AssignmentRepository interface {
		// CreateWithPrimaryHandoff inserts the assignment. When it is
		// primary, any active primary for the same client is ended at the
		// new assignment's start date in the same transaction. The ended
		// assignment, if any, is returned.
		CreateWithPrimaryHandoff(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
		// Patch applies the already-mutated assignment. With promote set,
		// any other active primary for the same client is ended at
		// promotedAt in the same transaction and returned.
		Patch(ctx context.Context, assignment *model.Assignment, promote bool, promotedAt time.Time) (*model.Assignment, error)
		// Delete removes the row unconditionally; the primary slot is
		// simply vacated.
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AssignmentFilters) ([]*model.Assignment, error)
		GetActivePrimary(ctx context.Context, clientID uuid.UUID) (*model.Assignment, error)
	}

	ScheduleRuleRepository interface {
		Create(ctx context.Context, rule *model.ScheduleRule) error
		Get(ctx context.Context, id uuid.UUID) (*model.ScheduleRule, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ScheduleRuleFilters) ([]*model.ScheduleRule, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id uuid.UUID) (*model.Visit, error)
		Update(ctx context.Context, visit *model.Visit) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.VisitFilters) ([]*model.Visit, error)
		// ListOverlappingWindow returns visits whose scheduled interval
		// intersects [windowStart, windowEnd), excluding rows with a null
		// scheduled bound, ordered by scheduled_start ascending.
		ListOverlappingWindow(ctx context.Context, windowStart, windowEnd time.Time, filters *model.VisitFilters) ([]*model.Visit, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPendingEvents atomically moves up to limit pending events
		// to processing and returns them, so concurrent relays split the
		// backlog instead of double-publishing it.
		ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		// MarkFailed requeues the event as pending until retry_count
		// reaches maxRetries, after which it stays failed.
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, maxRetries int) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
