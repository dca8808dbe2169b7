package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carebridge/agency-api/internal/model"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
)

const assignmentColumns = `
	id, client_id, caregiver_id, start_date, end_date,
	is_primary, notes, created_at, updated_at
`

// lockActivePrimary reads the client's active primary row with FOR UPDATE so
// concurrent promotions for the same client serialize on the row lock and
// cannot both observe "no current primary".
func lockActivePrimary(ctx context.Context, tx *sqlx.Tx, clientID, excludeID uuid.UUID) (*model.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM caregiver_assignments
		WHERE client_id = $1
		AND is_primary = TRUE
		AND end_date IS NULL
		AND id != $2
		ORDER BY start_date DESC
		LIMIT 1
		FOR UPDATE
	`
	var current model.Assignment
	err := tx.GetContext(ctx, &current, query, clientID, excludeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock active primary: %w", err)
	}
	return &current, nil
}

func endAssignment(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, endDate time.Time) error {
	query := `
		UPDATE caregiver_assignments
		SET end_date = $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := tx.ExecContext(ctx, query, endDate, time.Now(), id); err != nil {
		return fmt.Errorf("failed to end assignment: %w", err)
	}
	return nil
}

// CreateWithPrimaryHandoff inserts the assignment and, when it claims the
// primary slot, ends the client's current active primary at the new start
// date inside the same transaction: either both rows change or neither does.
func (r *assignmentRepository) CreateWithPrimaryHandoff(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	assignment.ID = uuid.New()
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewTransaction(err)
	}
	defer tx.Rollback()

	var ended *model.Assignment
	if assignment.IsPrimary {
		current, err := lockActivePrimary(ctx, tx, assignment.ClientID, assignment.ID)
		if err != nil {
			return nil, apperrors.NewTransaction(err)
		}
		if current != nil {
			// The old primary ends exactly when the new one begins: no
			// gap, no overlap of primary status.
			if err := endAssignment(ctx, tx, current.ID, assignment.StartDate); err != nil {
				return nil, apperrors.NewTransaction(err)
			}
			endDate := assignment.StartDate
			current.EndDate = &endDate
			ended = current
		}
	}

	insert := `
		INSERT INTO caregiver_assignments (
			id, client_id, caregiver_id, start_date, end_date,
			is_primary, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, insert,
		assignment.ID,
		assignment.ClientID,
		assignment.CaregiverID,
		assignment.StartDate,
		assignment.EndDate,
		assignment.IsPrimary,
		assignment.Notes,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewTransaction(fmt.Errorf("failed to create assignment: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewTransaction(err)
	}
	return ended, nil
}

func (r *assignmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM caregiver_assignments
		WHERE id = $1
	`
	var assignment model.Assignment
	err := r.db.GetContext(ctx, &assignment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("assignment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

// Patch writes the mutated assignment. With promote set, any other active
// primary for the same client is ended at promotedAt first, in the same
// transaction and under the same row lock that guards creation.
func (r *assignmentRepository) Patch(ctx context.Context, assignment *model.Assignment, promote bool, promotedAt time.Time) (*model.Assignment, error) {
	assignment.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewTransaction(err)
	}
	defer tx.Rollback()

	var ended *model.Assignment
	if promote {
		current, err := lockActivePrimary(ctx, tx, assignment.ClientID, assignment.ID)
		if err != nil {
			return nil, apperrors.NewTransaction(err)
		}
		if current != nil {
			if err := endAssignment(ctx, tx, current.ID, promotedAt); err != nil {
				return nil, apperrors.NewTransaction(err)
			}
			endDate := promotedAt
			current.EndDate = &endDate
			ended = current
		}
	}

	update := `
		UPDATE caregiver_assignments
		SET end_date = $1, is_primary = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := tx.ExecContext(ctx, update,
		assignment.EndDate,
		assignment.IsPrimary,
		assignment.Notes,
		assignment.UpdatedAt,
		assignment.ID,
	)
	if err != nil {
		return nil, apperrors.NewTransaction(fmt.Errorf("failed to patch assignment: %w", err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewTransaction(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return nil, apperrors.NewNotFound("assignment", nil)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewTransaction(err)
	}
	return ended, nil
}

// Delete removes the row unconditionally. The single-active-primary
// invariant needs no repair here: the slot is simply vacated.
func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM caregiver_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("assignment", nil)
	}
	return nil
}

func (r *assignmentRepository) List(ctx context.Context, filters *model.AssignmentFilters) ([]*model.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM caregiver_assignments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ClientID != uuid.Nil {
			query += fmt.Sprintf(" AND client_id = $%d", argCount)
			args = append(args, filters.ClientID)
			argCount++
		}
		if filters.CaregiverID != uuid.Nil {
			query += fmt.Sprintf(" AND caregiver_id = $%d", argCount)
			args = append(args, filters.CaregiverID)
			argCount++
		}
		if filters.ActiveOnly {
			query += " AND end_date IS NULL"
		}
	}

	query += " ORDER BY start_date DESC"

	var assignments []*model.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) GetActivePrimary(ctx context.Context, clientID uuid.UUID) (*model.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM caregiver_assignments
		WHERE client_id = $1
		AND is_primary = TRUE
		AND end_date IS NULL
		LIMIT 1
	`
	var assignment model.Assignment
	err := r.db.GetContext(ctx, &assignment, query, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("active primary assignment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active primary: %w", err)
	}
	return &assignment, nil
}
