package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
)

const visitColumns = `
	id, client_id, caregiver_id, scheduled_start, scheduled_end,
	actual_start, actual_end, service_code, has_incident, notes,
	created_at, updated_at
`

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visit_logs (
			id, client_id, caregiver_id, scheduled_start, scheduled_end,
			actual_start, actual_end, service_code, has_incident, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	visit.ID = uuid.New()
	visit.CreatedAt = time.Now()
	visit.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		visit.ID,
		visit.ClientID,
		visit.CaregiverID,
		visit.ScheduledStart,
		visit.ScheduledEnd,
		visit.ActualStart,
		visit.ActualEnd,
		visit.ServiceCode,
		visit.HasIncident,
		visit.Notes,
		visit.CreatedAt,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visit_logs
		WHERE id = $1
	`
	var visit model.Visit
	err := r.db.GetContext(ctx, &visit, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("visit", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	query := `
		UPDATE visit_logs
		SET actual_start = $1, actual_end = $2, service_code = $3,
			has_incident = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`
	visit.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		visit.ActualStart,
		visit.ActualEnd,
		visit.ServiceCode,
		visit.HasIncident,
		visit.Notes,
		visit.UpdatedAt,
		visit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("visit", nil)
	}
	return nil
}

func (r *visitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM visit_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("visit", nil)
	}
	return nil
}

func (r *visitRepository) List(ctx context.Context, filters *model.VisitFilters) ([]*model.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visit_logs
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
	}

	query += " ORDER BY created_at DESC"

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// ListOverlappingWindow returns visits whose [scheduled_start, scheduled_end)
// intersects the window. Rows with a null scheduled bound never participate.
func (r *visitRepository) ListOverlappingWindow(ctx context.Context, windowStart, windowEnd time.Time, filters *model.VisitFilters) ([]*model.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visit_logs
		WHERE scheduled_start IS NOT NULL
		AND scheduled_end IS NOT NULL
		AND scheduled_start < $1
		AND scheduled_end > $2
	`
	args := []interface{}{windowEnd, windowStart}
	argCount := 3

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
	}

	query += " ORDER BY scheduled_start ASC"

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visits for window: %w", err)
	}
	return visits, nil
}
