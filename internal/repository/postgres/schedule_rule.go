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

const scheduleRuleColumns = `
	id, client_id, caregiver_id, day_of_week, start_time_minutes,
	end_time_minutes, effective_start_date, effective_end_date,
	service_code, notes, created_at, updated_at
`

func (r *scheduleRuleRepository) Create(ctx context.Context, rule *model.ScheduleRule) error {
	query := `
		INSERT INTO schedule_rules (
			id, client_id, caregiver_id, day_of_week, start_time_minutes,
			end_time_minutes, effective_start_date, effective_end_date,
			service_code, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	rule.ID = uuid.New()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.ClientID,
		rule.CaregiverID,
		rule.DayOfWeek,
		rule.StartTimeMinutes,
		rule.EndTimeMinutes,
		rule.EffectiveStartDate,
		rule.EffectiveEndDate,
		rule.ServiceCode,
		rule.Notes,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule rule: %w", err)
	}
	return nil
}

func (r *scheduleRuleRepository) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleRule, error) {
	query := `
		SELECT ` + scheduleRuleColumns + `
		FROM schedule_rules
		WHERE id = $1
	`
	var rule model.ScheduleRule
	err := r.db.GetContext(ctx, &rule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("schedule rule", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule rule: %w", err)
	}
	return &rule, nil
}

// Delete removes a rule outright. Deletion is unconditional and
// irreversible; there is no soft end.
func (r *scheduleRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule rule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("schedule rule", nil)
	}
	return nil
}

func (r *scheduleRuleRepository) List(ctx context.Context, filters *model.ScheduleRuleFilters) ([]*model.ScheduleRule, error) {
	query := `
		SELECT ` + scheduleRuleColumns + `
		FROM schedule_rules
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
		if filters.DayOfWeek != nil {
			query += fmt.Sprintf(" AND day_of_week = $%d", argCount)
			args = append(args, *filters.DayOfWeek)
			argCount++
		}
	}

	query += " ORDER BY day_of_week ASC, start_time_minutes ASC"

	var rules []*model.ScheduleRule
	if err := r.db.SelectContext(ctx, &rules, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list schedule rules: %w", err)
	}
	return rules, nil
}
