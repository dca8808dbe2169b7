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

func (r *caregiverRepository) Create(ctx context.Context, caregiver *model.Caregiver) error {
	query := `
		INSERT INTO caregivers (
			id, first_name, last_name, email, phone, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	caregiver.ID = uuid.New()
	caregiver.CreatedAt = time.Now()
	caregiver.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		caregiver.ID,
		caregiver.FirstName,
		caregiver.LastName,
		caregiver.Email,
		caregiver.Phone,
		caregiver.Status,
		caregiver.CreatedAt,
		caregiver.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create caregiver: %w", err)
	}
	return nil
}

func (r *caregiverRepository) Get(ctx context.Context, id uuid.UUID) (*model.Caregiver, error) {
	query := `SELECT * FROM caregivers WHERE id = $1`
	var caregiver model.Caregiver
	err := r.db.GetContext(ctx, &caregiver, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("caregiver", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	return &caregiver, nil
}

func (r *caregiverRepository) Update(ctx context.Context, caregiver *model.Caregiver) error {
	query := `
		UPDATE caregivers
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
			status = $5, updated_at = $6
		WHERE id = $7
	`
	caregiver.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		caregiver.FirstName,
		caregiver.LastName,
		caregiver.Email,
		caregiver.Phone,
		caregiver.Status,
		caregiver.UpdatedAt,
		caregiver.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update caregiver: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("caregiver", nil)
	}
	return nil
}

func (r *caregiverRepository) List(ctx context.Context, filters *model.CaregiverFilters) ([]*model.Caregiver, error) {
	query := `SELECT * FROM caregivers WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d)", argCount, argCount)
			args = append(args, "%"+filters.SearchTerm+"%")
			argCount++
		}
	}

	query += " ORDER BY last_name ASC, first_name ASC"

	var caregivers []*model.Caregiver
	if err := r.db.SelectContext(ctx, &caregivers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list caregivers: %w", err)
	}
	return caregivers, nil
}

func (r *caregiverRepository) SetPinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	query := `UPDATE caregivers SET pin_hash = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, pinHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set caregiver pin: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("caregiver", nil)
	}
	return nil
}
