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

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (
			id, first_name, last_name, address, city, phone, language,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Address,
		client.City,
		client.Phone,
		client.Language,
		client.Status,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `SELECT * FROM clients WHERE id = $1`
	var client model.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET first_name = $1, last_name = $2, address = $3, city = $4,
			phone = $5, language = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	client.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		client.FirstName,
		client.LastName,
		client.Address,
		client.City,
		client.Phone,
		client.Language,
		client.Status,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("client", nil)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	query := `SELECT * FROM clients WHERE 1=1`
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

	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Deactivate flips the status flag; client rows are never removed while
// referenced by assignments, rules or visits.
func (r *clientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE clients SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, model.ClientStatusInactive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("client", nil)
	}
	return nil
}
