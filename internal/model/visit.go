package model

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a planned or performed home visit. Only rows with both scheduled
// bounds populated participate in day-view overlap queries.
type Visit struct {
	Base
	ClientID       uuid.UUID  `db:"client_id" json:"client_id"`
	CaregiverID    uuid.UUID  `db:"caregiver_id" json:"caregiver_id"`
	ScheduledStart *time.Time `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   *time.Time `db:"scheduled_end" json:"scheduled_end"`
	ActualStart    *time.Time `db:"actual_start" json:"actual_start"`
	ActualEnd      *time.Time `db:"actual_end" json:"actual_end"`
	ServiceCode    string     `db:"service_code" json:"service_code"`
	HasIncident    bool       `db:"has_incident" json:"has_incident"`
	Notes          string     `db:"notes" json:"notes,omitempty"`
}

type CreateVisitRequest struct {
	ClientID       uuid.UUID `json:"client_id" binding:"required"`
	CaregiverID    uuid.UUID `json:"caregiver_id" binding:"required"`
	ScheduledStart *string   `json:"scheduled_start"`
	ScheduledEnd   *string   `json:"scheduled_end"`
	ActualStart    *string   `json:"actual_start"`
	ActualEnd      *string   `json:"actual_end"`
	ServiceCode    string    `json:"service_code" binding:"max=20"`
	HasIncident    bool      `json:"has_incident"`
	Notes          string    `json:"notes" binding:"max=4000"`
}

type UpdateVisitRequest struct {
	ActualStart *string `json:"actual_start"`
	ActualEnd   *string `json:"actual_end"`
	ServiceCode *string `json:"service_code"`
	HasIncident *bool   `json:"has_incident"`
	Notes       *string `json:"notes"`
}

type VisitFilters struct {
	ClientID    uuid.UUID
	CaregiverID uuid.UUID
}
