package model

import (
	"time"

	"github.com/google/uuid"
)

// MinutesPerDay bounds the minute-of-day encoding used by schedule rules.
const MinutesPerDay = 1440

// ScheduleRule is a recurring weekly commitment: one caregiver at one client,
// one weekday, one time slot. Day-of-week uses 0 = Sunday.
//
// Rules are deleted outright when no longer needed; there is no soft end
// beyond the effective date range.
type ScheduleRule struct {
	Base
	ClientID           uuid.UUID  `db:"client_id" json:"client_id"`
	CaregiverID        uuid.UUID  `db:"caregiver_id" json:"caregiver_id"`
	DayOfWeek          int        `db:"day_of_week" json:"day_of_week"`
	StartTimeMinutes   int        `db:"start_time_minutes" json:"start_time_minutes"`
	EndTimeMinutes     int        `db:"end_time_minutes" json:"end_time_minutes"`
	EffectiveStartDate time.Time  `db:"effective_start_date" json:"effective_start_date"`
	EffectiveEndDate   *time.Time `db:"effective_end_date" json:"effective_end_date"`
	ServiceCode        *string    `db:"service_code" json:"service_code"`
	Notes              *string    `db:"notes" json:"notes"`
}

type CreateScheduleRuleRequest struct {
	ClientID           uuid.UUID `json:"client_id" binding:"required"`
	CaregiverID        uuid.UUID `json:"caregiver_id" binding:"required"`
	DayOfWeek          int       `json:"day_of_week" binding:"min=0,max=6"`
	StartTime          string    `json:"start_time" binding:"required"`
	EndTime            string    `json:"end_time" binding:"required"`
	EffectiveStartDate string    `json:"effective_start_date" binding:"required,dateonly"`
	EffectiveEndDate   *string   `json:"effective_end_date" binding:"omitempty,dateonly"`
	ServiceCode        *string   `json:"service_code"`
	Notes              *string   `json:"notes"`
}

type ScheduleRuleFilters struct {
	ClientID    uuid.UUID
	CaregiverID uuid.UUID
	DayOfWeek   *int
}
