package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DateOnly is the wire format for calendar dates (no time-of-day component).
const DateOnly = "2006-01-02"

// ParseDate accepts a calendar date or a full timestamp and returns the
// parsed instant. Timestamps are truncated to their calendar day by callers
// that need date-only semantics.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
