package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Assignment is a coverage period of one caregiver for one client.
//
// For a given client at most one assignment may be an "active primary":
// is_primary true with a null end_date. Promotions end the previous primary
// in the same transaction that establishes the new one.
type Assignment struct {
	Base
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	CaregiverID uuid.UUID  `db:"caregiver_id" json:"caregiver_id"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date"`
	IsPrimary   bool       `db:"is_primary" json:"is_primary"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
}

// IsActivePrimary reports whether this row currently holds the client's
// primary slot.
func (a *Assignment) IsActivePrimary() bool {
	return a.IsPrimary && a.EndDate == nil
}

type CreateAssignmentRequest struct {
	ClientID    uuid.UUID `json:"client_id" binding:"required"`
	CaregiverID uuid.UUID `json:"caregiver_id" binding:"required"`
	StartDate   string    `json:"start_date" binding:"required,dateonly"`
	EndDate     *string   `json:"end_date" binding:"omitempty,dateonly"`
	IsPrimary   bool      `json:"is_primary"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// OptionalDate distinguishes an omitted JSON field from an explicit null.
// Patching end_date with null re-opens an ended assignment, so the two must
// not collapse into one zero value.
type OptionalDate struct {
	Set   bool
	Valid bool
	Value time.Time
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(data, []byte("null")) {
		d.Valid = false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Valid = true
	d.Value = t
	return nil
}

type PatchAssignmentRequest struct {
	EndDate   OptionalDate `json:"end_date"`
	IsPrimary *bool        `json:"is_primary"`
	Notes     *string      `json:"notes"`
}

type AssignmentFilters struct {
	ClientID    uuid.UUID
	CaregiverID uuid.UUID
	ActiveOnly  bool
}
