package model

type CaregiverStatus string

const (
	CaregiverStatusActive   CaregiverStatus = "active"
	CaregiverStatusInactive CaregiverStatus = "inactive"
	CaregiverStatusOnLeave  CaregiverStatus = "on_leave"
)

// Caregiver is an agency staff member who performs visits.
type Caregiver struct {
	Base
	FirstName string          `db:"first_name" json:"first_name"`
	LastName  string          `db:"last_name" json:"last_name"`
	Email     string          `db:"email" json:"email"`
	Phone     string          `db:"phone" json:"phone,omitempty"`
	Status    CaregiverStatus `db:"status" json:"status"`
	PinHash   *string         `db:"pin_hash" json:"-"`
}

func (c *Caregiver) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CreateCaregiverRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"max=30"`
}

type UpdateCaregiverRequest struct {
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Email     *string          `json:"email"`
	Phone     *string          `json:"phone"`
	Status    *CaregiverStatus `json:"status"`
}

// SetPinRequest carries a portal PIN to be hashed and stored; the plaintext
// never leaves the request scope.
type SetPinRequest struct {
	Pin string `json:"pin" binding:"required,min=4,max=12"`
}

type VerifyPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type CaregiverFilters struct {
	Status     CaregiverStatus
	SearchTerm string
}
