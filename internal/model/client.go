package model

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// Client is a person receiving care. Clients are soft-deleted via status and
// never hard-deleted while assignments, rules or visits reference them.
type Client struct {
	Base
	FirstName string       `db:"first_name" json:"first_name"`
	LastName  string       `db:"last_name" json:"last_name"`
	Address   string       `db:"address" json:"address,omitempty"`
	City      string       `db:"city" json:"city,omitempty"`
	Phone     string       `db:"phone" json:"phone,omitempty"`
	Language  string       `db:"language" json:"language,omitempty"`
	Status    ClientStatus `db:"status" json:"status"`
}

func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Address   string `json:"address" binding:"max=255"`
	City      string `json:"city" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=30"`
	Language  string `json:"language" binding:"max=30"`
}

type UpdateClientRequest struct {
	FirstName *string       `json:"first_name"`
	LastName  *string       `json:"last_name"`
	Address   *string       `json:"address"`
	City      *string       `json:"city"`
	Phone     *string       `json:"phone"`
	Language  *string       `json:"language"`
	Status    *ClientStatus `json:"status"`
}

type ClientFilters struct {
	Status     ClientStatus
	SearchTerm string
}
