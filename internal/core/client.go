package core

import (
	"time"

	"github.com/google/uuid"
)

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

type Client struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	FirstName   string       `json:"first_name" db:"first_name"`
	LastName    string       `json:"last_name" db:"last_name"`
	CompanyName string       `json:"company_name" db:"company_name"`
	Phone       string       `json:"phone" db:"phone"`
	Email       string       `json:"email" db:"email"`
	Region      string       `json:"region" db:"region"`
	Status      ClientStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// FullName is the display name used in alerts and the activity feed.
func (c Client) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.LastName + " " + c.FirstName
}
