package core

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationActive   ApplicationStatus = "active"
	ApplicationInactive ApplicationStatus = "inactive"
)

type Application struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Name        string            `json:"name" db:"name"`
	Description string            `json:"description" db:"description"`
	AnnualPrice float64           `json:"annual_price" db:"annual_price"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
