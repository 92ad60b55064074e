package core

import (
	"time"

	"github.com/google/uuid"
)

type InstallationStatus string

const (
	InstallationActive    InstallationStatus = "active"
	InstallationSuspended InstallationStatus = "suspended"
	InstallationUpcoming  InstallationStatus = "upcoming"
)

type Installation struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	ClientID      uuid.UUID          `json:"client_id" db:"client_id"`
	ApplicationID uuid.UUID          `json:"application_id" db:"application_id"`
	Amount        float64            `json:"amount" db:"amount"`
	StartDate     time.Time          `json:"start_date" db:"start_date"`
	Status        InstallationStatus `json:"status" db:"status"`
	Notes         string             `json:"notes" db:"notes"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}
