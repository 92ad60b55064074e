package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStatePaid    PaymentState = "paid"
	PaymentStateOverdue PaymentState = "overdue"
)

var ErrEndBeforeStart = errors.New("subscription end date before start date")

type Subscription struct {
	ID           uuid.UUID          `json:"id" db:"id"`
	ClientID     uuid.UUID          `json:"client_id" db:"client_id"`
	PlanName     string             `json:"plan_name" db:"plan_name"`
	StartDate    time.Time          `json:"start_date" db:"start_date"`
	EndDate      time.Time          `json:"end_date" db:"end_date"`
	AnnualAmount float64            `json:"annual_amount" db:"annual_amount"`
	PaymentState PaymentState       `json:"payment_state" db:"payment_state"`
	Status       SubscriptionStatus `json:"status" db:"status"`
	Notes        string             `json:"notes" db:"notes"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

// Validate checks the date invariant. The original data set contains rows
// that violate it, so the store enforces this only on create and update.
func (s Subscription) Validate() error {
	if s.EndDate.Before(s.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}
