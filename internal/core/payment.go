package core

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodCash     PaymentMethod = "cash"
	MethodCheck    PaymentMethod = "check"
	MethodCard     PaymentMethod = "card"
)

// PaymentMethods in their default ordering. Ties in method ranking are
// broken by position in this list.
var PaymentMethods = []PaymentMethod{MethodTransfer, MethodCash, MethodCheck, MethodCard}

type PaymentStatus string

const (
	PaymentValid     PaymentStatus = "valid"
	PaymentPending   PaymentStatus = "pending"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	SubscriptionID uuid.UUID     `json:"subscription_id" db:"subscription_id"`
	Amount         float64       `json:"amount" db:"amount"`
	PaidAt         time.Time     `json:"paid_at" db:"paid_at"`
	Method         PaymentMethod `json:"method" db:"method"`
	Status         PaymentStatus `json:"status" db:"status"`
	Reference      string        `json:"reference" db:"reference"`
	Notes          string        `json:"notes" db:"notes"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}
