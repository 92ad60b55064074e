package postgres

import (
	"context"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/google/uuid"
)

// RenewalReminder records one reminder sent for an expiring subscription.
type RenewalReminder struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id" db:"subscription_id"`
	ClientID       uuid.UUID `json:"client_id" db:"client_id"`
	AlertType      string    `json:"alert_type" db:"alert_type"`
	Priority       string    `json:"priority" db:"priority"`
	DaysRemaining  int       `json:"days_remaining" db:"days_remaining"`
	SentAt         time.Time `json:"sent_at" db:"sent_at"`
}

func (r *Repository) CreateRenewalReminder(ctx context.Context, rr *RenewalReminder) error {
	query := `
        INSERT INTO renewal_reminders (
            id, subscription_id, client_id, alert_type, priority,
            days_remaining, sent_at
        ) VALUES (
            :id, :subscription_id, :client_id, :alert_type, :priority,
            :days_remaining, :sent_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, rr)
	return err
}

func (r *Repository) GetRemindersBySubscription(ctx context.Context, subscriptionID string) ([]RenewalReminder, error) {
	reminders := []RenewalReminder{}
	err := r.db.SelectContext(ctx, &reminders,
		`SELECT * FROM renewal_reminders WHERE subscription_id = $1 ORDER BY sent_at DESC`,
		subscriptionID)
	return reminders, err
}

// ActiveSubscriptionsWithClients loads the reminder snapshot: every active
// subscription joined to its client region, for region-scoped dispatch.
func (r *Repository) ActiveSubscriptionsWithClients(ctx context.Context) ([]core.Subscription, map[uuid.UUID]core.Client, error) {
	subs, err := r.GetSubscriptionsByStatus(ctx, core.SubscriptionActive)
	if err != nil {
		return nil, nil, err
	}

	clients, err := r.GetClients(ctx)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]core.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return subs, byID, nil
}
