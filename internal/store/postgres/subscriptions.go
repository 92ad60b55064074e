package postgres

import (
	"context"
	"database/sql"

	"github.com/a2s-soft/subtrack/internal/core"
)

func (r *Repository) CreateSubscription(ctx context.Context, s *core.Subscription) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO subscriptions (
            id, client_id, plan_name, start_date, end_date, annual_amount,
            payment_state, status, notes, created_at, updated_at
        ) VALUES (
            :id, :client_id, :plan_name, :start_date, :end_date, :annual_amount,
            :payment_state, :status, :notes, :created_at, :updated_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, s)
	return err
}

func (r *Repository) GetSubscription(ctx context.Context, id string) (*core.Subscription, error) {
	var s core.Subscription
	err := r.db.GetContext(ctx, &s, `SELECT * FROM subscriptions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *Repository) GetSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	subs := []core.Subscription{}
	err := r.db.SelectContext(ctx, &subs, `SELECT * FROM subscriptions ORDER BY created_at DESC`)
	return subs, err
}

func (r *Repository) UpdateSubscription(ctx context.Context, s *core.Subscription) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
        UPDATE subscriptions SET
            client_id = :client_id,
            plan_name = :plan_name,
            start_date = :start_date,
            end_date = :end_date,
            annual_amount = :annual_amount,
            payment_state = :payment_state,
            status = :status,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeleteSubscription(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) GetSubscriptionsByClient(ctx context.Context, clientID string) ([]core.Subscription, error) {
	subs := []core.Subscription{}
	err := r.db.SelectContext(ctx, &subs,
		`SELECT * FROM subscriptions WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	return subs, err
}

func (r *Repository) GetSubscriptionsByStatus(ctx context.Context, status core.SubscriptionStatus) ([]core.Subscription, error) {
	subs := []core.Subscription{}
	err := r.db.SelectContext(ctx, &subs,
		`SELECT * FROM subscriptions WHERE status = $1 ORDER BY created_at DESC`, status)
	return subs, err
}

// GetExpiringSubscriptions returns active subscriptions ending within the
// next `days` days, soonest first. Already-expired ones are included.
func (r *Repository) GetExpiringSubscriptions(ctx context.Context, days int) ([]core.Subscription, error) {
	subs := []core.Subscription{}
	query := `
        SELECT * FROM subscriptions
        WHERE status = 'active'
        AND end_date <= NOW() + ($1 || ' days')::interval
        ORDER BY end_date ASC`

	err := r.db.SelectContext(ctx, &subs, query, days)
	return subs, err
}

func (r *Repository) CountActiveSubscriptions(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`)
	return count, err
}
