package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
)

func (r *Repository) CreatePayment(ctx context.Context, p *core.Payment) error {
	query := `
        INSERT INTO payments (
            id, subscription_id, amount, paid_at, method, status,
            reference, notes, created_at
        ) VALUES (
            :id, :subscription_id, :amount, :paid_at, :method, :status,
            :reference, :notes, :created_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *Repository) GetPayment(ctx context.Context, id string) (*core.Payment, error) {
	var p core.Payment
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *Repository) GetPayments(ctx context.Context) ([]core.Payment, error) {
	payments := []core.Payment{}
	err := r.db.SelectContext(ctx, &payments, `SELECT * FROM payments ORDER BY paid_at DESC`)
	return payments, err
}

func (r *Repository) UpdatePayment(ctx context.Context, p *core.Payment) error {
	query := `
        UPDATE payments SET
            subscription_id = :subscription_id,
            amount = :amount,
            paid_at = :paid_at,
            method = :method,
            status = :status,
            reference = :reference,
            notes = :notes
        WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) GetPaymentsBySubscription(ctx context.Context, subscriptionID string) ([]core.Payment, error) {
	payments := []core.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE subscription_id = $1 ORDER BY paid_at DESC`, subscriptionID)
	return payments, err
}

func (r *Repository) GetPaymentsByStatus(ctx context.Context, status core.PaymentStatus) ([]core.Payment, error) {
	payments := []core.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE status = $1 ORDER BY paid_at DESC`, status)
	return payments, err
}

func (r *Repository) GetPaymentsInPeriod(ctx context.Context, from, to time.Time) ([]core.Payment, error) {
	payments := []core.Payment{}
	query := `
        SELECT * FROM payments
        WHERE paid_at >= $1 AND paid_at <= $2
        ORDER BY paid_at DESC`

	err := r.db.SelectContext(ctx, &payments, query, from, to)
	return payments, err
}

// SumValidPayments totals the amounts of valid payments.
func (r *Repository) SumValidPayments(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'valid'`)
	return total, err
}
