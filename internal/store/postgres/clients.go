package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/a2s-soft/subtrack/internal/core"
)

func (r *Repository) CreateClient(ctx context.Context, c *core.Client) error {
	query := `
        INSERT INTO clients (
            id, first_name, last_name, company_name, phone, email,
            region, status, created_at, updated_at
        ) VALUES (
            :id, :first_name, :last_name, :company_name, :phone, :email,
            :region, :status, :created_at, :updated_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *Repository) GetClient(ctx context.Context, id string) (*core.Client, error) {
	var c core.Client
	err := r.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *Repository) GetClients(ctx context.Context) ([]core.Client, error) {
	clients := []core.Client{}
	err := r.db.SelectContext(ctx, &clients, `SELECT * FROM clients ORDER BY created_at DESC`)
	return clients, err
}

func (r *Repository) UpdateClient(ctx context.Context, c *core.Client) error {
	query := `
        UPDATE clients SET
            first_name = :first_name,
            last_name = :last_name,
            company_name = :company_name,
            phone = :phone,
            email = :email,
            region = :region,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SearchClients matches name, company, or email, case-insensitively.
func (r *Repository) SearchClients(ctx context.Context, term string) ([]core.Client, error) {
	clients := []core.Client{}
	pattern := "%" + term + "%"
	query := `
        SELECT * FROM clients
        WHERE first_name ILIKE $1 OR last_name ILIKE $1
           OR company_name ILIKE $1 OR email ILIKE $1
        ORDER BY last_name ASC`

	err := r.db.SelectContext(ctx, &clients, query, pattern)
	return clients, err
}

func (r *Repository) GetClientsByRegion(ctx context.Context, region string) ([]core.Client, error) {
	clients := []core.Client{}
	err := r.db.SelectContext(ctx, &clients,
		`SELECT * FROM clients WHERE region = $1 ORDER BY created_at DESC`, region)
	return clients, err
}

func (r *Repository) CountClients(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clients`)
	return count, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
