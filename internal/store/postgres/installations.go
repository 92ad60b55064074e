package postgres

import (
	"context"
	"database/sql"

	"github.com/a2s-soft/subtrack/internal/core"
)

func (r *Repository) CreateInstallation(ctx context.Context, i *core.Installation) error {
	query := `
        INSERT INTO installations (
            id, client_id, application_id, amount, start_date, status,
            notes, created_at, updated_at
        ) VALUES (
            :id, :client_id, :application_id, :amount, :start_date, :status,
            :notes, :created_at, :updated_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, i)
	return err
}

func (r *Repository) GetInstallation(ctx context.Context, id string) (*core.Installation, error) {
	var i core.Installation
	err := r.db.GetContext(ctx, &i, `SELECT * FROM installations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &i, err
}

func (r *Repository) GetInstallations(ctx context.Context) ([]core.Installation, error) {
	installations := []core.Installation{}
	err := r.db.SelectContext(ctx, &installations,
		`SELECT * FROM installations ORDER BY created_at DESC`)
	return installations, err
}

func (r *Repository) UpdateInstallation(ctx context.Context, i *core.Installation) error {
	query := `
        UPDATE installations SET
            client_id = :client_id,
            application_id = :application_id,
            amount = :amount,
            start_date = :start_date,
            status = :status,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, i)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeleteInstallation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM installations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) GetInstallationsByClient(ctx context.Context, clientID string) ([]core.Installation, error) {
	installations := []core.Installation{}
	err := r.db.SelectContext(ctx, &installations,
		`SELECT * FROM installations WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	return installations, err
}

func (r *Repository) GetInstallationsByStatus(ctx context.Context, status core.InstallationStatus) ([]core.Installation, error) {
	installations := []core.Installation{}
	err := r.db.SelectContext(ctx, &installations,
		`SELECT * FROM installations WHERE status = $1 ORDER BY created_at DESC`, status)
	return installations, err
}
