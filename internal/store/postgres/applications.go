package postgres

import (
	"context"
	"database/sql"

	"github.com/a2s-soft/subtrack/internal/core"
)

func (r *Repository) CreateApplication(ctx context.Context, a *core.Application) error {
	query := `
        INSERT INTO applications (
            id, name, description, annual_price, status, created_at, updated_at
        ) VALUES (
            :id, :name, :description, :annual_price, :status, :created_at, :updated_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

func (r *Repository) GetApplication(ctx context.Context, id string) (*core.Application, error) {
	var a core.Application
	err := r.db.GetContext(ctx, &a, `SELECT * FROM applications WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *Repository) GetApplications(ctx context.Context) ([]core.Application, error) {
	apps := []core.Application{}
	err := r.db.SelectContext(ctx, &apps, `SELECT * FROM applications ORDER BY name ASC`)
	return apps, err
}

func (r *Repository) UpdateApplication(ctx context.Context, a *core.Application) error {
	query := `
        UPDATE applications SET
            name = :name,
            description = :description,
            annual_price = :annual_price,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeleteApplication(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
