package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned for lookups of records that do not exist.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
