package postgres

import (
	"context"
	"database/sql"

	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/jmoiron/sqlx"
)

func (r *Repository) CreateUser(ctx context.Context, u *core.User) error {
	query := `
        INSERT INTO users (
            id, first_name, last_name, email, role, status,
            assigned_regions, created_at, updated_at
        ) VALUES (
            :id, :first_name, :last_name, :email, :role, :status,
            :assigned_regions, :created_at, :updated_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, u)
	return err
}

func (r *Repository) GetUser(ctx context.Context, id string) (*core.User, error) {
	var u core.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &u, err
}

// GetUserByEmail resolves the profile behind an identity-provider token.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	var u core.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *Repository) GetUsers(ctx context.Context) ([]core.User, error) {
	users := []core.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at DESC`)
	return users, err
}

func (r *Repository) UpdateUser(ctx context.Context, u *core.User) error {
	query := `
        UPDATE users SET
            first_name = :first_name,
            last_name = :last_name,
            email = :email,
            role = :role,
            status = :status,
            assigned_regions = :assigned_regions,
            updated_at = :updated_at
        WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) GetUsersByRole(ctx context.Context, role core.Role) ([]core.User, error) {
	users := []core.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT * FROM users WHERE role = $1 ORDER BY last_name ASC`, role)
	return users, err
}

func (r *Repository) GetUsersByStatus(ctx context.Context, status core.UserStatus) ([]core.User, error) {
	users := []core.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT * FROM users WHERE status = $1 ORDER BY last_name ASC`, status)
	return users, err
}

func (r *Repository) SearchUsers(ctx context.Context, term string) ([]core.User, error) {
	users := []core.User{}
	pattern := "%" + term + "%"
	query := `
        SELECT * FROM users
        WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1
        ORDER BY last_name ASC`

	err := r.db.SelectContext(ctx, &users, query, pattern)
	return users, err
}

func (r *Repository) UserEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE email = $1 AND id::text != $2`
	err := r.db.GetContext(ctx, &count, query, email, excludeID)
	return count > 0, err
}

// SetUsersStatus flips the status of several users at once.
func (r *Repository) SetUsersStatus(ctx context.Context, ids []string, status core.UserStatus) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`UPDATE users SET status = ?, updated_at = NOW() WHERE id::text IN (?)`, status, ids)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}

func (r *Repository) GetUserStats(ctx context.Context) (*core.UserStats, error) {
	users, err := r.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &core.UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Status {
		case core.UserActive:
			stats.Active++
		case core.UserInactive:
			stats.Inactive++
		case core.UserSuspended:
			stats.Suspended++
		}
		switch u.Role {
		case core.RoleSuperAdmin:
			stats.SuperAdmins++
		case core.RoleAdmin:
			stats.Admins++
		case core.RoleSales:
			stats.Sales++
		case core.RoleStaff:
			stats.Staff++
		case core.RoleViewer:
			stats.Viewers++
		}
	}
	return stats, nil
}
