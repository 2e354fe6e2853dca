package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleAssignment struct {
	ID        string
	UserID    string
	Role      string
	CreatedAt time.Time
}

type RoleRepository interface {
	Grant(ctx context.Context, userID, role string) error
	Revoke(ctx context.Context, userID, role string) error
	HasRole(ctx context.Context, userID, role string) (bool, error)
	FindByRole(ctx context.Context, role string) ([]*RoleAssignment, error)
}

type pgRoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &pgRoleRepository{pool: pool}
}

func (r *pgRoleRepository) Grant(ctx context.Context, userID, role string) error {
	query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, query, userID, role)
	return err
}

func (r *pgRoleRepository) Revoke(ctx context.Context, userID, role string) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`
	tag, err := r.pool.Exec(ctx, query, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgRoleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, role).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *pgRoleRepository) FindByRole(ctx context.Context, role string) ([]*RoleAssignment, error) {
	query := `
		SELECT id, user_id, role, created_at
		FROM user_roles WHERE role = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*RoleAssignment
	for rows.Next() {
		ra := &RoleAssignment{}
		if err := rows.Scan(&ra.ID, &ra.UserID, &ra.Role, &ra.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, ra)
	}
	return assignments, nil
}
