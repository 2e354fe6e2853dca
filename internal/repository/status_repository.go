package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status struct {
	ID        string
	Name      string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type StatusRepository interface {
	Create(ctx context.Context, status *Status) error
	FindByID(ctx context.Context, id string) (*Status, error)
	FindAll(ctx context.Context) ([]*Status, error)
	Update(ctx context.Context, status *Status) error
	Delete(ctx context.Context, id string) error
}

type pgStatusRepository struct {
	pool *pgxpool.Pool
}

func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &pgStatusRepository{pool: pool}
}

func (r *pgStatusRepository) Create(ctx context.Context, status *Status) error {
	query := `
		INSERT INTO statuses (name, color)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, status.Name, status.Color).
		Scan(&status.ID, &status.CreatedAt, &status.UpdatedAt)
}

func (r *pgStatusRepository) FindByID(ctx context.Context, id string) (*Status, error) {
	query := `SELECT id, name, color, created_at, updated_at FROM statuses WHERE id = $1`
	status := &Status{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&status.ID, &status.Name, &status.Color, &status.CreatedAt, &status.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (r *pgStatusRepository) FindAll(ctx context.Context) ([]*Status, error) {
	query := `SELECT id, name, color, created_at, updated_at FROM statuses ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*Status
	for rows.Next() {
		status := &Status{}
		if err := rows.Scan(&status.ID, &status.Name, &status.Color, &status.CreatedAt, &status.UpdatedAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (r *pgStatusRepository) Update(ctx context.Context, status *Status) error {
	query := `UPDATE statuses SET name = $2, color = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, status.ID, status.Name, status.Color)
	return err
}

func (r *pgStatusRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM statuses WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
