package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Website struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebsiteRepository interface {
	Create(ctx context.Context, website *Website) error
	FindByID(ctx context.Context, id string) (*Website, error)
	FindAll(ctx context.Context) ([]*Website, error)
	Update(ctx context.Context, website *Website) error
	Delete(ctx context.Context, id string) error
}

type pgWebsiteRepository struct {
	pool *pgxpool.Pool
}

func NewWebsiteRepository(pool *pgxpool.Pool) WebsiteRepository {
	return &pgWebsiteRepository{pool: pool}
}

func (r *pgWebsiteRepository) Create(ctx context.Context, website *Website) error {
	query := `
		INSERT INTO websites (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, website.Name).
		Scan(&website.ID, &website.CreatedAt, &website.UpdatedAt)
}

func (r *pgWebsiteRepository) FindByID(ctx context.Context, id string) (*Website, error) {
	query := `SELECT id, name, created_at, updated_at FROM websites WHERE id = $1`
	website := &Website{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&website.ID, &website.Name, &website.CreatedAt, &website.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return website, nil
}

func (r *pgWebsiteRepository) FindAll(ctx context.Context) ([]*Website, error) {
	query := `SELECT id, name, created_at, updated_at FROM websites ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var websites []*Website
	for rows.Next() {
		website := &Website{}
		if err := rows.Scan(&website.ID, &website.Name, &website.CreatedAt, &website.UpdatedAt); err != nil {
			return nil, err
		}
		websites = append(websites, website)
	}
	return websites, nil
}

func (r *pgWebsiteRepository) Update(ctx context.Context, website *Website) error {
	query := `UPDATE websites SET name = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, website.ID, website.Name)
	return err
}

func (r *pgWebsiteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM websites WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
