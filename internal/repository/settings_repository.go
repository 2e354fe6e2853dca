package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SiteSettings struct {
	ID            string
	SiteTitle     *string
	FaviconURL    *string
	LogoURL       *string
	BackgroundURL *string
	ButtonColor   *string
	BorderColor   *string
	UpdatedAt     time.Time
}

// Asset URL fields updatable through the branding uploader
const (
	AssetFieldFavicon    = "favicon_url"
	AssetFieldLogo       = "logo_url"
	AssetFieldBackground = "background_url"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*SiteSettings, error)
	Update(ctx context.Context, settings *SiteSettings) error
	UpdateAssetURL(ctx context.Context, id, field, url string) error
	EnsureDefault(ctx context.Context) (*SiteSettings, error)
}

type pgSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &pgSettingsRepository{pool: pool}
}

func (r *pgSettingsRepository) Get(ctx context.Context) (*SiteSettings, error) {
	query := `
		SELECT id, site_title, favicon_url, logo_url, background_url, button_color, border_color, updated_at
		FROM site_settings LIMIT 1
	`
	settings := &SiteSettings{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&settings.ID, &settings.SiteTitle, &settings.FaviconURL, &settings.LogoURL,
		&settings.BackgroundURL, &settings.ButtonColor, &settings.BorderColor, &settings.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *pgSettingsRepository) Update(ctx context.Context, settings *SiteSettings) error {
	query := `
		UPDATE site_settings
		SET site_title = $2, button_color = $3, border_color = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		settings.ID, settings.SiteTitle, settings.ButtonColor, settings.BorderColor,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateAssetURL writes one of the branding URL columns.
// field must be one of the AssetField constants; it is never user input.
func (r *pgSettingsRepository) UpdateAssetURL(ctx context.Context, id, field, url string) error {
	query := `UPDATE site_settings SET ` + field + ` = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// EnsureDefault creates the single settings row if none exists yet
func (r *pgSettingsRepository) EnsureDefault(ctx context.Context) (*SiteSettings, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	query := `
		INSERT INTO site_settings (site_title, button_color, border_color)
		VALUES ($1, $2, $3)
		RETURNING id, site_title, favicon_url, logo_url, background_url, button_color, border_color, updated_at
	`
	settings = &SiteSettings{}
	err = r.pool.QueryRow(ctx, query, "Form Lapor Kendala", "#f59e0b", "#d1d5db").Scan(
		&settings.ID, &settings.SiteTitle, &settings.FaviconURL, &settings.LogoURL,
		&settings.BackgroundURL, &settings.ButtonColor, &settings.BorderColor, &settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}
