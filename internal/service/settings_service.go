package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/db"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
	"github.com/laporkendala/lapor-backend/internal/storage"
)

const settingsCacheKey = "site_settings"
const settingsCacheTTL = 5 * time.Minute

// ============================================
// Settings Service
// ============================================

type UpdateSettingsInput struct {
	SiteTitle   *string
	ButtonColor *string
	BorderColor *string
}

type SettingsService interface {
	Get(ctx context.Context) (*repository.SiteSettings, error)
	Update(ctx context.Context, input *UpdateSettingsInput) (*repository.SiteSettings, error)
	UploadAsset(ctx context.Context, field, filename, contentType string, body io.Reader) (*repository.SiteSettings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	store        storage.ObjectStore
	redis        *db.RedisDB
	cfg          *config.Config
	broadcaster  *socket.Broadcaster
}

func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	store storage.ObjectStore,
	redis *db.RedisDB,
	cfg *config.Config,
	broadcaster *socket.Broadcaster,
) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		store:        store,
		redis:        redis,
		cfg:          cfg,
		broadcaster:  broadcaster,
	}
}

// Get serves the settings row, from cache when Redis is available. The
// public form reads this on every page load.
func (s *settingsService) Get(ctx context.Context) (*repository.SiteSettings, error) {
	if s.redis != nil {
		var cached repository.SiteSettings
		if err := s.redis.GetCache(ctx, settingsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	settings, err := s.settingsRepo.EnsureDefault(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.SetCache(ctx, settingsCacheKey, settings, settingsCacheTTL); err != nil {
			log.Printf("⚠️ Failed to cache settings: %v", err)
		}
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, input *UpdateSettingsInput) (*repository.SiteSettings, error) {
	settings, err := s.settingsRepo.EnsureDefault(ctx)
	if err != nil {
		return nil, err
	}

	if input.SiteTitle != nil {
		title := strings.TrimSpace(*input.SiteTitle)
		if title == "" {
			return nil, fmt.Errorf("%w: judul situs wajib diisi", ErrInvalidInput)
		}
		settings.SiteTitle = &title
	}
	if input.ButtonColor != nil {
		if !hexColorRegex.MatchString(*input.ButtonColor) {
			return nil, fmt.Errorf("%w: warna harus format hex (#rrggbb)", ErrInvalidInput)
		}
		settings.ButtonColor = input.ButtonColor
	}
	if input.BorderColor != nil {
		if !hexColorRegex.MatchString(*input.BorderColor) {
			return nil, fmt.Errorf("%w: warna harus format hex (#rrggbb)", ErrInvalidInput)
		}
		settings.BorderColor = input.BorderColor
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.broadcastUpdate(settings)
	return settings, nil
}

// UploadAsset stores a branding image and points the matching settings
// column at it. field must be one of the repository AssetField constants.
func (s *settingsService) UploadAsset(ctx context.Context, field, filename, contentType string, body io.Reader) (*repository.SiteSettings, error) {
	switch field {
	case repository.AssetFieldFavicon, repository.AssetFieldLogo, repository.AssetFieldBackground:
	default:
		return nil, fmt.Errorf("%w: jenis aset tidak dikenal", ErrInvalidInput)
	}

	if s.store == nil {
		return nil, fmt.Errorf("object storage not configured")
	}

	settings, err := s.settingsRepo.EnsureDefault(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(field, "_url"), uuid.New().String(), path.Ext(filename))
	url, err := s.store.Upload(ctx, s.cfg.S3AssetsBucket, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}

	oldURL := s.currentAssetURL(settings, field)

	if err := s.settingsRepo.UpdateAssetURL(ctx, settings.ID, field, url); err != nil {
		return nil, fmt.Errorf("failed to save asset url: %w", err)
	}

	// Replaced asset is removed from storage best-effort
	if oldURL != "" {
		if oldKey, ok := storage.KeyFromURL(oldURL, s.cfg.S3AssetsBucket); ok {
			if err := s.store.Delete(ctx, s.cfg.S3AssetsBucket, oldKey); err != nil {
				log.Printf("⚠️ Failed to delete old asset %s: %v", oldKey, err)
			}
		}
	}

	settings, err = s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.broadcastUpdate(settings)
	return settings, nil
}

func (s *settingsService) currentAssetURL(settings *repository.SiteSettings, field string) string {
	var u *string
	switch field {
	case repository.AssetFieldFavicon:
		u = settings.FaviconURL
	case repository.AssetFieldLogo:
		u = settings.LogoURL
	case repository.AssetFieldBackground:
		u = settings.BackgroundURL
	}
	if u == nil {
		return ""
	}
	return *u
}

func (s *settingsService) broadcastUpdate(settings *repository.SiteSettings) {
	if s.redis != nil {
		if err := s.redis.InvalidateCache(context.Background(), settingsCacheKey); err != nil {
			log.Printf("⚠️ Failed to invalidate settings cache: %v", err)
		}
	}
	if s.broadcaster == nil || settings == nil {
		return
	}
	s.broadcaster.BroadcastSettingsUpdated(map[string]interface{}{
		"id": settings.ID,
	})
}
