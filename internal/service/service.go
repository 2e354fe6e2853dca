package service

import (
	"errors"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/db"
	"github.com/laporkendala/lapor-backend/internal/email"
	"github.com/laporkendala/lapor-backend/internal/notification"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
	"github.com/laporkendala/lapor-backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrUnknownAction      = errors.New("Unknown action")

	// Validation errors surface verbatim in API responses, hence the
	// Indonesian wording.
	ErrPasswordTooShort   = errors.New("Password minimal 6 karakter")
	ErrMissingCredentials = errors.New("Email dan password wajib diisi")
	ErrMissingUserID      = errors.New("User ID wajib diisi")
	ErrSelfDelete         = errors.New("Tidak bisa menghapus akun sendiri")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimited        = errors.New("terlalu banyak laporan, coba lagi nanti")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	Admin        AdminService
	Report       ReportService
	Website      WebsiteService
	Status       StatusService
	Settings     SettingsService
	Notification NotificationService
	Broadcaster  *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Redis       *db.RedisDB
	Store       storage.ObjectStore
	NotifSvc    *notification.Service
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.UserRepo, deps.Repos.RoleRepo),
		Admin: NewAdminService(
			deps.Repos.UserRepo,
			deps.Repos.RoleRepo,
			deps.NotifSvc,
			deps.EmailSvc,
			deps.Config,
			deps.Broadcaster,
		),
		Report: NewReportService(
			deps.Repos.ReportRepo,
			deps.Repos.WebsiteRepo,
			deps.Repos.StatusRepo,
			deps.Repos.RoleRepo,
			deps.Repos.UserRepo,
			deps.Redis,
			deps.Store,
			deps.NotifSvc,
			deps.EmailSvc,
			deps.Config,
			deps.Broadcaster,
		),
		Website:      NewWebsiteService(deps.Repos.WebsiteRepo, deps.Broadcaster),
		Status:       NewStatusService(deps.Repos.StatusRepo, deps.Broadcaster),
		Settings:     NewSettingsService(deps.Repos.SettingsRepo, deps.Store, deps.Redis, deps.Config, deps.Broadcaster),
		Notification: NewNotificationService(deps.Repos.NotificationRepo),
		Broadcaster:  deps.Broadcaster,
	}
}
