// internal/repository/repository.go
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo         UserRepository
	RoleRepo         RoleRepository
	WebsiteRepo      WebsiteRepository
	StatusRepo       StatusRepository
	ReportRepo       ReportRepository
	SettingsRepo     SettingsRepository
	NotificationRepo NotificationRepository
}

// NewRepositories creates all repositories backed by the pgx pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:         NewUserRepository(pool),
		RoleRepo:         NewRoleRepository(pool),
		WebsiteRepo:      NewWebsiteRepository(pool),
		StatusRepo:       NewStatusRepository(pool),
		ReportRepo:       NewReportRepository(pool),
		SettingsRepo:     NewSettingsRepository(pool),
		NotificationRepo: NewNotificationRepository(pool),
	}
}
