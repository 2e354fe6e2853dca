package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/repository"
)

// Scheduler handles scheduled maintenance tasks
type Scheduler struct {
	cron             *cron.Cron
	cfg              *config.Config
	userRepo         repository.UserRepository
	reportRepo       repository.ReportRepository
	notificationRepo repository.NotificationRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(
	cfg *config.Config,
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	notificationRepo repository.NotificationRepository,
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		cfg:              cfg,
		userRepo:         userRepo,
		reportRepo:       reportRepo,
		notificationRepo: notificationRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Purge expired refresh tokens every night at 3 AM
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.cleanupExpiredTokens()
	})

	// Clean up old read notifications every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running notification cleanup...")
		s.cleanupOldNotifications()
	})

	// Purge reports past the retention window every night at 4 AM
	if s.cfg.ReportRetentionDays > 0 {
		s.cron.AddFunc("0 4 * * *", func() {
			log.Println("[Cron] Running report retention purge...")
			s.purgeOldReports()
		})
	}

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) cleanupExpiredTokens() {
	ctx := context.Background()

	deleted, err := s.userRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Printf("[Cron] Error cleaning up refresh tokens: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Removed %d expired refresh tokens", deleted)
	}
}

// cleanupOldNotifications removes read notifications older than 30 days
func (s *Scheduler) cleanupOldNotifications() {
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -30)
	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, cutoff, true)
	if err != nil {
		log.Printf("[Cron] Error cleaning up notifications: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Removed %d old notifications", deleted)
	}
}

func (s *Scheduler) purgeOldReports() {
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -s.cfg.ReportRetentionDays)
	deleted, err := s.reportRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[Cron] Error purging old reports: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Removed %d reports older than %d days", deleted, s.cfg.ReportRetentionDays)
	}
}

// ManualTrigger allows manual triggering of maintenance jobs (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "tokens":
		s.cleanupExpiredTokens()
	case "notifications":
		s.cleanupOldNotifications()
	case "reports":
		s.purgeOldReports()
	case "all":
		s.cleanupExpiredTokens()
		s.cleanupOldNotifications()
		s.purgeOldReports()
	}
}
