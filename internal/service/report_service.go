package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/db"
	"github.com/laporkendala/lapor-backend/internal/email"
	"github.com/laporkendala/lapor-backend/internal/notification"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/socket"
	"github.com/laporkendala/lapor-backend/internal/storage"
	"github.com/laporkendala/lapor-backend/internal/types"
)

// ============================================
// Report Service
// ============================================

type CreateReportInput struct {
	Username         string
	Whatsapp         string
	IssueDate        string
	IssueTitle       string
	IssueDescription string
	ImageURL         string
	WebsiteID        string
}

type ReportService interface {
	Create(ctx context.Context, input *CreateReportInput, clientIP string) (*repository.Report, error)
	List(ctx context.Context, filters *repository.ReportFilters) ([]*repository.Report, int, error)
	GetByID(ctx context.Context, id string) (*repository.Report, error)
	UpdateStatus(ctx context.Context, callerID, reportID, statusID string) (*repository.Report, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
	ExportCSV(ctx context.Context, filters *repository.ReportFilters) (filename string, data []byte, err error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	websiteRepo repository.WebsiteRepository
	statusRepo  repository.StatusRepository
	roleRepo    repository.RoleRepository
	userRepo    repository.UserRepository
	redis       *db.RedisDB
	store       storage.ObjectStore
	notifSvc    *notification.Service
	emailSvc    *email.Service
	cfg         *config.Config
	broadcaster *socket.Broadcaster
}

func NewReportService(
	reportRepo repository.ReportRepository,
	websiteRepo repository.WebsiteRepository,
	statusRepo repository.StatusRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	redis *db.RedisDB,
	store storage.ObjectStore,
	notifSvc *notification.Service,
	emailSvc *email.Service,
	cfg *config.Config,
	broadcaster *socket.Broadcaster,
) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		websiteRepo: websiteRepo,
		statusRepo:  statusRepo,
		roleRepo:    roleRepo,
		userRepo:    userRepo,
		redis:       redis,
		store:       store,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		cfg:         cfg,
		broadcaster: broadcaster,
	}
}

func (s *reportService) Create(ctx context.Context, input *CreateReportInput, clientIP string) (*repository.Report, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(ctx, clientIP); err != nil {
		return nil, err
	}

	issueDate, err := time.Parse("2006-01-02", input.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: tanggal kendala tidak valid", ErrInvalidInput)
	}

	report := &repository.Report{
		Username:         strings.TrimSpace(input.Username),
		Whatsapp:         strings.TrimSpace(input.Whatsapp),
		IssueDate:        issueDate,
		IssueTitle:       strings.TrimSpace(input.IssueTitle),
		IssueDescription: strings.TrimSpace(input.IssueDescription),
	}

	if input.ImageURL != "" {
		report.ImageURL = &input.ImageURL
	}
	if input.WebsiteID != "" {
		website, err := s.websiteRepo.FindByID(ctx, input.WebsiteID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up website: %w", err)
		}
		if website == nil {
			return nil, fmt.Errorf("%w: website tidak ditemukan", ErrInvalidInput)
		}
		report.WebsiteID = &website.ID
		report.WebsiteName = &website.Name
	}

	// New reports land on the first status (Pending by default)
	statuses, err := s.statusRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load statuses: %w", err)
	}
	if len(statuses) > 0 {
		report.StatusID = &statuses[0].ID
		report.StatusName = &statuses[0].Name
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendNewReportToAdmins(ctx, report.ID, report.IssueTitle, report.Username); err != nil {
			log.Printf("⚠️ Failed to send new report notifications: %v", err)
		}
	}

	if s.emailSvc != nil {
		s.sendNewReportEmails(ctx, report)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastReportCreated(map[string]interface{}{
			"id":         report.ID,
			"issueTitle": report.IssueTitle,
			"username":   report.Username,
		})
	}

	return report, nil
}

func (s *reportService) validate(input *CreateReportInput) error {
	username := strings.TrimSpace(input.Username)
	whatsapp := strings.TrimSpace(input.Whatsapp)
	title := strings.TrimSpace(input.IssueTitle)
	description := strings.TrimSpace(input.IssueDescription)

	switch {
	case username == "" || whatsapp == "" || title == "" || description == "" || input.IssueDate == "":
		return fmt.Errorf("%w: semua field wajib diisi", ErrInvalidInput)
	case len(username) > 100:
		return fmt.Errorf("%w: username maksimal 100 karakter", ErrInvalidInput)
	case len(whatsapp) > 20:
		return fmt.Errorf("%w: nomor WhatsApp maksimal 20 karakter", ErrInvalidInput)
	case len(title) > 200:
		return fmt.Errorf("%w: judul maksimal 200 karakter", ErrInvalidInput)
	case len(description) > 2000:
		return fmt.Errorf("%w: deskripsi maksimal 2000 karakter", ErrInvalidInput)
	}
	return nil
}

// checkRateLimit caps public submissions per client IP per hour
func (s *reportService) checkRateLimit(ctx context.Context, clientIP string) error {
	if s.redis == nil || clientIP == "" || s.cfg.SubmitRateLimit <= 0 {
		return nil
	}

	count, err := s.redis.IncrementRate(ctx, "submit:"+clientIP, time.Hour)
	if err != nil {
		// Redis being down should not block submissions
		log.Printf("⚠️ Rate limit check failed: %v", err)
		return nil
	}

	if count > int64(s.cfg.SubmitRateLimit) {
		return ErrRateLimited
	}
	return nil
}

func (s *reportService) sendNewReportEmails(ctx context.Context, report *repository.Report) {
	assignments, err := s.roleRepo.FindByRole(ctx, types.RoleAdmin)
	if err != nil {
		log.Printf("⚠️ Failed to resolve admin emails: %v", err)
		return
	}

	var recipients []string
	for _, a := range assignments {
		user, err := s.userRepo.FindByID(ctx, a.UserID)
		if err != nil || user == nil {
			continue
		}
		recipients = append(recipients, user.Email)
	}
	if len(recipients) == 0 {
		return
	}

	websiteName := ""
	if report.WebsiteName != nil {
		websiteName = *report.WebsiteName
	}

	data := email.NewReportData{
		Username:     report.Username,
		Whatsapp:     report.Whatsapp,
		IssueDate:    report.IssueDate.Format("2006-01-02"),
		IssueTitle:   report.IssueTitle,
		WebsiteName:  websiteName,
		DashboardURL: s.cfg.FrontendURL + "/admin",
	}

	go func() {
		if err := s.emailSvc.SendNewReportAlert(recipients, data); err != nil {
			log.Printf("⚠️ Failed to send new report email: %v", err)
		}
	}()
}

func (s *reportService) List(ctx context.Context, filters *repository.ReportFilters) ([]*repository.Report, int, error) {
	return s.reportRepo.FindWithFilters(ctx, filters)
}

func (s *reportService) GetByID(ctx context.Context, id string) (*repository.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	return report, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, callerID, reportID, statusID string) (*repository.Report, error) {
	status, err := s.statusRepo.FindByID(ctx, statusID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up status: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("%w: status tidak ditemukan", ErrInvalidInput)
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, statusID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendReportStatusChanged(ctx, callerID, report.ID, report.IssueTitle, status.Name); err != nil {
			log.Printf("⚠️ Failed to send status change notifications: %v", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastReportStatusChanged(map[string]interface{}{
			"id":     report.ID,
			"status": status.Name,
		})
	}

	return report, nil
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrNotFound
	}

	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteImage(ctx, report)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastReportDeleted(map[string]interface{}{"id": id})
	}

	return nil
}

func (s *reportService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: tidak ada laporan dipilih", ErrInvalidInput)
	}

	// Collect attachments before the rows disappear
	var toClean []*repository.Report
	if s.store != nil {
		for _, id := range ids {
			report, err := s.reportRepo.FindByID(ctx, id)
			if err != nil {
				return 0, err
			}
			if report != nil && report.ImageURL != nil {
				toClean = append(toClean, report)
			}
		}
	}

	deleted, err := s.reportRepo.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, report := range toClean {
		s.deleteImage(ctx, report)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastReportDeleted(map[string]interface{}{"ids": ids})
	}

	return deleted, nil
}

// deleteImage removes the attached screenshot best-effort
func (s *reportService) deleteImage(ctx context.Context, report *repository.Report) {
	if s.store == nil || report.ImageURL == nil {
		return
	}
	key, ok := storage.KeyFromURL(*report.ImageURL, s.cfg.S3ReportsBucket)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, s.cfg.S3ReportsBucket, key); err != nil {
		log.Printf("⚠️ Failed to delete report image %s: %v", key, err)
	}
}

// ExportCSV renders the filtered report list as a CSV download named
// laporan-<date>.csv.
func (s *reportService) ExportCSV(ctx context.Context, filters *repository.ReportFilters) (string, []byte, error) {
	// Export ignores pagination
	exportFilters := *filters
	exportFilters.Limit = 0
	exportFilters.Offset = 0

	reports, _, err := s.reportRepo.FindWithFilters(ctx, &exportFilters)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Username", "WhatsApp", "Tanggal Kendala", "Judul", "Deskripsi", "Website", "Status", "Dibuat"}
	if err := w.Write(header); err != nil {
		return "", nil, err
	}

	for _, r := range reports {
		website := ""
		if r.WebsiteName != nil {
			website = *r.WebsiteName
		}
		status := ""
		if r.StatusName != nil {
			status = *r.StatusName
		}

		row := []string{
			r.Username,
			r.Whatsapp,
			r.IssueDate.Format("2006-01-02"),
			r.IssueTitle,
			r.IssueDescription,
			website,
			status,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return "", nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("laporan-%s.csv", time.Now().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}
