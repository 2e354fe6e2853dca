package handlers

import (
	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/service"
	"github.com/laporkendala/lapor-backend/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	Admin        *AdminHandler
	Report       *ReportHandler
	Website      *WebsiteHandler
	Status       *StatusHandler
	Settings     *SettingsHandler
	Upload       *UploadHandler
	Public       *PublicHandler
	Service      *ServiceHandler
	Notification *NotificationHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services, store storage.ObjectStore, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		Admin:        &AdminHandler{authService: services.Auth, adminService: services.Admin},
		Report:       &ReportHandler{reportService: services.Report},
		Website:      &WebsiteHandler{websiteService: services.Website},
		Status:       &StatusHandler{statusService: services.Status},
		Settings:     &SettingsHandler{settingsService: services.Settings},
		Upload:       &UploadHandler{store: store, cfg: cfg},
		Public:       &PublicHandler{websiteService: services.Website, statusService: services.Status, settingsService: services.Settings, reportService: services.Report},
		Service:      &ServiceHandler{adminService: services.Admin},
		Notification: &NotificationHandler{notificationService: services.Notification},
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User, isAdmin bool) models.UserResponse {
	return models.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		IsAdmin:      isAdmin,
		LastSignInAt: u.LastSignInAt,
		CreatedAt:    u.CreatedAt,
	}
}

func toAdminAccountResponse(a *service.AdminAccount) models.AdminAccountResponse {
	return models.AdminAccountResponse{
		ID:           a.ID,
		Email:        a.Email,
		CreatedAt:    a.CreatedAt,
		LastSignInAt: a.LastSignInAt,
	}
}

func toReportResponse(r *repository.Report) models.ReportResponse {
	return models.ReportResponse{
		ID:               r.ID,
		Username:         r.Username,
		Whatsapp:         r.Whatsapp,
		IssueDate:        r.IssueDate.Format("2006-01-02"),
		IssueTitle:       r.IssueTitle,
		IssueDescription: r.IssueDescription,
		ImageURL:         r.ImageURL,
		WebsiteID:        r.WebsiteID,
		StatusID:         r.StatusID,
		WebsiteName:      r.WebsiteName,
		StatusName:       r.StatusName,
		StatusColor:      r.StatusColor,
		CreatedAt:        r.CreatedAt,
	}
}

func toWebsiteResponse(w *repository.Website) models.WebsiteResponse {
	return models.WebsiteResponse{
		ID:        w.ID,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
	}
}

func toStatusResponse(s *repository.Status) models.StatusResponse {
	return models.StatusResponse{
		ID:        s.ID,
		Name:      s.Name,
		Color:     s.Color,
		CreatedAt: s.CreatedAt,
	}
}

func toSettingsResponse(s *repository.SiteSettings) models.SettingsResponse {
	return models.SettingsResponse{
		ID:            s.ID,
		SiteTitle:     s.SiteTitle,
		FaviconURL:    s.FaviconURL,
		LogoURL:       s.LogoURL,
		BackgroundURL: s.BackgroundURL,
		ButtonColor:   s.ButtonColor,
		BorderColor:   s.BorderColor,
	}
}

func toNotificationResponse(n *repository.Notification) models.NotificationResponse {
	resp := models.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Data != nil {
		resp.Data = &n.Data
	}
	return resp
}
