package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/service"
)

// ============================================
// Public Handler (intake form, no auth)
// ============================================

type PublicHandler struct {
	websiteService  service.WebsiteService
	statusService   service.StatusService
	settingsService service.SettingsService
	reportService   service.ReportService
}

// FormData returns everything the public form needs in one call:
// website options, statuses and site branding.
func (h *PublicHandler) FormData(c *gin.Context) {
	ctx := c.Request.Context()

	websites, err := h.websiteService.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data formulir"})
		return
	}

	statuses, err := h.statusService.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data formulir"})
		return
	}

	settings, err := h.settingsService.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data formulir"})
		return
	}

	response := models.FormDataResponse{
		Websites: make([]models.WebsiteResponse, len(websites)),
		Statuses: make([]models.StatusResponse, len(statuses)),
	}
	for i, w := range websites {
		response.Websites[i] = toWebsiteResponse(w)
	}
	for i, s := range statuses {
		response.Statuses[i] = toStatusResponse(s)
	}
	if settings != nil {
		resp := toSettingsResponse(settings)
		response.Settings = &resp
	}

	c.JSON(http.StatusOK, response)
}

// SubmitReport accepts a public issue submission
func (h *PublicHandler) SubmitReport(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Semua field wajib diisi dengan benar"})
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), &service.CreateReportInput{
		Username:         req.Username,
		Whatsapp:         req.Whatsapp,
		IssueDate:        req.IssueDate,
		IssueTitle:       req.IssueTitle,
		IssueDescription: req.IssueDescription,
		ImageURL:         req.ImageURL,
		WebsiteID:        req.WebsiteID,
	}, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengirim laporan"})
		}
		return
	}

	c.JSON(http.StatusCreated, toReportResponse(report))
}
