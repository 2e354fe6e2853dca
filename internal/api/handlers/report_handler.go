package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/laporkendala/lapor-backend/internal/api/middleware"
	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/service"
)

// ============================================
// Report Handler
// ============================================

type ReportHandler struct {
	reportService service.ReportService
}

func parseReportFilters(c *gin.Context) *repository.ReportFilters {
	filters := &repository.ReportFilters{}

	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateTo = &t
		}
	}
	if v := c.Query("website_id"); v != "" {
		filters.WebsiteID = &v
	}
	if v := c.Query("status_id"); v != "" {
		filters.StatusID = &v
	}
	if v := c.Query("search"); v != "" {
		filters.Search = &v
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filters.Offset = offset
	}

	return filters
}

func (h *ReportHandler) List(c *gin.Context) {
	reports, total, err := h.reportService.List(c.Request.Context(), parseReportFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat laporan"})
		return
	}

	response := make([]models.ReportResponse, len(reports))
	for i, r := range reports {
		response[i] = toReportResponse(r)
	}

	c.JSON(http.StatusOK, models.ReportListResponse{
		Reports: response,
		Total:   total,
	})
}

func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reportService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Laporan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat laporan"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(report))
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status wajib dipilih"})
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.StatusID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Laporan tidak ditemukan"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengubah status"})
		}
		return
	}

	c.JSON(http.StatusOK, toReportResponse(report))
}

func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reportService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Laporan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus laporan"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *ReportHandler) BulkDelete(c *gin.Context) {
	var req models.BulkDeleteReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tidak ada laporan dipilih"})
		return
	}

	deleted, err := h.reportService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus laporan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ExportCSV streams the filtered report list as a CSV download
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	filename, data, err := h.reportService.ExportCSV(c.Request.Context(), parseReportFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengekspor laporan"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
