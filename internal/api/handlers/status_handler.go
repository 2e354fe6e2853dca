package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/service"
)

// ============================================
// Status Handler
// ============================================

type StatusHandler struct {
	statusService service.StatusService
}

func (h *StatusHandler) List(c *gin.Context) {
	statuses, err := h.statusService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat status"})
		return
	}

	response := make([]models.StatusResponse, len(statuses))
	for i, s := range statuses {
		response[i] = toStatusResponse(s)
	}

	c.JSON(http.StatusOK, response)
}

func (h *StatusHandler) Create(c *gin.Context) {
	var req models.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nama status wajib diisi"})
		return
	}

	status, err := h.statusService.Create(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat status"})
		return
	}

	c.JSON(http.StatusCreated, toStatusResponse(status))
}

func (h *StatusHandler) Update(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nama status wajib diisi"})
		return
	}

	status, err := h.statusService.Update(c.Request.Context(), c.Param("id"), req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Status tidak ditemukan"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengubah status"})
		}
		return
	}

	c.JSON(http.StatusOK, toStatusResponse(status))
}

func (h *StatusHandler) Delete(c *gin.Context) {
	if err := h.statusService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Status tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus status"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
