package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/service"
)

// ============================================
// Website Handler
// ============================================

type WebsiteHandler struct {
	websiteService service.WebsiteService
}

func (h *WebsiteHandler) List(c *gin.Context) {
	websites, err := h.websiteService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat website"})
		return
	}

	response := make([]models.WebsiteResponse, len(websites))
	for i, w := range websites {
		response[i] = toWebsiteResponse(w)
	}

	c.JSON(http.StatusOK, response)
}

func (h *WebsiteHandler) Create(c *gin.Context) {
	var req models.CreateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nama website wajib diisi"})
		return
	}

	website, err := h.websiteService.Create(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat website"})
		return
	}

	c.JSON(http.StatusCreated, toWebsiteResponse(website))
}

func (h *WebsiteHandler) Update(c *gin.Context) {
	var req models.UpdateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nama website wajib diisi"})
		return
	}

	website, err := h.websiteService.Update(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Website tidak ditemukan"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengubah website"})
		}
		return
	}

	c.JSON(http.StatusOK, toWebsiteResponse(website))
}

func (h *WebsiteHandler) Delete(c *gin.Context) {
	if err := h.websiteService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Website tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus website"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
