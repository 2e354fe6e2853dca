package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/service"
)

// ============================================
// Settings Handler
// ============================================

const maxAssetSize = 5 << 20 // 5MB

type SettingsHandler struct {
	settingsService service.SettingsService
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat pengaturan"})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body tidak valid"})
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &service.UpdateSettingsInput{
		SiteTitle:   req.SiteTitle,
		ButtonColor: req.ButtonColor,
		BorderColor: req.BorderColor,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan pengaturan"})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UploadAsset accepts a multipart branding image (favicon, logo or
// background) capped at 5MB.
func (h *SettingsHandler) UploadAsset(c *gin.Context) {
	field := assetField(c.Param("asset"))
	if field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jenis aset tidak dikenal"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File wajib diunggah"})
		return
	}
	if fileHeader.Size > maxAssetSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ukuran file maksimal 5MB"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File harus berupa gambar"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membaca file"})
		return
	}
	defer file.Close()

	settings, err := h.settingsService.UploadAsset(c.Request.Context(), field, fileHeader.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengunggah aset"})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// assetField maps the URL segment to the settings column
func assetField(asset string) string {
	switch asset {
	case "favicon":
		return repository.AssetFieldFavicon
	case "logo":
		return repository.AssetFieldLogo
	case "background":
		return repository.AssetFieldBackground
	}
	return ""
}
