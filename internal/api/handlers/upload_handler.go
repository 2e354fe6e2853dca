package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laporkendala/lapor-backend/internal/config"
	"github.com/laporkendala/lapor-backend/internal/models"
	"github.com/laporkendala/lapor-backend/internal/storage"
)

// ============================================
// Upload Handler (public report screenshots)
// ============================================

const maxReportImageSize = 5 << 20 // 5MB

type UploadHandler struct {
	store storage.ObjectStore
	cfg   *config.Config
}

// UploadReportImage stores a screenshot attached to a public submission
// and returns its public URL.
func (h *UploadHandler) UploadReportImage(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Penyimpanan file tidak tersedia"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File wajib diunggah"})
		return
	}
	if fileHeader.Size > maxReportImageSize {
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

	key := fmt.Sprintf("%s%s", uuid.New().String(), path.Ext(fileHeader.Filename))
	url, err := h.store.Upload(c.Request.Context(), h.cfg.S3ReportsBucket, key, file, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengunggah file"})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{URL: url})
}
