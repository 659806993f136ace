package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"mealtracker/services"
	"mealtracker/utils"

	"github.com/gin-gonic/gin"
)

type PhotoController struct {
	Store services.PhotoStore
	Log   *slog.Logger
}

func NewPhotoController(store services.PhotoStore, log *slog.Logger) *PhotoController {
	return &PhotoController{Store: store, Log: log}
}

type PhotoUploadRequest struct {
	PhotoData string `json:"photoData" binding:"required"`
}

// POST /api/meals/photos
func (h *PhotoController) Upload(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	url, err := h.Store.Upload(c.Request.Context(), req.PhotoData)
	if errors.Is(err, utils.ErrNotDataURI) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.Log.Error("photo upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
