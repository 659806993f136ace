package controllers

import (
	"net/http"

	"mealtracker/models"
	"mealtracker/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Bus *services.AlertBus
}

func NewAlertController(bus *services.AlertBus) *AlertController {
	return &AlertController{Bus: bus}
}

type toggleReq struct {
	Enabled bool `json:"enabled"`
}

// GET /api/alerts/push
func (h *AlertController) PushStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.Bus.PushEnabled()})
}

// POST /api/alerts/push
func (h *AlertController) TogglePush(c *gin.Context) {
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	h.Bus.SetPushEnabled(req.Enabled)
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": h.Bus.PushEnabled(),
	})
}

type testAlertReq struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// POST /api/alerts/test sends a test alert down every channel.
func (h *AlertController) SendTest(c *gin.Context) {
	var req testAlertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" {
		req.Title = "Test alert"
	}
	if req.Message == "" {
		req.Message = "This is only a test."
	}

	h.Bus.Emit(c.Request.Context(), models.Alert{
		Type:    models.AlertTest,
		Title:   req.Title,
		Message: req.Message,
	})
	c.JSON(http.StatusOK, gin.H{"ok": true, "push": h.Bus.PushEnabled()})
}
