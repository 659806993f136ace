// controllers/analytics_controller.go
package controllers

import (
	"log/slog"
	"net/http"

	"mealtracker/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.MealService
	Log *slog.Logger
}

func NewAnalyticsController(svc *services.MealService, log *slog.Logger) *AnalyticsController {
	return &AnalyticsController{Svc: svc, Log: log}
}

// GET /api/meals/insights
func (h *AnalyticsController) GetInsights(c *gin.Context) {
	out, err := h.Svc.Insights(c.Request.Context())
	if err != nil {
		h.Log.Error("insights failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute insights."})
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/meals/insights  {"meals": [...]}
func (h *AnalyticsController) ComputeInsights(c *gin.Context) {
	var body struct {
		Meals []services.HistoryMeal `json:"meals"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Svc.InsightsFor(body.Meals))
}
