package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"mealtracker/models"
	"mealtracker/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Svc *services.MealService
	Log *slog.Logger
}

func NewMealController(svc *services.MealService, log *slog.Logger) *MealController {
	return &MealController{Svc: svc, Log: log}
}

// POST /api/meals
func (h *MealController) LogMeal(c *gin.Context) {
	var body services.MealLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.Svc.LogMeal(c.Request.Context(), body)
	switch {
	case errors.Is(err, services.ErrNoFoods), errors.Is(err, services.ErrInvalidCalories):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.Log.Error("log meal failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record meal."})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// GET /api/meals?days=7
func (h *MealController) ListMeals(c *gin.Context) {
	var (
		meals []models.Meal
		err   error
	)
	if v := c.Query("days"); v != "" {
		days, convErr := strconv.Atoi(v)
		if convErr != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		meals, err = h.Svc.ListRecentMeals(c.Request.Context(), days)
	} else {
		meals, err = h.Svc.ListMeals(c.Request.Context())
	}
	if err != nil {
		h.Log.Error("list meals failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list meals."})
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}
