package controllers

import (
	"log/slog"
	"net/http"

	"mealtracker/models"
	"mealtracker/services"
	"mealtracker/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Profiles services.ProfileStore
	Log      *slog.Logger
}

func NewUserController(profiles services.ProfileStore, log *slog.Logger) *UserController {
	return &UserController{Profiles: profiles, Log: log}
}

// ProfileInput takes numbers or numeric strings.
type ProfileInput struct {
	Height *models.Number `json:"height"`
	Weight *models.Number `json:"weight"`
}

// GET /api/users/profile
func (h *UserController) GetProfile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context())
	if err != nil {
		h.Log.Error("get profile failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile."})
		return
	}
	c.JSON(http.StatusOK, services.NewProfileView(p))
}

// PUT /api/users/profile
func (h *UserController) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Height and weight must be numbers."})
		return
	}

	p, err := h.Profiles.Update(c.Request.Context(), input.Height.Float64(), input.Weight.Float64())
	if err != nil {
		h.Log.Error("update profile failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile."})
		return
	}
	c.JSON(http.StatusOK, services.NewProfileView(p))
}

// POST /api/users/bmi and POST /bmi
func (h *UserController) ComputeBMI(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Height and weight must be numbers."})
		return
	}
	if input.Height == nil || input.Weight == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both weight and height are required."})
		return
	}

	bmi, err := utils.CalculateBMI(input.Weight.Float64(), input.Height.Float64())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bmi": bmi, "category": utils.BMICategory(bmi)})
}
