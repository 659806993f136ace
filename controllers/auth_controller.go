package controllers

import (
	"errors"
	"net/http"

	"mealtracker/middlewares"
	"mealtracker/services"
	"mealtracker/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

type CredentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/signup
func (h *AuthController) Signup(c *gin.Context) {
	var input CredentialsInput
	_ = c.ShouldBindJSON(&input)

	err := h.Svc.RegisterUser(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	}
}

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var input CredentialsInput
	_ = c.ShouldBindJSON(&input)

	token, err := h.Svc.AuthenticateUser(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// GET /auth/profile
func (h *AuthController) Profile(c *gin.Context) {
	token := middlewares.BearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	email, err := h.Svc.Subject(token)
	switch {
	case errors.Is(err, utils.ErrMissingSecret):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusOK, gin.H{"email": email})
	}
}

// POST /auth/logout. Tokens are stateless; this exists for clients.
func (h *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
