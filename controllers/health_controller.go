package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadyFunc reports whether a backing store can serve requests.
type ReadyFunc func(ctx context.Context) error

type HealthController struct {
	Store string
	Ready ReadyFunc
}

func NewHealthController(store string, ready ReadyFunc) *HealthController {
	return &HealthController{Store: store, Ready: ready}
}

// GET /healthz and GET /api/healthz
func (h *HealthController) Health(c *gin.Context) {
	if h.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "store": h.Store, "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "store": h.Store})
}
