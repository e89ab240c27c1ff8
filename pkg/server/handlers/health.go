package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessFunc reports whether a dependency can serve traffic.
type ReadinessFunc func(ctx context.Context) error

// HealthHandler handles health check requests
type HealthHandler struct {
	service string
	checks  map[string]ReadinessFunc
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, checks map[string]ReadinessFunc) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  checks,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	failures := gin.H{}
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"service": h.service,
			"checks":  failures,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": h.service,
	})
}
