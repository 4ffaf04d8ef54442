package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlastrips/travel-booking/internal/database"
)

// HealthHandler handles health and readiness probes
type HealthHandler struct {
	db      *database.PostgresDB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health handles GET /health. Liveness only; no dependencies checked.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /ready. Fails when the database is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
