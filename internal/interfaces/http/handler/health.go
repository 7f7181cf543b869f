package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/custreg/backend/internal/infrastructure/logger"
	"github.com/custreg/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a backing store is reachable and how its pool is used
type HealthChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

var _ HealthChecker = (*persistence.Database)(nil)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Pings the database and reports connection pool usage; an unreachable database yields 503
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      503 {object} map[string]any
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	now := time.Now().Format(time.RFC3339)
	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"time":     now,
			"database": "error",
		})
		return
	}

	body := gin.H{
		"status":   "healthy",
		"time":     now,
		"database": "ok",
	}
	if stats, err := h.db.Stats(); err == nil {
		body["connections"] = stats
	}
	c.JSON(http.StatusOK, body)
}
