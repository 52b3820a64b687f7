package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/database"
)

// Dependency states reported by Ready
const (
	dependencyOK          = "ok"
	dependencyUnreachable = "unreachable"
	dependencyDisabled    = "disabled"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
	genai client.GenAIClient
}

// NewHealthHandler creates a HealthHandler. redis and genai may be nil when
// live updates or the screening assistant are not configured.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, genai client.GenAIClient) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		genai: genai,
	}
}

// ReadinessResponse reports the state of each backing dependency
type ReadinessResponse struct {
	Status       string            `json:"status" example:"ready"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "pad-champions-api",
	})
}

// Ready godoc
// @Summary      Readiness check
// @Description  The database is required. Redis (live updates, unread cache) and the
// @Description  screening assistant are optional: an unreachable redis reports
// @Description  "degraded" without failing the check.
// @Tags         health
// @Produce      json
// @Success      200 {object} ReadinessResponse
// @Failure      503 {object} ReadinessResponse
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps := map[string]string{
		"database":  dependencyOK,
		"redis":     dependencyDisabled,
		"screening": dependencyDisabled,
	}
	status := "ready"

	if h.genai != nil {
		deps["screening"] = dependencyOK
	}

	if h.redis != nil {
		deps["redis"] = dependencyOK
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyUnreachable
			status = "degraded"
		}
	}

	if err := database.Ping(ctx, h.db); err != nil {
		deps["database"] = dependencyUnreachable
		c.JSON(http.StatusServiceUnavailable, ReadinessResponse{Status: "not ready", Dependencies: deps})
		return
	}

	c.JSON(http.StatusOK, ReadinessResponse{Status: status, Dependencies: deps})
}
