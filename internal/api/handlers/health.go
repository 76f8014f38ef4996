package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mclarke-dev/momentum-sim/internal/providers"
)

type HealthHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	provider *providers.OpenDataProvider
	version  string
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, provider *providers.OpenDataProvider, version string) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redisClient,
		provider: provider,
		version:  version,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
// This is used for basic liveness probes
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "momentum-sim",
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// GetReady checks downstream dependencies. The simulation engine itself has
// no external dependencies, so a degraded cache or database still reports
// which endpoints remain usable.
func (h *HealthHandler) GetReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["cache"] = "unavailable"
		healthy = false
	} else {
		checks["cache"] = "ok"
	}

	checks["open_data_breaker"] = h.provider.BreakerState().String()

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
