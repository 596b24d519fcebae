package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/cache"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
)

const readyTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Store
	log   *zap.Logger
}

func NewHealthHandler(db *gorm.DB, cache *cache.Store, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, log: logging.OrNop(log)}
}

// Health reports liveness only.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the database and, when configured, redis.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	checks := gin.H{"database": "ok"}
	ready := true

	if err := h.pingDB(ctx); err != nil {
		h.log.Warn("readiness: database unavailable", zap.Error(err))
		checks["database"] = "unavailable"
		ready = false
	}

	if h.cache.Enabled() {
		checks["redis"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn("readiness: redis unavailable", zap.Error(err))
			checks["redis"] = "unavailable"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
