package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriberCounter reports the open change-feed connections
type SubscriberCounter interface {
	Subscribers() int
}

type HealthHandler struct {
	db     *gorm.DB
	feed   SubscriberCounter
	logger *zap.Logger
}

func NewHealthHandler(db *gorm.DB, feed SubscriberCounter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, feed: feed, logger: logger}
}

// Live is the liveness probe
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Database reports connection pool statistics
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	if err := database.HealthCheck(r.Context(), h.db); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}
	stats := sqlDB.Stats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

// Ready is the readiness probe covering every dependency
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	healthy := true

	if err := database.HealthCheck(r.Context(), h.db); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	if h.feed != nil {
		checks["change_feed"] = map[string]interface{}{
			"status":      "healthy",
			"subscribers": h.feed.Subscribers(),
		}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
