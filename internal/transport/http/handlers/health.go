package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports backend connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler exposes liveness and dependency health information.
type HealthHandler struct {
	db        Pinger
	redis     Pinger
	startedAt time.Time
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, startedAt: time.Now().UTC()}
}

// HealthResponse reports service state and database connectivity.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// Health godoc
// @Summary Service health
// @Description Reports API status and whether the database is reachable. Always returns 200; the database field carries the dependency state.
// @Tags Health
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	database := "Connected"
	if h.db == nil || h.db.HealthCheck(c.Request.Context()) != nil {
		database = "Disconnected"
	}

	respondData(c, http.StatusOK, HealthResponse{
		Status:    "ok",
		Database:  database,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}

// Status godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /healthz [get]
func (h *HealthHandler) Status(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"status": "ok", "started_at": h.startedAt})
}

// Ready godoc
// @Summary Readiness probe
// @Description Fails when a required backend is unreachable.
// @Tags Health
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 503 {object} ErrorResponse
// @Router /readyz [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, NewErrorResponse(http.StatusServiceUnavailable, "database unavailable"))
			return
		}
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, NewErrorResponse(http.StatusServiceUnavailable, "cache unavailable"))
			return
		}
	}

	respondData(c, http.StatusOK, gin.H{"status": "ready"})
}
