package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/erp/depreciation/internal/infrastructure/logger"
	"github.com/erp/depreciation/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db        DatabasePinger
	scheduler SchedulerStatus
	version   string
}

// NewHealthHandler creates a new HealthHandler. scheduler may be nil when
// period posting is not scheduled.
func NewHealthHandler(db DatabasePinger, scheduler SchedulerStatus, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		scheduler: scheduler,
		version:   version,
	}
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Time      string `json:"time" example:"2026-01-23T12:00:00Z"`
	Database  string `json:"database,omitempty" example:"ok"`
	Scheduler string `json:"scheduler,omitempty" example:"running"`
	Version   string `json:"version,omitempty" example:"1.0.0"`
	GoVersion string `json:"go_version,omitempty"`
	Uptime    string `json:"uptime,omitempty" example:"1h30m45s"`
}

// Live godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
	})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Checks database connectivity and reports the scheduler state
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Time:      time.Now().Format(time.RFC3339),
		Database:  "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(startedAt).Round(time.Second).String(),
	}
	if h.scheduler != nil {
		resp.Scheduler = "stopped"
		if h.scheduler.IsRunning() {
			resp.Scheduler = "running"
		}
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Database = "error"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Ping godoc
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "pong"}))
}
