package handlers

import (
	"net/http"
	"time"

	"github.com/upb/agent-access-plane/repositories/postgres"
	"github.com/upb/agent-access-plane/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	sinkDB *postgres.DB // nil when no durable audit sink is configured
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(sinkDB *postgres.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		sinkDB: sinkDB,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
// Liveness probe - returns 200 whenever the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
// The decision path runs entirely in memory, so readiness only degrades when
// a configured audit sink is unreachable.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	allHealthy := true

	if h.sinkDB == nil {
		checks["audit_sink"] = "not_configured"
	} else if err := h.sinkDB.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("audit sink health check failed", zap.Error(err))
		checks["audit_sink"] = "unhealthy"
		allHealthy = false
	} else {
		checks["audit_sink"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if err := utils.WriteJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
