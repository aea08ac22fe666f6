package handlers

import (
	"net/http"
	"time"

	"github.com/upb/agent-access-plane/services"
	"github.com/upb/agent-access-plane/services/ratelimit"
	"github.com/upb/agent-access-plane/utils"
	"go.uber.org/zap"
)

// UsageHandler exposes current rate-limit window counts
type UsageHandler struct {
	limiter *ratelimit.Service
	logger  *zap.Logger
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(limiter *ratelimit.Service, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		limiter: limiter,
		logger:  logger,
	}
}

// HandleUsage handles GET /api/v1/usage?agent_id=X&resource=Y
func (h *UsageHandler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agent_id")
	resource := r.URL.Query().Get("resource")
	if agentID == "" || resource == "" {
		if err := utils.WriteBadRequest(w, "agent_id and resource query parameters are required", nil); err != nil {
			h.logger.Error("failed to write bad request response", zap.Error(err))
		}
		return
	}

	usage, err := h.limiter.CurrentUsage(r.Context(), agentID, resource, time.Now().UTC())
	if err != nil {
		HandleServiceError(w, services.WrapExternal("failed to compute usage", err), h.logger)
		return
	}

	if err := utils.WriteOK(w, usage); err != nil {
		h.logger.Error("failed to write usage response", zap.Error(err))
	}
}
