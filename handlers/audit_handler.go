package handlers

import (
	"net/http"
	"strconv"

	"github.com/upb/agent-access-plane/repositories"
	"github.com/upb/agent-access-plane/services"
	"github.com/upb/agent-access-plane/utils"
	"go.uber.org/zap"
)

// AuditHandler exposes read access to the audit trail
type AuditHandler struct {
	store    repositories.AuditStore
	maxLimit int
	logger   *zap.Logger
}

// NewAuditHandler creates a new AuditHandler. maxLimit caps the number of
// records a single query may return.
func NewAuditHandler(store repositories.AuditStore, maxLimit int, logger *zap.Logger) *AuditHandler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &AuditHandler{
		store:    store,
		maxLimit: maxLimit,
		logger:   logger,
	}
}

// HandleRecent handles GET /api/v1/audit/records?limit=N
// Records are returned newest first.
func (h *AuditHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			if writeErr := utils.WriteBadRequest(w, "limit must be a positive integer", nil); writeErr != nil {
				h.logger.Error("failed to write bad request response", zap.Error(writeErr))
			}
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	records, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		HandleServiceError(w, services.WrapExternal("failed to read audit records", err), h.logger)
		return
	}

	if err := utils.WriteOK(w, map[string]interface{}{
		"records": records,
		"count":   len(records),
	}); err != nil {
		h.logger.Error("failed to write audit response", zap.Error(err))
	}
}
