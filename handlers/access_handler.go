package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/upb/agent-access-plane/middleware"
	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/services/engine"
	"github.com/upb/agent-access-plane/utils"
	"go.uber.org/zap"
)

// AccessHandler exposes the decision engine over HTTP
type AccessHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(eng *engine.Engine, logger *zap.Logger) *AccessHandler {
	return &AccessHandler{
		engine: eng,
		logger: logger,
	}
}

// HandleEvaluate handles POST /api/v1/access/evaluate.
// The response body is always the full AccessResult; the HTTP status mirrors
// the decision so callers that only read the status still behave correctly.
func (h *AccessHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req models.AccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := utils.WriteBadRequest(w, "invalid JSON payload", nil); writeErr != nil {
			h.logger.Error("failed to write bad request response", zap.Error(writeErr))
		}
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	ctx := middleware.WithAgentID(r.Context(), req.Credentials.AgentID)

	result, err := h.engine.Evaluate(ctx, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteJSON(w, statusForResult(result), result); err != nil {
		h.logger.Error("failed to write evaluation response", zap.Error(err))
	}
}

// statusForResult maps a decision to an HTTP status code
func statusForResult(result *models.AccessResult) int {
	if result.Granted {
		return http.StatusOK
	}

	switch result.Reason {
	case models.DenialInvalidCredentials, models.DenialCredentialsExpired:
		return http.StatusUnauthorized
	case models.DenialHourlyRateLimitExceeded, models.DenialDailyRateLimitExceeded:
		return http.StatusTooManyRequests
	case models.DenialInternalError:
		return http.StatusInternalServerError
	case models.DenialDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		// Registry, policy, context and quota denials
		return http.StatusForbidden
	}
}
