package handlers

import (
	"net/http"

	"github.com/upb/agent-access-plane/services"
	"github.com/upb/agent-access-plane/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Denial reason
// codes never arrive here; a denial is a successful evaluation and is
// rendered by the access handler. This path covers genuine faults only.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	switch services.GetErrorType(err) {
	case services.ErrorTypeValidation:
		if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}

	case services.ErrorTypeNotFound:
		if err := utils.WriteNotFound(w, err.Error()); err != nil {
			logger.Error("failed to write not found response", zap.Error(err))
		}

	case services.ErrorTypeExternal:
		logger.Warn("collaborator failure", zap.Error(err))
		if err := utils.WriteServiceUnavailable(w, "A dependency is unavailable"); err != nil {
			logger.Error("failed to write service unavailable response", zap.Error(err))
		}

	default:
		// Internal errors are logged in full but answered generically
		logger.Error("internal server error", zap.Error(err))
		if err := utils.WriteInternalServerError(w, "An internal error occurred"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{})
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
