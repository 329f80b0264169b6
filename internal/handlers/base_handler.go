package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/slickclip/backend/internal/apperrors"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError maps a domain error to its status and message. Errors
// outside the taxonomy are logged and answered with a generic 500.
func (h *BaseHandler) RespondAppError(w http.ResponseWriter, err error) {
	status, message := apperrors.StatusOf(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("internal error", zap.Error(err))
	}
	h.RespondError(w, status, message)
}
