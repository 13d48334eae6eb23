package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Chaudhary-CS/Nexus/internal/core"
	"github.com/Chaudhary-CS/Nexus/internal/logging"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Limit   int    `json:"limit,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// Headers are already sent, so an encode error has nowhere to go.
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeError maps a service error onto the HTTP error taxonomy. Anything it
// does not recognise is logged and reported as a bare 500.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *core.ValidationError
		qerr *core.QuotaExceededError
	)
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, core.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, core.ErrUnauthorized.Error())
	case errors.Is(err, core.ErrProjectNotFound):
		writeMessage(w, http.StatusNotFound, core.ErrProjectNotFound.Error())
	case errors.As(err, &qerr):
		h.metrics.QuotaRejections.Inc()
		writeJSON(w, http.StatusForbidden, errorResponse{Message: qerr.Error(), Limit: qerr.Limit})
	default:
		logging.FromContext(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
