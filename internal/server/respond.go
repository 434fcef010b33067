package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/you/editalscan/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		storageErr    *domain.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrAccessDenied):
		// Unknown id and bad token share one message on purpose.
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
	case errors.Is(err, domain.ErrTokenExpired):
		writeJSON(w, http.StatusGone, map[string]string{"error": "access token expired"})
	case errors.Is(err, domain.ErrJobNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
	case errors.As(err, &storageErr):
		h.logger.Errorw("storage failure", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "storage unavailable"})
	default:
		h.logger.Errorw("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
