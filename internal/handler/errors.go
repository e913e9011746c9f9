package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"netdiagram/internal/adapter"
	"netdiagram/internal/codec"
	"netdiagram/internal/domain"
	"netdiagram/internal/repository"
	"netdiagram/internal/service"
	"netdiagram/internal/ui"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps sentinel errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownDevice),
		errors.Is(err, domain.ErrUnknownLink),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSelfLink),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, codec.ErrUnknownReference),
		errors.Is(err, codec.ErrDuplicateDevice),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidViewport),
		errors.Is(err, ui.ErrNoOption),
		errors.Is(err, adapter.ErrNoTargets):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoRename):
		return http.StatusConflict
	case errors.Is(err, service.ErrLoopStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to encode JSON", "err", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
