package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamdeck/auth-service/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}

// respondUsecaseError translates use case errors into HTTP responses.
// Internal failures are logged and reported generically.
func (h *Handler) respondUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyInUse),
		errors.Is(err, usecase.ErrEmailAlreadyValidated),
		errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrInvalidOrExpiredCode),
		errors.Is(err, usecase.ErrInvalidOrExpiredToken):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrEmailNotValidated):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal error")
		h.respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}
