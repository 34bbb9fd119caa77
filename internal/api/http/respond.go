package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/logger"
	"earnx-backend/internal/security"
)

type errorResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps the workflow error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	if rl, ok := domain.IsRateLimited(err); ok {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:             err.Error(),
			RetryAfterSeconds: rl.SecondsRemaining,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyProcessed), errors.Is(err, domain.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidEmail):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrDailyLimitReached),
		errors.Is(err, domain.ErrTooManyPending),
		errors.Is(err, domain.ErrNoDestination):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrBlocked):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
