package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

// writeError maps domain sentinels onto HTTP statuses and the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		code    string
		message string
	)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "INVALID_ARGUMENT"
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
		message = "authentication required or credentials invalid"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
		message = "you do not have access to this resource"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
		message = err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
		message = err.Error()
	case errors.Is(err, domain.ErrConfiguration):
		status, code = http.StatusInternalServerError, "CONFIGURATION"
		message = "server is not configured for this operation; contact the operator"
	case errors.Is(err, domain.ErrUpstreamGeneration):
		status, code = http.StatusBadGateway, "UPSTREAM_GENERATION"
		message = "the AI provider failed to produce a response; try again later"
	default:
		status, code = http.StatusInternalServerError, "INTERNAL"
		message = "internal server error"
	}
	if status >= 500 {
		LoggerFrom(r).Error("request failed", slog.String("code", code), slog.Any("error", err))
	} else {
		LoggerFrom(r).Warn("request rejected", slog.String("code", code), slog.Any("error", err))
	}
	writeJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, details map[string]any) {
	LoggerFrom(r).Warn("validation failed", slog.Any("details", details))
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{
		Code:    "INVALID_ARGUMENT",
		Message: "request validation failed",
		Details: details,
	}})
}
