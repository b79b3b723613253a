// Package handler exposes the HTTP API surface.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"macrolog/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CacheStore is the slice of the client cache the handlers use.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context, key string)
	Size(ctx context.Context) int64
	Clear(ctx context.Context) error
	RefreshAll(ctx context.Context) error
	LastRefreshedAt(ctx context.Context) *time.Time
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a domain error onto an HTTP status. Unknown errors
// become an opaque 500 so internals never leak to the client.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeValidationRejected:
		status = http.StatusBadRequest
	case model.ErrCodeFoodNotFound, model.ErrCodeTemplateNotFound, model.ErrCodeLogEntryNotFound:
		status = http.StatusNotFound
	case model.ErrCodeDuplicateFoodName:
		status = http.StatusConflict
	case model.ErrCodeEstimationFailed:
		status = http.StatusBadGateway
	}

	writeError(w, status, domainErr.Message, logger)
}

// parseDate parses the YYYY-MM-DD date parameter used across the log API.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
