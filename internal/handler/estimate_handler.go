package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Completer sends one user message to the completion endpoint and returns
// the raw reply text.
type Completer interface {
	Complete(ctx context.Context, userText string) (string, error)
}

// EstimateHandler proxies free-text nutrition questions to the completion
// endpoint and returns the raw reply for the client to review.
type EstimateHandler struct {
	completer Completer
	logger    zerolog.Logger
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(completer Completer, logger zerolog.Logger) *EstimateHandler {
	return &EstimateHandler{
		completer: completer,
		logger:    logger.With().Str("handler", "estimate").Logger(),
	}
}

type estimateRequest struct {
	AIInputText string `json:"aiInputText"`
}

// Estimate handles POST /api/estimate requests.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.AIInputText == "" {
		writeError(w, http.StatusBadRequest, "aiInputText is required", h.logger)
		return
	}

	text, err := h.completer.Complete(r.Context(), req.AIInputText)
	if err != nil {
		// The upstream gives no structured error body; keep ours opaque too.
		h.logger.Warn().Err(err).Msg("completion call failed")
		writeError(w, http.StatusInternalServerError, "estimation request failed", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
