package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"macrolog/internal/cache"
	"macrolog/internal/model"
	"macrolog/internal/usage"

	"github.com/rs/zerolog"
)

// FrequentHandler serves the ranked frequently-used foods list.
type FrequentHandler struct {
	tracker usage.Tracker
	cache   CacheStore
	logger  zerolog.Logger
}

// NewFrequentHandler creates a new frequent-foods handler.
func NewFrequentHandler(tracker usage.Tracker, cacheStore CacheStore, logger zerolog.Logger) *FrequentHandler {
	return &FrequentHandler{
		tracker: tracker,
		cache:   cacheStore,
		logger:  logger.With().Str("handler", "frequent").Logger(),
	}
}

// List handles GET /api/foods/frequent?limit= requests, reading through the
// local cache. Only the default-limit list is cached; explicit limits go
// straight to the backing store.
func (h *FrequentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
			return
		}
	}

	useCache := limit == 0
	if useCache {
		if cached, ok := h.cache.Get(r.Context(), cache.KeyFrequentFoods); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	frequent, err := h.tracker.GetFrequent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve frequent foods", h.logger)
		return
	}
	if frequent == nil {
		frequent = []model.FrequentFood{}
	}

	body, err := json.Marshal(frequent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode frequent foods", h.logger)
		return
	}
	if useCache {
		h.cache.Put(r.Context(), cache.KeyFrequentFoods, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

type servingSizeRequest struct {
	ServingSize float64 `json:"servingSize"`
}

// UpdateServingSize handles PUT /api/foods/frequent/{id}/serving requests.
func (h *FrequentHandler) UpdateServingSize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Path: /api/foods/frequent/{id}/serving
	trimmed := strings.TrimPrefix(r.URL.Path, "/api/foods/frequent/")
	idStr := strings.TrimSuffix(trimmed, "/serving")
	foodID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid food ID", h.logger)
		return
	}

	var req servingSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.tracker.UpdateDefaultServingSize(r.Context(), foodID, req.ServingSize); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyFrequentFoods)

	w.WriteHeader(http.StatusNoContent)
}
