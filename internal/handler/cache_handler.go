package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// CacheHandler exposes inspection and maintenance of the local cache.
type CacheHandler struct {
	cache  CacheStore
	logger zerolog.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(cacheStore CacheStore, logger zerolog.Logger) *CacheHandler {
	return &CacheHandler{
		cache:  cacheStore,
		logger: logger.With().Str("handler", "cache").Logger(),
	}
}

// cacheStatus is the GET /api/cache response.
type cacheStatus struct {
	SizeBytes       int64      `json:"sizeBytes"`
	LastRefreshedAt *time.Time `json:"lastRefreshedAt"`
}

// Status handles GET /api/cache requests.
func (h *CacheHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cacheStatus{
		SizeBytes:       h.cache.Size(r.Context()),
		LastRefreshedAt: h.cache.LastRefreshedAt(r.Context()),
	})
}

// Clear handles DELETE /api/cache requests. Backend state is untouched.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cache", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/cache/refresh requests.
func (h *CacheHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := h.cache.RefreshAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to refresh cache", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cacheStatus{
		SizeBytes:       h.cache.Size(r.Context()),
		LastRefreshedAt: h.cache.LastRefreshedAt(r.Context()),
	})
}
