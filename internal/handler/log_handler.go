package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"macrolog/internal/cache"
	"macrolog/internal/model"
	"macrolog/internal/repository"
	"macrolog/internal/resolution"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LogHandler handles daily log HTTP requests. Writes go through the
// resolution workflow so every entry gets the full commit treatment
// (catalogue convergence, usage tracking, cache invalidation).
type LogHandler struct {
	workflow *resolution.Workflow
	logs     repository.LogRepository
	cache    CacheStore
	logger   zerolog.Logger
}

// NewLogHandler creates a new log handler.
func NewLogHandler(workflow *resolution.Workflow, logs repository.LogRepository, cacheStore CacheStore, logger zerolog.Logger) *LogHandler {
	return &LogHandler{
		workflow: workflow,
		logs:     logs,
		cache:    cacheStore,
		logger:   logger.With().Str("handler", "log").Logger(),
	}
}

// logRequest is the commit payload. Either Name (resolve against the
// catalogue, estimating on a miss) or Food (values the client already
// reviewed) must be set.
type logRequest struct {
	Name        string                   `json:"name"`
	Food        *model.NutritionEstimate `json:"food"`
	Date        string                   `json:"date"`
	MealType    model.MealType           `json:"mealType"`
	ServingSize float64                  `json:"servingSize"`
}

// Create handles POST /api/log requests.
func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", h.logger)
		return
	}

	var session *resolution.Session
	if req.Food != nil {
		session = h.workflow.BeginReviewed(*req.Food)
	} else {
		session = h.workflow.Begin()
		if err := session.Submit(r.Context(), req.Name); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
	}

	if err := session.Confirm(r.Context(), date, req.MealType, req.ServingSize); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, session.Result())
}

// Delete handles DELETE /api/log/{id} requests. The repository reports the
// deleted entry's date, so the cached log for that day is always dropped.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/log/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid log entry ID", h.logger)
		return
	}

	date, err := h.logs.Delete(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyDailyLog(date))

	w.WriteHeader(http.StatusNoContent)
}

// GetByDate handles GET /api/log?date= requests, reading through the local
// cache. A cache hit skips the backing store entirely; any cache error is
// just a miss.
func (h *LogHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", h.logger)
		return
	}

	key := cache.KeyDailyLog(date)
	if cached, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	entries, err := h.logs.GetByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve daily log", h.logger)
		return
	}
	if entries == nil {
		entries = []model.LoggedFood{}
	}

	body, err := json.Marshal(entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode daily log", h.logger)
		return
	}
	h.cache.Put(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
