package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"macrolog/internal/catalog"
	"macrolog/internal/model"

	"github.com/rs/zerolog"
)

// FoodHandler handles food catalogue HTTP requests.
type FoodHandler struct {
	catalog catalog.Service
	logger  zerolog.Logger
}

// NewFoodHandler creates a new food handler.
func NewFoodHandler(cat catalog.Service, logger zerolog.Logger) *FoodHandler {
	return &FoodHandler{
		catalog: cat,
		logger:  logger.With().Str("handler", "food").Logger(),
	}
}

// List handles GET /api/foods requests.
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	foods, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve foods", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, foods)
}

// Create handles POST /api/foods requests.
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.FoodInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	food, err := h.catalog.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, food)
}

// Search handles GET /api/foods/search?q= requests against the local
// snapshot. An empty query returns an empty list rather than the whole
// catalogue.
func (h *FoodHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	results := h.catalog.Search(r.URL.Query().Get("q"))
	if results == nil {
		results = []model.FoodRecord{}
	}

	writeJSON(w, http.StatusOK, results)
}

// Delete handles DELETE /api/foods/{name} requests.
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/foods/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "food name is required", h.logger)
		return
	}

	if err := h.catalog.Delete(r.Context(), name); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
