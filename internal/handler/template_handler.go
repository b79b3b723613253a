package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"macrolog/internal/model"
	"macrolog/internal/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TemplateHandler handles meal template HTTP requests.
type TemplateHandler struct {
	service template.Service
	logger  zerolog.Logger
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(service template.Service, logger zerolog.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: service,
		logger:  logger.With().Str("handler", "template").Logger(),
	}
}

// templateResponse pairs a template with its derived macro totals. Totals
// are computed per response, never stored.
type templateResponse struct {
	model.MealTemplate
	Totals model.TemplateTotals `json:"totals"`
}

func toResponse(tpl model.MealTemplate) templateResponse {
	return templateResponse{
		MealTemplate: tpl,
		Totals:       template.Totals(tpl.Foods),
	}
}

// List handles GET /api/templates requests.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve templates", h.logger)
		return
	}

	responses := make([]templateResponse, 0, len(templates))
	for _, tpl := range templates {
		responses = append(responses, toResponse(tpl))
	}

	writeJSON(w, http.StatusOK, responses)
}

// Create handles POST /api/templates requests.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	tpl, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(*tpl))
}

// Get handles GET /api/templates/{id} requests.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}

	tpl, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(*tpl))
}

// Update handles PUT /api/templates/{id} requests.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}

	var input model.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	tpl, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(*tpl))
}

// Delete handles DELETE /api/templates/{id} requests.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandler) templateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
