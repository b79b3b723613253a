// Package template groups logged foods into reusable named meal templates.
package template

import (
	"context"
	"fmt"
	"strings"
	"time"

	"macrolog/internal/model"
	"macrolog/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service defines operations over meal templates.
type Service interface {
	// Create stores a new template.
	Create(ctx context.Context, input model.TemplateInput) (*model.MealTemplate, error)

	// Update overwrites a template's fields.
	Update(ctx context.Context, id uuid.UUID, input model.TemplateInput) (*model.MealTemplate, error)

	// Delete removes a template.
	Delete(ctx context.Context, id uuid.UUID) error

	// Get retrieves a single template. Returns model.ErrTemplateNotFound
	// on a miss.
	Get(ctx context.Context, id uuid.UUID) (*model.MealTemplate, error)

	// List retrieves every template.
	List(ctx context.Context) ([]model.MealTemplate, error)

	// MigrateLegacyCategories moves bracketed category tags out of
	// descriptions into the category column. Run once at startup.
	MigrateLegacyCategories(ctx context.Context) (int, error)
}

// service implements Service.
type service struct {
	repo   repository.TemplateRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates a new template service.
func NewService(repo repository.TemplateRepository, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "template").Logger(),
	}
}

// Create stores a new template. The category lives in its own column; any
// legacy tag the client left in the description is folded into it so the
// stored description stays clean.
func (s *service) Create(ctx context.Context, input model.TemplateInput) (*model.MealTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, model.ErrValidationRejected
	}

	now := s.now()
	tpl := &model.MealTemplate{
		ID:        uuid.New(),
		Name:      input.Name,
		Foods:     input.Foods,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tpl.Description, tpl.Category = normalizeCategory(input.Description, input.Category)

	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info().
		Str("template_id", tpl.ID.String()).
		Str("name", tpl.Name).
		Int("food_count", len(tpl.Foods)).
		Msg("template created")

	return tpl, nil
}

// Update overwrites a template's fields.
func (s *service) Update(ctx context.Context, id uuid.UUID, input model.TemplateInput) (*model.MealTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, model.ErrValidationRejected
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Foods = input.Foods
	existing.UpdatedAt = s.now()
	existing.Description, existing.Category = normalizeCategory(input.Description, input.Category)

	if err := s.repo.Update(ctx, existing); err != nil {
		if err == model.ErrTemplateNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return existing, nil
}

// Delete removes a template.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == model.ErrTemplateNotFound {
			return err
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.logger.Info().Str("template_id", id.String()).Msg("template deleted")

	return nil
}

// Get retrieves a single template, folding any legacy description tag into
// the category field for rows written before the migration.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.MealTemplate, error) {
	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if tpl == nil {
		return nil, model.ErrTemplateNotFound
	}

	fold(tpl)

	return tpl, nil
}

// List retrieves every template.
func (s *service) List(ctx context.Context) ([]model.MealTemplate, error) {
	templates, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	for i := range templates {
		fold(&templates[i])
	}

	return templates, nil
}

// MigrateLegacyCategories rewrites rows that still carry a bracketed tag in
// their description, moving the tag into the category column. Returns the
// number of templates migrated.
func (s *service) MigrateLegacyCategories(ctx context.Context) (int, error) {
	templates, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load templates for migration: %w", err)
	}

	migrated := 0
	for i := range templates {
		tpl := &templates[i]

		clean, legacy := ParseLegacyCategory(tpl.Description)
		if legacy == "" {
			continue
		}

		tpl.Description = clean
		if tpl.Category == "" {
			tpl.Category = legacy
		}

		if err := s.repo.Update(ctx, tpl); err != nil {
			return migrated, fmt.Errorf("failed to migrate template %s: %w", tpl.ID, err)
		}
		migrated++
	}

	if migrated > 0 {
		s.logger.Info().Int("count", migrated).Msg("legacy template categories migrated")
	}

	return migrated, nil
}

// normalizeCategory resolves the stored description and category from a
// client payload. An explicit category wins over a legacy description tag;
// the stored description is always tag-free.
func normalizeCategory(description, category string) (string, string) {
	clean, legacy := ParseLegacyCategory(description)
	category = strings.TrimSpace(category)
	if category == "" {
		category = legacy
	}
	return clean, category
}

// fold handles rows written before the category migration ran.
func fold(tpl *model.MealTemplate) {
	clean, legacy := ParseLegacyCategory(tpl.Description)
	if legacy == "" {
		return
	}
	tpl.Description = clean
	if tpl.Category == "" {
		tpl.Category = legacy
	}
}
