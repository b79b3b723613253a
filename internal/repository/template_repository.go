package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"macrolog/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// templateRepository implements the TemplateRepository interface using
// PostgreSQL, storing the template's foods as a JSONB document.
type templateRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTemplateRepository creates a new PostgreSQL-backed template repository.
func NewTemplateRepository(pool *pgxpool.Pool, logger zerolog.Logger) TemplateRepository {
	return &templateRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "template").Logger(),
	}
}

// Create inserts a template.
func (r *templateRepository) Create(ctx context.Context, tpl *model.MealTemplate) error {
	foods, err := json.Marshal(tpl.Foods)
	if err != nil {
		return fmt.Errorf("failed to encode template foods: %w", err)
	}

	query := `
		INSERT INTO meal_templates (id, name, description, category, foods, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		tpl.ID, tpl.Name, tpl.Description, tpl.Category, foods,
		tpl.CreatedAt, tpl.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("template_id", tpl.ID.String()).Msg("failed to insert template")
		return fmt.Errorf("failed to insert template: %w", err)
	}

	return nil
}

// Update overwrites a template's mutable fields.
func (r *templateRepository) Update(ctx context.Context, tpl *model.MealTemplate) error {
	foods, err := json.Marshal(tpl.Foods)
	if err != nil {
		return fmt.Errorf("failed to encode template foods: %w", err)
	}

	query := `
		UPDATE meal_templates
		SET name = $2, description = $3, category = $4, foods = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		tpl.ID, tpl.Name, tpl.Description, tpl.Category, foods, tpl.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("template_id", tpl.ID.String()).Msg("failed to update template")
		return fmt.Errorf("failed to update template: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrTemplateNotFound
	}

	return nil
}

// Delete removes a template.
func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meal_templates WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("template_id", id.String()).Msg("failed to delete template")
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrTemplateNotFound
	}

	return nil
}

// GetByID retrieves a single template. Returns nil (no error) on a miss.
func (r *templateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MealTemplate, error) {
	query := `
		SELECT id, name, description, category, foods, created_at, updated_at
		FROM meal_templates
		WHERE id = $1
	`

	tpl, err := scanTemplate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("template_id", id.String()).Msg("template not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("template_id", id.String()).Msg("failed to query template")
		return nil, fmt.Errorf("failed to query template: %w", err)
	}

	return tpl, nil
}

// GetAll retrieves every template ordered by name.
func (r *templateRepository) GetAll(ctx context.Context) ([]model.MealTemplate, error) {
	query := `
		SELECT id, name, description, category, foods, created_at, updated_at
		FROM meal_templates
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query templates")
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []model.MealTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan template row")
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *tpl)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating template rows")
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

func scanTemplate(row pgx.Row) (*model.MealTemplate, error) {
	var tpl model.MealTemplate
	var foods []byte
	err := row.Scan(&tpl.ID, &tpl.Name, &tpl.Description, &tpl.Category,
		&foods, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(foods, &tpl.Foods); err != nil {
		return nil, fmt.Errorf("failed to decode template foods: %w", err)
	}

	return &tpl, nil
}
