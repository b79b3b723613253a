package repository

import (
	"context"
	"time"

	"macrolog/internal/model"

	"github.com/google/uuid"
)

// FoodRepository defines the interface for food catalogue data access.
type FoodRepository interface {
	// GetByName retrieves a food by case-insensitive exact name match.
	// Returns nil (no error) on a miss.
	GetByName(ctx context.Context, name string) (*model.FoodRecord, error)

	// Create inserts a new food and returns it with its generated id.
	// Returns model.ErrDuplicateFoodName when a food with the same name
	// (case-insensitive) already exists.
	Create(ctx context.Context, input model.FoodInput) (*model.FoodRecord, error)

	// GetAll retrieves every food ordered by name.
	GetAll(ctx context.Context) ([]model.FoodRecord, error)

	// DeleteByName removes a food by case-insensitive exact name match.
	DeleteByName(ctx context.Context, name string) error
}

// LogRepository defines the interface for daily log data access.
type LogRepository interface {
	// Create inserts a daily log entry.
	Create(ctx context.Context, entry *model.DailyLogEntry) error

	// GetByDate retrieves all entries for a date, denormalised with the
	// referenced food's attributes scaled by serving size.
	GetByDate(ctx context.Context, date time.Time) ([]model.LoggedFood, error)

	// Delete removes a single log entry and reports the date it belonged
	// to, so callers can invalidate that day's cached log. Returns
	// model.ErrLogEntryNotFound when no row matches.
	Delete(ctx context.Context, id uuid.UUID) (time.Time, error)
}

// UsageRepository defines the interface for usage statistics data access.
type UsageRepository interface {
	// Upsert increments use_count and overwrites default_serving_size and
	// last_used_at for the food, inserting the row if absent.
	Upsert(ctx context.Context, foodID int64, servingSize float64, usedAt time.Time) error

	// GetFrequent retrieves foods joined with their usage records, ranked
	// by use count then recency.
	GetFrequent(ctx context.Context, limit int) ([]model.FrequentFood, error)

	// UpdateDefaultServingSize overwrites the stored default serving size.
	UpdateDefaultServingSize(ctx context.Context, foodID int64, size float64) error
}

// TemplateRepository defines the interface for meal template data access.
type TemplateRepository interface {
	// Create inserts a template.
	Create(ctx context.Context, tpl *model.MealTemplate) error

	// Update overwrites a template's mutable fields. Returns
	// model.ErrTemplateNotFound when no row matches.
	Update(ctx context.Context, tpl *model.MealTemplate) error

	// Delete removes a template.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves a single template. Returns nil (no error) on a miss.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MealTemplate, error)

	// GetAll retrieves every template ordered by name.
	GetAll(ctx context.Context) ([]model.MealTemplate, error)
}
