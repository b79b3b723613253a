// Package usage maintains per-food logging statistics backing the
// "frequently used foods" quick-add list.
package usage

import (
	"context"
	"fmt"
	"time"

	"macrolog/internal/model"
	"macrolog/internal/repository"

	"github.com/rs/zerolog"
)

const defaultFrequentLimit = 10

// Tracker records logging events and serves the ranked frequent-foods list.
type Tracker interface {
	// Track records one successful log commit for the food, incrementing
	// its use count and overwriting its default serving size. Safe to call
	// once per commit.
	Track(ctx context.Context, foodID int64, servingSize float64) error

	// GetFrequent returns foods ranked most-frequently-used first, ties
	// broken by most recent use.
	GetFrequent(ctx context.Context, limit int) ([]model.FrequentFood, error)

	// UpdateDefaultServingSize overwrites the remembered serving size.
	UpdateDefaultServingSize(ctx context.Context, foodID int64, size float64) error
}

// tracker implements Tracker.
type tracker struct {
	repo   repository.UsageRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewTracker creates a new usage tracker. The backing table is provisioned
// by the startup migrations, so no request-path schema checks are needed.
func NewTracker(repo repository.UsageRepository, logger zerolog.Logger) Tracker {
	return &tracker{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "usage").Logger(),
	}
}

// Track records one successful log commit for the food.
func (t *tracker) Track(ctx context.Context, foodID int64, servingSize float64) error {
	if foodID <= 0 || servingSize <= 0 {
		return model.ErrValidationRejected
	}

	if err := t.repo.Upsert(ctx, foodID, servingSize, t.now()); err != nil {
		return fmt.Errorf("failed to track usage: %w", err)
	}

	t.logger.Debug().
		Int64("food_id", foodID).
		Float64("serving_size", servingSize).
		Msg("usage tracked")

	return nil
}

// GetFrequent returns foods ranked by use count then recency.
func (t *tracker) GetFrequent(ctx context.Context, limit int) ([]model.FrequentFood, error) {
	if limit <= 0 {
		limit = defaultFrequentLimit
	}

	frequent, err := t.repo.GetFrequent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get frequent foods: %w", err)
	}

	return frequent, nil
}

// UpdateDefaultServingSize overwrites the remembered serving size.
func (t *tracker) UpdateDefaultServingSize(ctx context.Context, foodID int64, size float64) error {
	if foodID <= 0 || size <= 0 {
		return model.ErrValidationRejected
	}

	if err := t.repo.UpdateDefaultServingSize(ctx, foodID, size); err != nil {
		if err == model.ErrFoodNotFound {
			return err
		}
		return fmt.Errorf("failed to update default serving size: %w", err)
	}

	return nil
}
