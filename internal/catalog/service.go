// Package catalog is the CRUD facade over the food records in the backing
// store, plus an in-memory snapshot used for substring autocomplete.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"macrolog/internal/model"
	"macrolog/internal/repository"

	"github.com/rs/zerolog"
)

// Service defines operations over the food catalogue.
type Service interface {
	// FindByName resolves a food by case-insensitive exact name.
	// Returns model.ErrFoodNotFound on a miss.
	FindByName(ctx context.Context, name string) (*model.FoodRecord, error)

	// Create adds a food to the catalogue. Returns
	// model.ErrDuplicateFoodName when the name is already taken
	// (case-insensitive); callers in the resolution path treat that as
	// "already resolved", not a failure.
	Create(ctx context.Context, input model.FoodInput) (*model.FoodRecord, error)

	// List retrieves every food.
	List(ctx context.Context) ([]model.FoodRecord, error)

	// Delete removes a food by name.
	Delete(ctx context.Context, name string) error

	// Search performs case-insensitive substring matching over the local
	// snapshot. Synchronous and non-blocking; results may be stale
	// relative to the backing store.
	Search(query string) []model.FoodRecord

	// RefreshSnapshot reloads the local snapshot from the backing store.
	RefreshSnapshot(ctx context.Context) error

	// StartSnapshotRefresh reloads the snapshot on a ticker until the
	// context is cancelled.
	StartSnapshotRefresh(ctx context.Context, interval time.Duration)
}

// service implements Service.
type service struct {
	repo     repository.FoodRepository
	snapshot *snapshot
	logger   zerolog.Logger
}

// NewService creates a new catalogue service.
func NewService(repo repository.FoodRepository, logger zerolog.Logger) Service {
	return &service{
		repo:     repo,
		snapshot: newSnapshot(),
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// FindByName resolves a food by case-insensitive exact name.
func (s *service) FindByName(ctx context.Context, name string) (*model.FoodRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.ErrValidationRejected
	}

	food, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find food: %w", err)
	}

	if food == nil {
		return nil, model.ErrFoodNotFound
	}

	return food, nil
}

// Create adds a food to the catalogue and refreshes the snapshot so the new
// name shows up in autocomplete without waiting for the next ticker.
func (s *service) Create(ctx context.Context, input model.FoodInput) (*model.FoodRecord, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	food, err := s.repo.Create(ctx, input)
	if err != nil {
		if err == model.ErrDuplicateFoodName {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create food: %w", err)
	}

	s.logger.Info().
		Int64("food_id", food.ID).
		Str("name", food.Name).
		Msg("food created")

	if err := s.RefreshSnapshot(ctx); err != nil {
		// Stale autocomplete only; the record itself is persisted.
		s.logger.Warn().Err(err).Msg("snapshot refresh after create failed")
	}

	return food, nil
}

// List retrieves every food.
func (s *service) List(ctx context.Context) ([]model.FoodRecord, error) {
	foods, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	return foods, nil
}

// Delete removes a food by name.
func (s *service) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrValidationRejected
	}

	if err := s.repo.DeleteByName(ctx, name); err != nil {
		if err == model.ErrFoodNotFound {
			return err
		}
		return fmt.Errorf("failed to delete food: %w", err)
	}

	s.logger.Info().Str("name", name).Msg("food deleted")

	if err := s.RefreshSnapshot(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot refresh after delete failed")
	}

	return nil
}

// Search performs case-insensitive substring matching over the snapshot.
func (s *service) Search(query string) []model.FoodRecord {
	return s.snapshot.search(query)
}

// RefreshSnapshot reloads the local snapshot from the backing store.
func (s *service) RefreshSnapshot(ctx context.Context) error {
	foods, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh catalogue snapshot: %w", err)
	}

	s.snapshot.replace(foods)
	s.logger.Debug().Int("count", len(foods)).Msg("catalogue snapshot refreshed")

	return nil
}

// StartSnapshotRefresh reloads the snapshot on a ticker until the context
// is cancelled. Refresh failures are logged; the previous snapshot stays
// in place.
func (s *service) StartSnapshotRefresh(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.RefreshSnapshot(ctx); err != nil {
					s.logger.Warn().Err(err).Msg("background snapshot refresh failed")
				}
			}
		}
	}()
}

func validateInput(input model.FoodInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return model.ErrValidationRejected
	}
	if input.ProteinG < 0 || input.CarbsG < 0 || input.FatG < 0 ||
		input.Calories < 0 || input.ServingSize < 0 {
		return model.ErrValidationRejected
	}
	return nil
}
