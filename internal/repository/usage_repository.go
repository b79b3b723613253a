package repository

import (
	"context"
	"fmt"
	"time"

	"macrolog/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// usageRepository implements the UsageRepository interface using PostgreSQL.
type usageRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUsageRepository creates a new PostgreSQL-backed usage repository.
func NewUsageRepository(pool *pgxpool.Pool, logger zerolog.Logger) UsageRepository {
	return &usageRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "usage").Logger(),
	}
}

// Upsert increments use_count and overwrites default_serving_size and
// last_used_at for the food, inserting the row if absent.
func (r *usageRepository) Upsert(ctx context.Context, foodID int64, servingSize float64, usedAt time.Time) error {
	query := `
		INSERT INTO frequently_used_foods (food_id, default_serving_size, use_count, last_used_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (food_id) DO UPDATE SET
			use_count = frequently_used_foods.use_count + 1,
			default_serving_size = EXCLUDED.default_serving_size,
			last_used_at = EXCLUDED.last_used_at
	`

	_, err := r.pool.Exec(ctx, query, foodID, servingSize, usedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("food_id", foodID).Msg("failed to upsert usage record")
		return fmt.Errorf("failed to upsert usage record: %w", err)
	}

	return nil
}

// GetFrequent retrieves foods joined with their usage records, most
// frequently used first, ties broken by most recent use.
func (r *usageRepository) GetFrequent(ctx context.Context, limit int) ([]model.FrequentFood, error) {
	query := `
		SELECT f.id, f.name, f.protein_g, f.carbs_g, f.fat_g, f.calories,
		       f.serving_size, f.unit, f.created_at,
		       u.food_id, u.default_serving_size, u.use_count, u.last_used_at
		FROM frequently_used_foods u
		JOIN foods f ON f.id = u.food_id
		ORDER BY u.use_count DESC, u.last_used_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query frequent foods")
		return nil, fmt.Errorf("failed to query frequent foods: %w", err)
	}
	defer rows.Close()

	var frequent []model.FrequentFood
	for rows.Next() {
		var ff model.FrequentFood
		err := rows.Scan(&ff.Food.ID, &ff.Food.Name, &ff.Food.ProteinG,
			&ff.Food.CarbsG, &ff.Food.FatG, &ff.Food.Calories,
			&ff.Food.ServingSize, &ff.Food.Unit, &ff.Food.CreatedAt,
			&ff.Usage.FoodID, &ff.Usage.DefaultServingSize,
			&ff.Usage.UseCount, &ff.Usage.LastUsedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan frequent food row")
			return nil, fmt.Errorf("failed to scan frequent food: %w", err)
		}
		frequent = append(frequent, ff)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating frequent food rows")
		return nil, fmt.Errorf("error iterating frequent foods: %w", err)
	}

	return frequent, nil
}

// UpdateDefaultServingSize overwrites the stored default serving size.
func (r *usageRepository) UpdateDefaultServingSize(ctx context.Context, foodID int64, size float64) error {
	query := `
		UPDATE frequently_used_foods
		SET default_serving_size = $2
		WHERE food_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, foodID, size)
	if err != nil {
		r.logger.Error().Err(err).Int64("food_id", foodID).Msg("failed to update default serving size")
		return fmt.Errorf("failed to update default serving size: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrFoodNotFound
	}

	return nil
}
