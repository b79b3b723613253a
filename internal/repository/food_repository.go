package repository

import (
	"context"
	"errors"
	"fmt"

	"macrolog/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// foodRepository implements the FoodRepository interface using PostgreSQL.
type foodRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewFoodRepository creates a new PostgreSQL-backed food repository.
func NewFoodRepository(pool *pgxpool.Pool, logger zerolog.Logger) FoodRepository {
	return &foodRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "food").Logger(),
	}
}

const foodColumns = "id, name, protein_g, carbs_g, fat_g, calories, serving_size, unit, created_at"

func scanFood(row pgx.Row) (*model.FoodRecord, error) {
	var f model.FoodRecord
	err := row.Scan(&f.ID, &f.Name, &f.ProteinG, &f.CarbsG, &f.FatG,
		&f.Calories, &f.ServingSize, &f.Unit, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByName retrieves a food by case-insensitive exact name match.
func (r *foodRepository) GetByName(ctx context.Context, name string) (*model.FoodRecord, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM foods
		WHERE LOWER(name) = LOWER($1)
	`

	food, err := scanFood(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("name", name).Msg("food not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to query food")
		return nil, fmt.Errorf("failed to query food: %w", err)
	}

	return food, nil
}

// Create inserts a new food, returning the stored record including the
// generated id. The unique index on LOWER(name) turns a concurrent
// duplicate insert into model.ErrDuplicateFoodName.
func (r *foodRepository) Create(ctx context.Context, input model.FoodInput) (*model.FoodRecord, error) {
	query := `
		INSERT INTO foods (name, protein_g, carbs_g, fat_g, calories, serving_size, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + foodColumns

	food, err := scanFood(r.pool.QueryRow(ctx, query,
		input.Name, input.ProteinG, input.CarbsG, input.FatG,
		input.Calories, input.ServingSize, input.Unit))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			r.logger.Debug().Str("name", input.Name).Msg("duplicate food name")
			return nil, model.ErrDuplicateFoodName
		}
		r.logger.Error().Err(err).Str("name", input.Name).Msg("failed to insert food")
		return nil, fmt.Errorf("failed to insert food: %w", err)
	}

	return food, nil
}

// GetAll retrieves every food ordered by name.
func (r *foodRepository) GetAll(ctx context.Context) ([]model.FoodRecord, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM foods
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query foods")
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []model.FoodRecord
	for rows.Next() {
		var f model.FoodRecord
		err := rows.Scan(&f.ID, &f.Name, &f.ProteinG, &f.CarbsG, &f.FatG,
			&f.Calories, &f.ServingSize, &f.Unit, &f.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan food row")
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating food rows")
		return nil, fmt.Errorf("error iterating foods: %w", err)
	}

	return foods, nil
}

// DeleteByName removes a food by case-insensitive exact name match.
func (r *foodRepository) DeleteByName(ctx context.Context, name string) error {
	query := `DELETE FROM foods WHERE LOWER(name) = LOWER($1)`

	tag, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to delete food")
		return fmt.Errorf("failed to delete food: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("name", name).Msg("delete matched no food")
		return model.ErrFoodNotFound
	}

	return nil
}
