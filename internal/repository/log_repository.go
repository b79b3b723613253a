package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"macrolog/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// logRepository implements the LogRepository interface using PostgreSQL.
type logRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLogRepository creates a new PostgreSQL-backed daily log repository.
func NewLogRepository(pool *pgxpool.Pool, logger zerolog.Logger) LogRepository {
	return &logRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "log").Logger(),
	}
}

// Create inserts a daily log entry.
func (r *logRepository) Create(ctx context.Context, entry *model.DailyLogEntry) error {
	query := `
		INSERT INTO daily_log (id, log_date, food_id, serving_size, meal_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.Date, entry.FoodID, entry.ServingSize,
		string(entry.MealType), entry.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("entry_id", entry.ID.String()).
			Int64("food_id", entry.FoodID).
			Msg("failed to insert log entry")
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	return nil
}

// GetByDate retrieves all entries for a date with the referenced food's
// attributes joined in, nutrition scaled by the entry's serving size.
func (r *logRepository) GetByDate(ctx context.Context, date time.Time) ([]model.LoggedFood, error) {
	query := `
		SELECT l.id, l.log_date, l.food_id, l.serving_size, l.meal_type, l.created_at,
		       f.name, f.unit,
		       f.protein_g * l.serving_size,
		       f.carbs_g * l.serving_size,
		       f.fat_g * l.serving_size,
		       f.calories * l.serving_size
		FROM daily_log l
		JOIN foods f ON f.id = l.food_id
		WHERE l.log_date = $1
		ORDER BY l.created_at
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		r.logger.Error().Err(err).Time("date", date).Msg("failed to query log entries")
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LoggedFood
	for rows.Next() {
		var lf model.LoggedFood
		var mealType string
		err := rows.Scan(&lf.Entry.ID, &lf.Entry.Date, &lf.Entry.FoodID,
			&lf.Entry.ServingSize, &mealType, &lf.Entry.CreatedAt,
			&lf.Name, &lf.Unit, &lf.ProteinG, &lf.CarbsG, &lf.FatG, &lf.Calories)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan log row")
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		lf.Entry.MealType = model.MealType(mealType)
		entries = append(entries, lf)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating log rows")
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}

	return entries, nil
}

// Delete removes a single log entry, returning the date it was logged
// under so the caller can invalidate that day's cached query result.
func (r *logRepository) Delete(ctx context.Context, id uuid.UUID) (time.Time, error) {
	query := `DELETE FROM daily_log WHERE id = $1 RETURNING log_date`

	var date time.Time
	err := r.pool.QueryRow(ctx, query, id).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("entry_id", id.String()).Msg("delete matched no log entry")
			return time.Time{}, model.ErrLogEntryNotFound
		}
		r.logger.Error().Err(err).Str("entry_id", id.String()).Msg("failed to delete log entry")
		return time.Time{}, fmt.Errorf("failed to delete log entry: %w", err)
	}

	return date, nil
}
