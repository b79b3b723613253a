package integration

import (
	"context"
	"testing"
	"time"

	"macrolog/internal/model"
	"macrolog/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewFoodRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create returns the generated id", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		food, err := repo.Create(ctx, model.FoodInput{
			Name: "Oatmeal", ProteinG: 5, CarbsG: 27, FatG: 3,
			Calories: 150, ServingSize: 40, Unit: "g",
		})
		require.NoError(t, err)
		assert.Greater(t, food.ID, int64(0))
		assert.Equal(t, "Oatmeal", food.Name)
		assert.False(t, food.CreatedAt.IsZero())
	})

	t.Run("GetByName is case-insensitive", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedFoods(t, testDB.Pool)

		food, err := repo.GetByName(ctx, "cHiCkEn BrEaSt")
		require.NoError(t, err)
		require.NotNil(t, food)
		assert.Equal(t, "Chicken breast", food.Name)
		assert.Equal(t, 31.0, food.ProteinG)
	})

	t.Run("GetByName returns nil for unknown food", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		food, err := repo.GetByName(ctx, "Dragonfruit")
		require.NoError(t, err)
		assert.Nil(t, food)
	})

	t.Run("Create rejects case-insensitive duplicate names", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedFoods(t, testDB.Pool)

		_, err := repo.Create(ctx, model.FoodInput{Name: "BANANA", Calories: 100})
		assert.Equal(t, model.ErrDuplicateFoodName, err)
	})

	t.Run("GetAll returns foods ordered by name", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedFoods(t, testDB.Pool)

		foods, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, foods, 5)
		assert.Equal(t, "Banana", foods[0].Name)
	})

	t.Run("DeleteByName removes the food", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedFoods(t, testDB.Pool)

		require.NoError(t, repo.DeleteByName(ctx, "banana"))

		food, err := repo.GetByName(ctx, "Banana")
		require.NoError(t, err)
		assert.Nil(t, food)
	})

	t.Run("DeleteByName reports a miss", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		err := repo.DeleteByName(ctx, "Dragonfruit")
		assert.Equal(t, model.ErrFoodNotFound, err)
	})
}

func TestLogRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	foodRepo := repository.NewFoodRepository(testDB.Pool, logger)
	logRepo := repository.NewLogRepository(testDB.Pool, logger)

	ctx := context.Background()
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	t.Run("GetByDate scales nutrition by serving size", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		food, err := foodRepo.Create(ctx, model.FoodInput{
			Name: "Eggs", ProteinG: 6, CarbsG: 0.5, FatG: 5,
			Calories: 70, ServingSize: 1, Unit: "piece",
		})
		require.NoError(t, err)

		entry := &model.DailyLogEntry{
			ID:          uuid.New(),
			Date:        date,
			FoodID:      food.ID,
			ServingSize: 2,
			MealType:    model.MealBreakfast,
		}
		require.NoError(t, logRepo.Create(ctx, entry))

		logged, err := logRepo.GetByDate(ctx, date)
		require.NoError(t, err)
		require.Len(t, logged, 1)

		assert.Equal(t, "Eggs", logged[0].Name)
		assert.Equal(t, 12.0, logged[0].ProteinG)
		assert.Equal(t, 140.0, logged[0].Calories)
		assert.Equal(t, 2.0, logged[0].Entry.ServingSize)
	})

	t.Run("GetByDate returns nothing for other dates", func(t *testing.T) {
		logged, err := logRepo.GetByDate(ctx, date.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, logged)
	})

	t.Run("Delete removes a single entry", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		food, err := foodRepo.Create(ctx, model.FoodInput{Name: "Rice", Calories: 206, ServingSize: 1})
		require.NoError(t, err)

		entry := &model.DailyLogEntry{
			ID: uuid.New(), Date: date, FoodID: food.ID,
			ServingSize: 1, MealType: model.MealDinner,
		}
		require.NoError(t, logRepo.Create(ctx, entry))

		deletedDate, err := logRepo.Delete(ctx, entry.ID)
		require.NoError(t, err)
		assert.True(t, date.Equal(deletedDate))

		logged, err := logRepo.GetByDate(ctx, date)
		require.NoError(t, err)
		assert.Empty(t, logged)
	})

	t.Run("Delete reports a miss", func(t *testing.T) {
		_, err := logRepo.Delete(ctx, uuid.New())
		assert.Equal(t, model.ErrLogEntryNotFound, err)
	})
}

func TestUsageRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	foodRepo := repository.NewFoodRepository(testDB.Pool, logger)
	usageRepo := repository.NewUsageRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Upsert increments count and overwrites serving size", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		food, err := foodRepo.Create(ctx, model.FoodInput{Name: "Eggs", Calories: 70, ServingSize: 1})
		require.NoError(t, err)

		now := time.Now()
		require.NoError(t, usageRepo.Upsert(ctx, food.ID, 2, now))
		require.NoError(t, usageRepo.Upsert(ctx, food.ID, 3, now.Add(time.Minute)))

		frequent, err := usageRepo.GetFrequent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, frequent, 1)

		assert.Equal(t, int64(2), frequent[0].Usage.UseCount)
		assert.Equal(t, 3.0, frequent[0].Usage.DefaultServingSize, "last confirmed size wins, not an average")
	})

	t.Run("GetFrequent ranks by count then recency", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		often, err := foodRepo.Create(ctx, model.FoodInput{Name: "Eggs", Calories: 70, ServingSize: 1})
		require.NoError(t, err)
		rarely, err := foodRepo.Create(ctx, model.FoodInput{Name: "Cake", Calories: 350, ServingSize: 1})
		require.NoError(t, err)

		now := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, usageRepo.Upsert(ctx, often.ID, 1, now.Add(time.Duration(i)*time.Minute)))
		}
		require.NoError(t, usageRepo.Upsert(ctx, rarely.ID, 1, now.Add(time.Hour)))

		frequent, err := usageRepo.GetFrequent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, frequent, 2)
		assert.Equal(t, often.ID, frequent[0].Food.ID, "higher use count outranks recency")

		limited, err := usageRepo.GetFrequent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("UpdateDefaultServingSize", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		food, err := foodRepo.Create(ctx, model.FoodInput{Name: "Eggs", Calories: 70, ServingSize: 1})
		require.NoError(t, err)
		require.NoError(t, usageRepo.Upsert(ctx, food.ID, 1, time.Now()))

		require.NoError(t, usageRepo.UpdateDefaultServingSize(ctx, food.ID, 4))

		frequent, err := usageRepo.GetFrequent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, frequent, 1)
		assert.Equal(t, 4.0, frequent[0].Usage.DefaultServingSize)
	})
}

func TestTemplateRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewTemplateRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create and GetByID round-trips the foods JSON", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		tpl := &model.MealTemplate{
			ID:          uuid.New(),
			Name:        "Sunday prep",
			Description: "weekly lunches",
			Category:    "Meal Prep",
			Foods: []model.TemplateFood{
				{FoodID: 1, Name: "Rice", ServingSize: 1, Carbs: 45, Calories: 206, Unit: "cup"},
				{FoodID: 2, Name: "Chicken breast", ServingSize: 150, Protein: 46.5, Calories: 248, Unit: "g"},
			},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, repo.Create(ctx, tpl))

		got, err := repo.GetByID(ctx, tpl.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Meal Prep", got.Category)
		require.Len(t, got.Foods, 2)
		assert.Equal(t, "Chicken breast", got.Foods[1].Name)
		assert.Equal(t, 46.5, got.Foods[1].Protein)
	})

	t.Run("GetByID returns nil for unknown template", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Update overwrites mutable fields", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		tpl := &model.MealTemplate{
			ID: uuid.New(), Name: "Oats", Category: "Breakfast",
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		require.NoError(t, repo.Create(ctx, tpl))

		tpl.Name = "Overnight oats"
		tpl.Category = "Brunch"
		require.NoError(t, repo.Update(ctx, tpl))

		got, err := repo.GetByID(ctx, tpl.ID)
		require.NoError(t, err)
		assert.Equal(t, "Overnight oats", got.Name)
		assert.Equal(t, "Brunch", got.Category)
	})

	t.Run("Update reports a miss", func(t *testing.T) {
		err := repo.Update(ctx, &model.MealTemplate{ID: uuid.New(), Name: "Ghost"})
		assert.Equal(t, model.ErrTemplateNotFound, err)
	})

	t.Run("Delete removes the template", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		tpl := &model.MealTemplate{ID: uuid.New(), Name: "Oats", CreatedAt: time.Now(), UpdatedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, tpl))
		require.NoError(t, repo.Delete(ctx, tpl.ID))

		got, err := repo.GetByID(ctx, tpl.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
