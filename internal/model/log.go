package model

import (
	"time"

	"github.com/google/uuid"
)

// MealType identifies which meal of the day a log entry belongs to.
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnacks    MealType = "Snacks"
)

// Valid reports whether the meal type is one of the four known values.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return true
	}
	return false
}

// DailyLogEntry records that a food was eaten on a given date. Nutrition is
// always derived from the referenced food scaled by ServingSize, never stored.
type DailyLogEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"log_date"`
	FoodID      int64     `json:"foodId" db:"food_id"`
	ServingSize float64   `json:"servingSize" db:"serving_size"`
	MealType    MealType  `json:"mealType" db:"meal_type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// LoggedFood is a daily log entry denormalised with its food's attributes
// for display, with nutrition scaled by the entry's serving size.
type LoggedFood struct {
	Entry    DailyLogEntry `json:"entry"`
	Name     string        `json:"name"`
	Unit     string        `json:"unit"`
	ProteinG float64       `json:"proteinG"`
	CarbsG   float64       `json:"carbsG"`
	FatG     float64       `json:"fatG"`
	Calories float64       `json:"calories"`
}
