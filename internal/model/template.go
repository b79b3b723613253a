package model

import (
	"time"

	"github.com/google/uuid"
)

// MealTemplate is a named, reusable bundle of foods. Category is a
// first-class column; older clients embedded it as a bracketed tag inside
// the description, which the template service still parses on read.
type MealTemplate struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Category    string         `json:"category" db:"category"`
	Foods       []TemplateFood `json:"foods" db:"foods"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// TemplateFood is one food line inside a template, with the nutrition
// snapshot captured at the time the template was saved.
type TemplateFood struct {
	FoodID      int64   `json:"foodId"`
	Name        string  `json:"name"`
	ServingSize float64 `json:"servingSize"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Calories    float64 `json:"calories"`
	Unit        string  `json:"unit"`
}

// TemplateTotals holds the summed nutrition of a template's foods.
type TemplateTotals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// TemplateInput is the payload for creating or updating a template.
type TemplateInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Foods       []TemplateFood `json:"foods"`
}
