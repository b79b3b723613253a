package model

import "time"

// FoodRecord represents a food in the catalogue with its nutrition facts
// per single serving. Names are unique case-insensitively.
type FoodRecord struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ProteinG    float64   `json:"proteinG" db:"protein_g"`
	CarbsG      float64   `json:"carbsG" db:"carbs_g"`
	FatG        float64   `json:"fatG" db:"fat_g"`
	Calories    float64   `json:"calories" db:"calories"`
	ServingSize float64   `json:"servingSize" db:"serving_size"`
	Unit        string    `json:"unit" db:"unit"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// FoodInput is the payload for creating a catalogue entry.
type FoodInput struct {
	Name        string  `json:"name"`
	ProteinG    float64 `json:"proteinG"`
	CarbsG      float64 `json:"carbsG"`
	FatG        float64 `json:"fatG"`
	Calories    float64 `json:"calories"`
	ServingSize float64 `json:"servingSize"`
	Unit        string  `json:"unit"`
}
