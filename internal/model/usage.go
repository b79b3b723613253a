package model

import "time"

// UsageRecord tracks how often a food has been logged via the quick-add
// path. DefaultServingSize is the most recently confirmed serving size for
// the food, not an average.
type UsageRecord struct {
	FoodID             int64     `json:"foodId" db:"food_id"`
	DefaultServingSize float64   `json:"defaultServingSize" db:"default_serving_size"`
	UseCount           int64     `json:"useCount" db:"use_count"`
	LastUsedAt         time.Time `json:"lastUsedAt" db:"last_used_at"`
}

// FrequentFood pairs a food with its usage record for ranked display.
type FrequentFood struct {
	Food  FoodRecord  `json:"food"`
	Usage UsageRecord `json:"usage"`
}
