package model

// NutritionEstimate is a model-produced guess at a food's nutrition facts.
// It is always subject to user review before anything is persisted.
type NutritionEstimate struct {
	FoodName    string  `json:"foodName"`
	ProteinG    float64 `json:"proteinG"`
	CarbsG      float64 `json:"carbsG"`
	FatG        float64 `json:"fatG"`
	Calories    float64 `json:"calories"`
	ServingSize float64 `json:"servingSize"`
	Unit        string  `json:"unit"`

	// DefaultedFields names the numeric fields the decoder could not parse
	// from the model output and substituted with zero, so callers can
	// surface a partial-estimate warning.
	DefaultedFields []string `json:"defaultedFields,omitempty"`
}

// Partial reports whether any field was defaulted during decoding.
func (e *NutritionEstimate) Partial() bool {
	return len(e.DefaultedFields) > 0
}
