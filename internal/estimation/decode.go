package estimation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"macrolog/internal/model"
)

// numberPattern matches a leading integer or decimal, ignoring trailing
// units such as "12g" or "140 kcal".
var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// Field key aliases the decoder accepts. The model is asked for snake_case
// keys but replies drift, so each field tries several spellings in order.
var (
	nameKeys    = []string{"food_name", "foodName", "name"}
	proteinKeys = []string{"protein", "protein_g", "proteinG"}
	calorieKeys = []string{"calories", "kcal", "energy"}
	carbKeys    = []string{"carbs", "carbs_g", "carbohydrates"}
	fatKeys     = []string{"fat", "fat_g"}
	servingKeys = []string{"serving_size", "servingSize", "serving"}
	unitKeys    = []string{"unit", "measurement"}
)

// DecodeEstimate extracts a nutrition estimate from untrusted completion
// output. The text is not guaranteed to be well-formed JSON: the decoder
// takes the outermost brace-delimited span, reads fields individually, and
// substitutes defaults (0 for numbers, "serving" for the unit) for anything
// it cannot parse, recording the defaulted field names on the estimate. It
// fails only when no food name can be recovered at all.
func DecodeEstimate(raw string) (model.NutritionEstimate, error) {
	var estimate model.NutritionEstimate

	fields, err := extractObject(raw)
	if err != nil {
		return estimate, err
	}

	name, ok := stringField(fields, nameKeys)
	if !ok || strings.TrimSpace(name) == "" {
		return estimate, fmt.Errorf("no food name in completion output")
	}
	estimate.FoodName = strings.TrimSpace(name)

	estimate.ProteinG = numberField(fields, proteinKeys, "protein", &estimate)
	estimate.Calories = numberField(fields, calorieKeys, "calories", &estimate)
	estimate.CarbsG = numberField(fields, carbKeys, "carbs", &estimate)
	estimate.FatG = numberField(fields, fatKeys, "fat", &estimate)

	if size, ok := coerceNumber(firstPresent(fields, servingKeys)); ok && size > 0 {
		estimate.ServingSize = size
	} else {
		estimate.ServingSize = 1
	}

	if unit, ok := stringField(fields, unitKeys); ok && strings.TrimSpace(unit) != "" {
		estimate.Unit = normalizeUnit(unit)
	} else {
		estimate.Unit = "serving"
	}

	return estimate, nil
}

// extractObject finds the outermost {...} span and unmarshals it loosely.
func extractObject(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in completion output")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("completion output is not a JSON object: %w", err)
	}

	return fields, nil
}

func firstPresent(fields map[string]any, keys []string) any {
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			return value
		}
	}
	return nil
}

func stringField(fields map[string]any, keys []string) (string, bool) {
	value, ok := firstPresent(fields, keys).(string)
	return value, ok
}

// numberField coerces a numeric field, defaulting to 0 and recording the
// field name on the estimate when the value is absent or unparseable.
func numberField(fields map[string]any, keys []string, name string, estimate *model.NutritionEstimate) float64 {
	if value, ok := coerceNumber(firstPresent(fields, keys)); ok {
		return value
	}
	estimate.DefaultedFields = append(estimate.DefaultedFields, name)
	return 0
}

// coerceNumber accepts JSON numbers and numeric strings with trailing units.
func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		match := numberPattern.FindString(v)
		if match == "" {
			return 0, false
		}
		var parsed float64
		if _, err := fmt.Sscanf(match, "%g", &parsed); err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// normalizeUnit maps the model's measurement vocabulary onto display units.
func normalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "weight":
		return "g"
	case "volume":
		return "ml"
	default:
		return strings.TrimSpace(unit)
	}
}
