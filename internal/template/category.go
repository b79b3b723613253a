package template

import (
	"regexp"
	"strings"

	"macrolog/internal/model"
)

// categoryPattern matches the bracketed tag older clients embedded in a
// template's description, e.g. "[Category: Breakfast] overnight oats".
var categoryPattern = regexp.MustCompile(`\[Category:\s*([^\]]*)\]\s*`)

// ParseLegacyCategory splits a description into its clean text and the
// embedded category, if any. The cleaned description never contains the
// bracketed tag.
func ParseLegacyCategory(description string) (clean, category string) {
	match := categoryPattern.FindStringSubmatch(description)
	if match == nil {
		return description, ""
	}

	clean = strings.TrimSpace(categoryPattern.ReplaceAllString(description, ""))
	category = strings.TrimSpace(match[1])

	return clean, category
}

// EncodeLegacyCategory renders a description the way pre-migration clients
// stored it. Any existing tag is stripped first, so at most one tag is ever
// present in the result.
func EncodeLegacyCategory(description, category string) string {
	clean, _ := ParseLegacyCategory(description)
	if strings.TrimSpace(category) == "" {
		return clean
	}

	tag := "[Category: " + strings.TrimSpace(category) + "]"
	if clean == "" {
		return tag
	}

	return tag + " " + clean
}

// Totals sums the nutrition of a template's foods. Pure and
// order-independent; missing carbs and fat contribute zero. Totals are
// always re-derived from the foods, never stored.
func Totals(foods []model.TemplateFood) model.TemplateTotals {
	var totals model.TemplateTotals
	for _, food := range foods {
		totals.Protein += food.Protein
		totals.Carbs += food.Carbs
		totals.Fat += food.Fat
		totals.Calories += food.Calories
	}
	return totals
}
