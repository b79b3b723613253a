package resolution

import (
	"regexp"
	"strconv"

	"macrolog/internal/model"
)

// numericInput accepts non-negative integers and decimals, e.g. "12",
// "0.5", ".5". No signs, no exponents, no units.
var numericInput = regexp.MustCompile(`^\d*(\.\d+)?$`)

// ParseNumericInput parses a user-entered numeric field from the estimate
// review form. The empty string means "leave as zero". Anything outside
// the non-negative decimal grammar returns model.ErrValidationRejected.
func ParseNumericInput(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	if !numericInput.MatchString(value) {
		return 0, model.ErrValidationRejected
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, model.ErrValidationRejected
	}
	return parsed, nil
}
