// Package numeric converts loosely-typed boundary values (YAML scalars, JSON
// fields, form values) into validated numbers before they reach the engine.
package numeric

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ErrEmpty is returned when a numeric field is present but blank.
var ErrEmpty = errors.New("value is empty")

// ParseDecimal converts value to a finite float64. Strings are trimmed and must
// parse completely; unlike a permissive coercion, blanks and non-numeric text
// are rejected instead of becoming zero.
func ParseDecimal(value interface{}) (float64, error) {
	if value == nil {
		return 0, ErrEmpty
	}
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, ErrEmpty
		}
		value = s
	}

	parsed, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("value %v is not finite", value)
	}
	return parsed, nil
}

// ParseBool converts value to a bool, treating blanks as false.
func ParseBool(value interface{}) (bool, error) {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return false, nil
	}
	return cast.ToBoolE(value)
}
