// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/business-case/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// PercentToFraction converts percentage points (5 for 5%) to a fraction (0.05).
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// Sum adds every value of a series.
func Sum(series []float64) float64 {
	total := 0.0
	for _, v := range series {
		total += v
	}
	return total
}
