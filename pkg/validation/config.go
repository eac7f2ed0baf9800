// Package validation provides configuration validation utilities and the
// error types surfaced to callers of the projection engine.
package validation

import (
	"math"
	"strconv"
)

// ValidateMonths checks that the scenario horizon covers at least one month.
func ValidateMonths(months int) error {
	if months < 1 {
		return NewConfigurationError("months", strconv.Itoa(months), "horizon must be at least 1 month")
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values for the named setting.
func ValidateFinite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewConfigurationError(field, formatFloat(value), "value must be finite")
	}
	return nil
}

// ValidateWACC checks that an annual WACC in percent can be converted to a
// monthly rate.
func ValidateWACC(waccPct float64) error {
	if err := ValidateFinite("waccPct", waccPct); err != nil {
		return err
	}
	if waccPct <= -100 {
		return NewConfigurationError("waccPct", formatFloat(waccPct), "must be greater than -100")
	}
	return nil
}

// ValidateTaxRate checks that an annual tax rate in percent lies in [0, 100].
func ValidateTaxRate(taxRatePct float64) error {
	if err := ValidateFinite("taxRatePct", taxRatePct); err != nil {
		return err
	}
	if taxRatePct < 0 || taxRatePct > 100 {
		return NewConfigurationError("taxRatePct", formatFloat(taxRatePct), "must be between 0 and 100")
	}
	return nil
}

// ValidateDays checks a working-capital day count.
func ValidateDays(field string, days float64) error {
	if err := ValidateFinite(field, days); err != nil {
		return err
	}
	if days < 0 {
		return NewConfigurationError(field, formatFloat(days), "day count cannot be negative")
	}
	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
