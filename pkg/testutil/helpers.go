// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/business-case/internal/forecast"
	"github.com/iwvelando/business-case/pkg/finance"
	"github.com/iwvelando/business-case/pkg/mathutil"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// MonthlyCashFlows returns the discounted series of a forecast in month order.
func MonthlyCashFlows(fc *forecast.Forecast) []float64 {
	if fc == nil {
		return nil
	}
	return fc.Projection.Finance.Series()
}

// ColumnTotal sums one P&L column of a forecast.
func ColumnTotal(fc *forecast.Forecast, field func(finance.PLMonth) float64) float64 {
	if fc == nil {
		return 0
	}
	return mathutil.Sum(fc.Projection.PL.Series(field))
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
