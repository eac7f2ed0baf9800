// Package datetime provides date and scenario-window utility functions.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/validation"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseStartDate parses a scenario start date given as YYYY-MM, YYYY-MM-DD or
// an RFC 3339 timestamp (as JSON clients encode dates). The result is
// normalized to the first day of the month. Any failure is reported as a
// ConfigurationError naming the offending value.
func ParseStartDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, validation.NewConfigurationError("startDate", value, "start date is required")
	}

	layout := constants.DateTimeLayout
	switch {
	case len(trimmed) > len(constants.DayDateTimeLayout):
		layout = time.RFC3339
	case len(trimmed) > len(constants.DateTimeLayout):
		layout = constants.DayDateTimeLayout
	}
	t, err := time.Parse(layout, trimmed)
	if err != nil {
		return time.Time{}, validation.NewConfigurationError("startDate", value, err.Error())
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
