package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/validation"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// String formats the month using DateTimeLayout.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Window maps a scenario's start month and horizon onto zero-based month
// indices. The zero value is not usable; construct one with NewWindow.
type Window struct {
	start  YearMonth
	months int
}

// NewWindow builds the window starting at the month of start and spanning
// months months.
func NewWindow(start time.Time, months int) (Window, error) {
	if start.IsZero() {
		return Window{}, validation.NewConfigurationError("startDate", "", "start date is required")
	}
	if err := validation.ValidateMonths(months); err != nil {
		return Window{}, err
	}
	return Window{
		start:  YearMonth{Year: start.Year(), Month: int(start.Month())},
		months: months,
	}, nil
}

// ParseWindow parses startDate with ParseStartDate and builds the window.
func ParseWindow(startDate string, months int) (Window, error) {
	start, err := ParseStartDate(startDate)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(start, months)
}

// Start returns the first month of the window.
func (w Window) Start() YearMonth {
	return w.start
}

// Len returns the horizon in months.
func (w Window) Len() int {
	return w.months
}

// MonthIndex returns the zero-based offset of (year, month) from the start.
// The result may fall outside [0, Len()); callers must bounds-check.
func (w Window) MonthIndex(year, month int) int {
	return (year-w.start.Year)*constants.MonthsPerYear + (month - w.start.Month)
}

// InWindow reports whether (year, month) lies inside the horizon.
func (w Window) InWindow(year, month int) bool {
	if month < 1 || month > constants.MonthsPerYear {
		return false
	}
	idx := w.MonthIndex(year, month)
	return idx >= 0 && idx < w.months
}

// At returns the calendar month at index i.
func (w Window) At(i int) YearMonth {
	total := w.start.Year*constants.MonthsPerYear + (w.start.Month - 1) + i
	year := total / constants.MonthsPerYear
	month := total%constants.MonthsPerYear + 1
	if month <= 0 {
		month += constants.MonthsPerYear
		year--
	}
	return YearMonth{Year: year, Month: month}
}

// Months lists every month of the horizon in order.
func (w Window) Months() []YearMonth {
	list := make([]YearMonth, w.months)
	current := w.start
	for i := range list {
		list[i] = current
		current.Month++
		if current.Month > constants.MonthsPerYear {
			current.Month = 1
			current.Year++
		}
	}
	return list
}
