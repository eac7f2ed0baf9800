// Package constants provides shared constants for the business-case application.
package constants

import "time"

// DateTimeLayout is the month format expected in config files and is also the
// output date format.
const DateTimeLayout = "2006-01"

// DayDateTimeLayout is accepted for start dates given as the first day of a month.
const DayDateTimeLayout = "2006-01-02"

// Calendar and financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerMonth is the day-count convention used by working-capital terms
	DaysPerMonth = 30.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Working-capital defaults applied when a scenario carries no assumptions.
const (
	DefaultDSODays = 45.0
	DefaultDPODays = 30.0
	DefaultDIODays = 20.0
)

// Assumption defaults applied when neither the scenario nor the common block
// sets a value.
const (
	DefaultWACCPct               = 10.0
	DefaultTaxRatePct            = 25.0
	DefaultDepreciationLifeYears = 5.0
)

// IRR bisection parameters
const (
	// IRRLowerBound is the lowest monthly rate searched
	IRRLowerBound = -0.99

	// IRRUpperBound is the highest monthly rate searched
	IRRUpperBound = 10.0

	// IRRIterations is the fixed number of bisection steps
	IRRIterations = 120

	// IRRScanSteps is the number of sub-brackets searched when the bounds
	// themselves do not bracket a root
	IRRScanSteps = 200
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds how long in-flight requests may drain on shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DefaultGoalSeekTolerance is the NPV tolerance used by goal seek
	DefaultGoalSeekTolerance = 0.01

	// DefaultGoalSeekIterations caps goal-seek bisection steps
	DefaultGoalSeekIterations = 100
)
