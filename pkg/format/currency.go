// Package format renders amounts and rates for human-readable output.
package format

import (
	"math"

	"github.com/iwvelando/business-case/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	amount = mathutil.Round(amount)
	if amount < 0 {
		return "-$" + grouped(math.Abs(amount))
	}
	return "$" + grouped(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	amount = mathutil.Round(amount)
	if amount < 0 {
		return "-" + grouped(math.Abs(amount))
	}
	return grouped(amount)
}

// Percent formats a fraction as a percentage with two decimals (0.1234 -> "12.34%").
func Percent(fraction float64) string {
	return printer.Sprintf("%.2f%%", fraction*100)
}

func grouped(value float64) string {
	return printer.Sprintf("%.2f", value)
}
