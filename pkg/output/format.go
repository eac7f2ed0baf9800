// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/business-case/internal/forecast"
	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/datetime"
	formatutil "github.com/iwvelando/business-case/pkg/format"
	"github.com/iwvelando/business-case/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []forecast.Forecast) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		_, _ = p.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		_, _ = p.Fprintf(w, "Month   | Revenue | COGS | Gross Margin | Overhead | Depreciation | EBIT | Taxes | Net Income | Capex | Delta WC | Cash Flow\n")
		_, _ = p.Fprintf(w, "_____   | _______ | ____ | ____________ | ________ | ____________ | ____ | _____ | __________ | _____ | ________ | _________\n")
		for j, m := range result.Projection.PL.Months {
			var capex, deltaWC, cashFlow float64
			if j < len(result.Projection.Finance.MonthlySeries) {
				bucket := result.Projection.Finance.MonthlySeries[j]
				capex, deltaWC, cashFlow = bucket.Capex, bucket.DeltaWC, bucket.CashFlow
			}
			_, _ = p.Fprintf(w, "%s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s\n",
				datetime.YearMonth{Year: m.Year, Month: m.Month},
				formatutil.Currency(m.Revenue),
				formatutil.Currency(m.COGS),
				formatutil.Currency(m.GrossMargin),
				formatutil.Currency(m.OverheadTotal),
				formatutil.Currency(m.Depreciation),
				formatutil.Currency(m.EBIT),
				formatutil.Currency(m.Taxes),
				formatutil.Currency(m.NetIncome),
				formatutil.Currency(capex),
				formatutil.Currency(deltaWC),
				formatutil.Currency(cashFlow),
			)
		}

		fin := result.Projection.Finance
		totals := result.Projection.PL.Totals
		_, _ = p.Fprintf(w, "Totals  | revenue %s | EBIT %s | net income %s\n",
			formatutil.Currency(totals.Revenue), formatutil.Currency(totals.EBIT), formatutil.Currency(totals.NetIncome))
		_, _ = p.Fprintf(w, "NPV     | %s (basis %s, WACC %.2f%%, t0 %s)\n",
			formatutil.Currency(fin.NPV), fin.CashFlowBasis, result.Assumptions.WACCPct, formatutil.Currency(fin.T0))
		if fin.IRRFound {
			_, _ = p.Fprintf(w, "IRR     | %s annual, %s monthly\n", formatutil.Percent(fin.IRRAnnual), formatutil.Percent(fin.IRRMonthly))
		} else {
			_, _ = p.Fprintf(w, "IRR     | not found within the search range\n")
		}
		for _, gs := range result.Metrics.GoalSeek {
			status := "converged"
			if !gs.Converged {
				status = "not converged"
			}
			_, _ = p.Fprintf(w, "Goal    | %s %s: %s -> %s for NPV %s (%s after %d iterations)\n",
				gs.TargetName, gs.Field, gs.OriginalDisplay, gs.ValueDisplay, formatutil.Currency(gs.AchievedNPV), status, gs.Iterations)
			for _, note := range gs.Notes {
				_, _ = p.Fprintf(w, "        | %s\n", note)
			}
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

var csvHeader = []string{
	"scenario", "month", "revenue", "cogs", "gross_margin", "overhead_fixed", "overhead_var_amount",
	"overhead_total", "depreciation", "ebit", "taxes", "net_income", "capex", "delta_wc", "fcf", "cash_flow",
}

// CsvFormat outputs one comma-separated row per scenario month.
func CsvFormat(w io.Writer, results []forecast.Forecast) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		for j, m := range result.Projection.PL.Months {
			row := []string{
				result.Name,
				datetime.YearMonth{Year: m.Year, Month: m.Month}.String(),
				csvAmount(m.Revenue),
				csvAmount(m.COGS),
				csvAmount(m.GrossMargin),
				csvAmount(m.OverheadFixed),
				csvAmount(m.OverheadVarAmount),
				csvAmount(m.OverheadTotal),
				csvAmount(m.Depreciation),
				csvAmount(m.EBIT),
				csvAmount(m.Taxes),
				csvAmount(m.NetIncome),
			}
			if j < len(result.Projection.Finance.MonthlySeries) {
				bucket := result.Projection.Finance.MonthlySeries[j]
				row = append(row, csvAmount(bucket.Capex), csvAmount(bucket.DeltaWC), csvAmount(bucket.FCF), csvAmount(bucket.CashFlow))
			} else {
				row = append(row, "", "", "", "")
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(results []forecast.Forecast) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat outputs the results as indented JSON.
func JSONFormat(w io.Writer, results []forecast.Forecast) error {
	if results == nil {
		results = []forecast.Forecast{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// Write renders results in the named format (pretty, csv or json).
func Write(w io.Writer, format string, results []forecast.Forecast) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", constants.OutputFormatPretty:
		PrettyFormat(w, results)
		return nil
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func csvAmount(v float64) string {
	v = mathutil.Round(v)
	if v == 0 {
		// drop the sign of negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
