package finance

import (
	"github.com/iwvelando/business-case/pkg/datetime"
	"github.com/iwvelando/business-case/pkg/mathutil"
)

// PLMonth is one month of the profit-and-loss statement.
type PLMonth struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	Revenue           float64 `json:"revenue"`
	COGS              float64 `json:"cogs"`
	GrossMargin       float64 `json:"gross_margin"`
	OverheadFixed     float64 `json:"overhead_fixed"`
	OverheadVarAmount float64 `json:"overhead_var_amount"`
	OverheadTotal     float64 `json:"overhead_total"`
	Depreciation      float64 `json:"depreciation"`
	EBIT              float64 `json:"ebit"`
	Taxes             float64 `json:"taxes"`
	NetIncome         float64 `json:"net_income"`
}

// PLTotals sums every PLMonth field over the horizon.
type PLTotals struct {
	Revenue           float64 `json:"revenue"`
	COGS              float64 `json:"cogs"`
	GrossMargin       float64 `json:"gross_margin"`
	OverheadFixed     float64 `json:"overhead_fixed"`
	OverheadVarAmount float64 `json:"overhead_var_amount"`
	OverheadTotal     float64 `json:"overhead_total"`
	Depreciation      float64 `json:"depreciation"`
	EBIT              float64 `json:"ebit"`
	Taxes             float64 `json:"taxes"`
	NetIncome         float64 `json:"net_income"`
}

// PLResult is the authoritative P&L of a scenario. Its EBIT already nets
// depreciation, and the cash-flow composer consumes it as-is.
type PLResult struct {
	Months []PLMonth `json:"months"`
	Totals PLTotals  `json:"totals"`
}

// Series extracts one column of the P&L in month order.
func (r PLResult) Series(field func(PLMonth) float64) []float64 {
	out := make([]float64, len(r.Months))
	for i, m := range r.Months {
		out[i] = field(m)
	}
	return out
}

// ComposePL builds the monthly P&L. Taxes are charged on positive EBIT only,
// with no loss carry-forward.
func ComposePL(w datetime.Window, rev RevenueSeries, overheads OverheadSeries, depreciation []float64, monthlyTaxRate float64) PLResult {
	months := w.Months()
	result := PLResult{Months: make([]PLMonth, len(months))}
	for i, ym := range months {
		m := PLMonth{
			Year:              ym.Year,
			Month:             ym.Month,
			Revenue:           rev.Revenue[i],
			COGS:              rev.COGS[i],
			OverheadFixed:     overheads.Fixed[i],
			OverheadVarAmount: overheads.Variable[i],
			OverheadTotal:     overheads.Total[i],
			Depreciation:      depreciation[i],
		}
		m.GrossMargin = m.Revenue - m.COGS
		m.EBIT = m.GrossMargin - m.OverheadTotal - m.Depreciation
		m.Taxes = mathutil.Max(m.EBIT, 0) * monthlyTaxRate
		m.NetIncome = m.EBIT - m.Taxes
		result.Months[i] = m
		result.Totals.add(m)
	}
	return result
}

func (t *PLTotals) add(m PLMonth) {
	t.Revenue += m.Revenue
	t.COGS += m.COGS
	t.GrossMargin += m.GrossMargin
	t.OverheadFixed += m.OverheadFixed
	t.OverheadVarAmount += m.OverheadVarAmount
	t.OverheadTotal += m.OverheadTotal
	t.Depreciation += m.Depreciation
	t.EBIT += m.EBIT
	t.Taxes += m.Taxes
	t.NetIncome += m.NetIncome
}
