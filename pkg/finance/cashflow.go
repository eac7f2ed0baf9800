package finance

import "fmt"

// MonthlyBucket is one month of the finance view. CashFlow holds the value
// that is discounted under the selected basis.
type MonthlyBucket struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Revenue      float64 `json:"revenue"`
	COGS         float64 `json:"cogs"`
	EBIT         float64 `json:"ebit"`
	Taxes        float64 `json:"taxes"`
	NetIncome    float64 `json:"net_income"`
	Depreciation float64 `json:"depreciation"`
	Capex        float64 `json:"capex"`
	DeltaWC      float64 `json:"delta_wc"`
	FCF          float64 `json:"fcf"`
	CashFlow     float64 `json:"cash_flow"`
}

// ComposeCashFlow derives free cash flow from the P&L:
// fcf = ebit - taxes + depreciation - capex - deltaWC. It returns the buckets
// and the series selected by basis.
func ComposeCashFlow(pl PLResult, capex []float64, wc WorkingCapitalSeries, basis CashFlowBasis) ([]MonthlyBucket, []float64, error) {
	n := len(pl.Months)
	if len(capex) != n || len(wc.DeltaWC) != n {
		return nil, nil, fmt.Errorf("series length mismatch: pl=%d capex=%d deltaWC=%d", n, len(capex), len(wc.DeltaWC))
	}

	buckets := make([]MonthlyBucket, n)
	selected := make([]float64, n)
	for i, m := range pl.Months {
		b := MonthlyBucket{
			Year:         m.Year,
			Month:        m.Month,
			Revenue:      m.Revenue,
			COGS:         m.COGS,
			EBIT:         m.EBIT,
			Taxes:        m.Taxes,
			NetIncome:    m.NetIncome,
			Depreciation: m.Depreciation,
			Capex:        capex[i],
			DeltaWC:      wc.DeltaWC[i],
		}
		b.FCF = b.EBIT - b.Taxes + b.Depreciation - b.Capex - b.DeltaWC
		switch basis {
		case BasisProxy:
			b.CashFlow = b.NetIncome
		default:
			b.CashFlow = b.FCF
		}
		buckets[i] = b
		selected[i] = b.CashFlow
	}
	return buckets, selected, nil
}
