package finance

// OverheadSeries holds the fixed, variable and total overhead per month.
type OverheadSeries struct {
	Fixed    []float64
	Variable []float64
	Total    []float64
}

// AllocateOverheads applies every overhead to each month of revenue.
// Percent-of-revenue amounts must already be fractions.
func AllocateOverheads(revenue []float64, overheads []Overhead) OverheadSeries {
	fixed := 0.0
	pct := 0.0
	for _, o := range overheads {
		switch o.Type {
		case OverheadFixed:
			fixed += o.Amount
		case OverheadPercentOfRevenue:
			pct += o.Amount
		}
	}

	n := len(revenue)
	series := OverheadSeries{
		Fixed:    make([]float64, n),
		Variable: make([]float64, n),
		Total:    make([]float64, n),
	}
	for i, rev := range revenue {
		series.Fixed[i] = fixed
		series.Variable[i] = rev * pct
		series.Total[i] = series.Fixed[i] + series.Variable[i]
	}
	return series
}
