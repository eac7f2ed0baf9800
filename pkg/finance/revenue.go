package finance

import (
	"github.com/iwvelando/business-case/pkg/datetime"
)

// RevenueSeries holds the monthly revenue and COGS across all products.
type RevenueSeries struct {
	Revenue []float64
	COGS    []float64
}

// AggregateRevenue sums quantity*price and quantity*unit COGS per month.
// Volumes outside the window are dropped and missing months count as zero.
// Inactive products are included.
func AggregateRevenue(w datetime.Window, products []Product) RevenueSeries {
	n := w.Len()
	series := RevenueSeries{
		Revenue: make([]float64, n),
		COGS:    make([]float64, n),
	}
	for _, p := range products {
		for _, v := range p.Volumes {
			if !w.InWindow(v.Year, v.Month) {
				continue
			}
			i := w.MonthIndex(v.Year, v.Month)
			series.Revenue[i] += v.Quantity * p.Price
			series.COGS[i] += v.Quantity * p.UnitCOGS
		}
	}
	return series
}
