package finance

import (
	"github.com/iwvelando/business-case/pkg/constants"
)

// WorkingCapitalSeries holds the monthly balances and the change in net
// working capital.
type WorkingCapitalSeries struct {
	AR        []float64
	Inventory []float64
	AP        []float64
	NWC       []float64
	DeltaWC   []float64
}

// ComputeWorkingCapital derives AR, inventory and AP balances from revenue and
// COGS using a 30-day month. The balance before the first month is zero, so
// DeltaWC[0] equals NWC[0].
func ComputeWorkingCapital(revenue, cogs []float64, terms WorkingCapitalTerms) WorkingCapitalSeries {
	n := len(revenue)
	series := WorkingCapitalSeries{
		AR:        make([]float64, n),
		Inventory: make([]float64, n),
		AP:        make([]float64, n),
		NWC:       make([]float64, n),
		DeltaWC:   make([]float64, n),
	}

	dso := terms.DSODays / constants.DaysPerMonth
	dio := terms.DIODays / constants.DaysPerMonth
	dpo := terms.DPODays / constants.DaysPerMonth

	previous := 0.0
	for i := 0; i < n; i++ {
		c := 0.0
		if i < len(cogs) {
			c = cogs[i]
		}
		series.AR[i] = revenue[i] * dso
		series.Inventory[i] = c * dio
		series.AP[i] = c * dpo
		series.NWC[i] = series.AR[i] + series.Inventory[i] - series.AP[i]
		series.DeltaWC[i] = series.NWC[i] - previous
		previous = series.NWC[i]
	}
	return series
}
