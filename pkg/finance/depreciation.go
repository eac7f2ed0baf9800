package finance

import (
	"github.com/iwvelando/business-case/pkg/datetime"
)

// CapexEvent is a capex entry resolved onto the scenario window.
type CapexEvent struct {
	MonthIndex int
	Amount     float64
	LifeMonths int
}

// ResolveCapex maps capex entries onto window indices. Entries outside the
// window are dropped. An entry's own useful life takes precedence over
// defaultLifeMonths.
func ResolveCapex(w datetime.Window, entries []CapexEntry, defaultLifeMonths int) []CapexEvent {
	events := make([]CapexEvent, 0, len(entries))
	for _, c := range entries {
		if !w.InWindow(c.Year, c.Month) {
			continue
		}
		life := defaultLifeMonths
		if c.UsefulLifeMonths > 0 {
			life = c.UsefulLifeMonths
		}
		events = append(events, CapexEvent{
			MonthIndex: w.MonthIndex(c.Year, c.Month),
			Amount:     c.Amount,
			LifeMonths: life,
		})
	}
	return events
}

// ScheduleDepreciation spreads each event straight-line over its life starting
// startOffset months after acquisition. Charges that would land past the
// horizon are dropped; perMonth is not adjusted for the truncation.
func ScheduleDepreciation(months int, events []CapexEvent, startOffset int) []float64 {
	depreciation := make([]float64, months)
	for _, ev := range events {
		if ev.Amount <= 0 || ev.LifeMonths <= 0 {
			continue
		}
		perMonth := ev.Amount / float64(ev.LifeMonths)
		for k := 0; k < ev.LifeMonths; k++ {
			i := ev.MonthIndex + startOffset + k
			if i < 0 {
				continue
			}
			if i >= months {
				break
			}
			depreciation[i] += perMonth
		}
	}
	return depreciation
}

// CapexSeries lays capex outlays out by month. When carveT0 is set, outlays in
// the first month are left out of the series and returned as a negative t0
// cash flow instead.
func CapexSeries(months int, events []CapexEvent, carveT0 bool) (series []float64, t0 float64) {
	series = make([]float64, months)
	for _, ev := range events {
		if ev.MonthIndex < 0 || ev.MonthIndex >= months {
			continue
		}
		if carveT0 && ev.MonthIndex == 0 {
			t0 -= ev.Amount
			continue
		}
		series[ev.MonthIndex] += ev.Amount
	}
	return series, t0
}
