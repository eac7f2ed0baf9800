package finance

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/business-case/pkg/datetime"
	"github.com/iwvelando/business-case/pkg/mathutil"
	"github.com/iwvelando/business-case/pkg/validation"
)

// ExtrapolationMode selects how missing months after the first entered month
// are filled.
type ExtrapolationMode string

const (
	ExtrapolateNone     ExtrapolationMode = ""
	ExtrapolateConstant ExtrapolationMode = "constant"
	ExtrapolateGrowth   ExtrapolationMode = "growth"
)

// ExtrapolateVolumes fills every in-window month after the first entered
// month that has no explicit entry. The quantity of month k is
// q*(1+g)^(k-f), where f is the first entered month, q its quantity and g the
// monthly growth in percentage points (ignored for constant mode). Explicit
// entries are kept as-is and the result is ordered by month. Two entries for
// the same year and month are rejected rather than one overwriting the other.
func ExtrapolateVolumes(w datetime.Window, volumes []MonthVolume, mode ExtrapolationMode, monthlyGrowthPct float64) ([]MonthVolume, error) {
	switch mode {
	case ExtrapolateNone:
		return volumes, nil
	case ExtrapolateConstant:
		monthlyGrowthPct = 0
	case ExtrapolateGrowth:
		if math.IsNaN(monthlyGrowthPct) || math.IsInf(monthlyGrowthPct, 0) || monthlyGrowthPct <= -100 {
			return nil, fmt.Errorf("monthly growth %v%% is not usable", monthlyGrowthPct)
		}
	default:
		return nil, fmt.Errorf("unknown extrapolation mode %q", mode)
	}

	seen := make(map[datetime.YearMonth]struct{}, len(volumes))
	for j, v := range volumes {
		key := datetime.YearMonth{Year: v.Year, Month: v.Month}
		if _, dup := seen[key]; dup {
			return nil, validation.NewInputDataError(fmt.Sprintf("volumes[%d]", j), key.String(), errDuplicateSlot)
		}
		seen[key] = struct{}{}
	}

	explicit := make(map[int]MonthVolume, len(volumes))
	first := -1
	for _, v := range volumes {
		if !w.InWindow(v.Year, v.Month) {
			continue
		}
		i := w.MonthIndex(v.Year, v.Month)
		explicit[i] = v
		if first < 0 || i < first {
			first = i
		}
	}
	if first < 0 {
		return volumes, nil
	}

	base := explicit[first].Quantity
	growth := 1 + mathutil.PercentToFraction(monthlyGrowthPct)
	filled := make([]MonthVolume, 0, w.Len()-first+len(volumes))
	for i := first; i < w.Len(); i++ {
		if v, ok := explicit[i]; ok {
			filled = append(filled, v)
			continue
		}
		ym := w.At(i)
		filled = append(filled, MonthVolume{
			Year:     ym.Year,
			Month:    ym.Month,
			Quantity: base * math.Pow(growth, float64(i-first)),
		})
	}

	// Out-of-window entries are preserved so the aggregator can drop them.
	for _, v := range volumes {
		if !w.InWindow(v.Year, v.Month) {
			filled = append(filled, v)
		}
	}
	sort.SliceStable(filled, func(a, b int) bool {
		if filled[a].Year != filled[b].Year {
			return filled[a].Year < filled[b].Year
		}
		return filled[a].Month < filled[b].Month
	})
	return filled, nil
}
