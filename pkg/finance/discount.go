package finance

import (
	"errors"
	"math"

	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/mathutil"
)

// ErrNoIRRInRange is returned when the NPV function has no sign change
// between the IRR search bounds, so bisection cannot bracket a root.
var ErrNoIRRInRange = errors.New("no IRR within the search bracket: NPV does not change sign")

// MonthlyRate converts an annual rate in percent to the equivalent compounded
// monthly rate.
func MonthlyRate(annualPct float64) float64 {
	return math.Pow(1+mathutil.PercentToFraction(annualPct), 1.0/constants.MonthsPerYear) - 1
}

// AnnualizeMonthlyRate compounds a monthly rate over twelve months.
func AnnualizeMonthlyRate(monthly float64) float64 {
	return math.Pow(1+monthly, constants.MonthsPerYear) - 1
}

// NPV discounts series at the monthly rate. Index 0 is discounted one full
// period since it falls at the end of the first month.
func NPV(series []float64, rate float64) float64 {
	npv := 0.0
	factor := 1.0
	for _, cf := range series {
		factor /= 1 + rate
		if cf == 0 {
			continue
		}
		npv += cf * factor
	}
	return npv
}

// ProjectNPV adds the undiscounted t0 investment to the NPV of series.
func ProjectNPV(t0 float64, series []float64, rate float64) float64 {
	return t0 + NPV(series, rate)
}

// IRR solves t0 + NPV(series, rate) = 0 for the monthly rate by bisection over
// [IRRLowerBound, IRRUpperBound] with a fixed number of iterations, returning
// the midpoint of the final bracket. An empty series yields 0.
//
// When the bounds share a sign, a series with a late negative flow can still
// cross zero twice inside them. The bracket is then scanned on a grid spaced
// evenly in 1+rate and the sign change closest to a zero rate is bisected.
// ErrNoIRRInRange is returned only when no sign change is found. If the
// function is not monotonic the result is a root, not necessarily the
// economically meaningful one.
func IRR(t0 float64, series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, nil
	}

	f := func(rate float64) float64 {
		return projectNPVSign(t0, series, rate)
	}

	lo, hi := constants.IRRLowerBound, constants.IRRUpperBound
	fLo, fHi := f(lo), f(hi)
	switch {
	case fLo == 0:
		return lo, nil
	case fHi == 0:
		return hi, nil
	case math.IsNaN(fLo) || math.IsNaN(fHi):
		return 0, ErrNoIRRInRange
	case (fLo > 0) == (fHi > 0):
		var ok bool
		if lo, hi, fLo, ok = scanBracket(f, lo, hi, fLo); !ok {
			return 0, ErrNoIRRInRange
		}
		if lo == hi {
			return lo, nil
		}
	}

	for i := 0; i < constants.IRRIterations; i++ {
		mid := (lo + hi) / 2
		fMid := f(mid)
		if fMid == 0 {
			return mid, nil
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// scanBracket walks [lo, hi] in IRRScanSteps geometric steps of 1+rate and
// returns the sign-change sub-bracket nearest to a zero rate. An exact root on
// the grid is returned as a degenerate bracket.
func scanBracket(f func(float64) float64, lo, hi, fLo float64) (float64, float64, float64, bool) {
	ratio := math.Pow((1+hi)/(1+lo), 1/float64(constants.IRRScanSteps))

	var bestLo, bestHi, bestF float64
	bestDist := math.Inf(1)
	prev, fPrev := lo, fLo
	for i := 1; i <= constants.IRRScanSteps; i++ {
		rate := (1+lo)*math.Pow(ratio, float64(i)) - 1
		if i == constants.IRRScanSteps {
			rate = hi
		}
		fRate := f(rate)

		var dist float64
		switch {
		case fRate == 0:
			dist = math.Abs(rate)
			if dist < bestDist {
				bestLo, bestHi, bestF, bestDist = rate, rate, fRate, dist
			}
		case fPrev != 0 && (fPrev > 0) != (fRate > 0):
			if prev > 0 || rate < 0 {
				dist = math.Min(math.Abs(prev), math.Abs(rate))
			}
			if dist < bestDist {
				bestLo, bestHi, bestF, bestDist = prev, rate, fPrev, dist
			}
		}
		prev, fPrev = rate, fRate
	}
	return bestLo, bestHi, bestF, !math.IsInf(bestDist, 1)
}

// projectNPVSign returns ProjectNPV when it is finite. Otherwise it returns
// the value scaled by (1+rate)^len(series), which has the same sign and stays
// finite for rates close to -1 where the discount factors overflow.
func projectNPVSign(t0 float64, series []float64, rate float64) float64 {
	if v := ProjectNPV(t0, series, rate); !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	scaled := t0
	for _, cf := range series {
		scaled = scaled*(1+rate) + cf
	}
	return scaled
}
