package finance

import (
	"errors"
	"fmt"

	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/mathutil"
	"go.uber.org/zap"
)

// FinanceResult holds the investment metrics of a scenario. IRRFound is false
// when no sign change bracketed a root; IRRMonthly and IRRAnnual are then 0.
type FinanceResult struct {
	NPV           float64         `json:"npv"`
	T0            float64         `json:"t0"`
	MonthlyRate   float64         `json:"monthly_rate"`
	IRRMonthly    float64         `json:"irr_monthly"`
	IRRAnnual     float64         `json:"irr_annual"`
	IRRFound      bool            `json:"irr_found"`
	CashFlowBasis CashFlowBasis   `json:"cf_basis"`
	MonthlySeries []MonthlyBucket `json:"monthly_series"`
}

// Series returns the discounted cash-flow series in month order.
func (r FinanceResult) Series() []float64 {
	out := make([]float64, len(r.MonthlySeries))
	for i, b := range r.MonthlySeries {
		out[i] = b.CashFlow
	}
	return out
}

// Projection is the complete output of one scenario computation.
type Projection struct {
	PL      PLResult      `json:"pl"`
	Finance FinanceResult `json:"finance"`
}

// Engine runs scenario projections. It holds no state between calls and is
// safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new projection engine.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Compute runs ComputePL followed by ComputeFinance.
func (e *Engine) Compute(s Scenario, a Assumptions) (Projection, error) {
	pl, err := e.ComputePL(s, a)
	if err != nil {
		return Projection{}, err
	}
	fin, err := e.ComputeFinance(s, pl, a)
	if err != nil {
		return Projection{}, err
	}
	return Projection{PL: pl, Finance: fin}, nil
}

// ComputePL produces the monthly P&L: revenue and COGS, overheads,
// depreciation, EBIT, taxes and net income.
func (e *Engine) ComputePL(s Scenario, a Assumptions) (PLResult, error) {
	w, err := s.Window()
	if err != nil {
		return PLResult{}, err
	}
	if err := a.Validate(); err != nil {
		return PLResult{}, err
	}

	rev := AggregateRevenue(w, s.Products)
	overheads := AllocateOverheads(rev.Revenue, s.Overheads)
	events := ResolveCapex(w, s.Capex, a.LifeMonths())
	depreciation := ScheduleDepreciation(w.Len(), events, a.DeprStart.Offset())
	monthlyTax := mathutil.PercentToFraction(a.TaxRatePct) / constants.MonthsPerYear

	pl := ComposePL(w, rev, overheads, depreciation, monthlyTax)

	e.logger.Debug("computed P&L",
		zap.String("op", "finance.ComputePL"),
		zap.String("scenario", s.Name),
		zap.Int("months", w.Len()),
		zap.Float64("revenue", pl.Totals.Revenue),
		zap.Float64("ebit", pl.Totals.EBIT),
	)
	return pl, nil
}

// ComputeFinance derives the cash-flow series from pl and discounts it. pl must
// come from ComputePL for the same scenario and assumptions; its EBIT, taxes
// and depreciation are used as-is.
func (e *Engine) ComputeFinance(s Scenario, pl PLResult, a Assumptions) (FinanceResult, error) {
	w, err := s.Window()
	if err != nil {
		return FinanceResult{}, err
	}
	if err := a.Validate(); err != nil {
		return FinanceResult{}, err
	}
	if len(pl.Months) != w.Len() {
		return FinanceResult{}, fmt.Errorf("P&L covers %d months but scenario %s spans %d", len(pl.Months), s.Name, w.Len())
	}

	events := ResolveCapex(w, s.Capex, a.LifeMonths())
	capex, t0 := CapexSeries(w.Len(), events, a.TreatFirstCapexAsT0)

	revenue := pl.Series(func(m PLMonth) float64 { return m.Revenue })
	cogs := pl.Series(func(m PLMonth) float64 { return m.COGS })
	wc := ComputeWorkingCapital(revenue, cogs, a.WorkingCapital)

	buckets, selected, err := ComposeCashFlow(pl, capex, wc, a.CashFlowBasis)
	if err != nil {
		return FinanceResult{}, err
	}

	rate := MonthlyRate(a.WACCPct)
	result := FinanceResult{
		NPV:           ProjectNPV(t0, selected, rate),
		T0:            t0,
		MonthlyRate:   rate,
		CashFlowBasis: a.CashFlowBasis,
		MonthlySeries: buckets,
	}

	irr, err := IRR(t0, selected)
	switch {
	case errors.Is(err, ErrNoIRRInRange):
		e.logger.Warn("IRR bisection bracket has no sign change; reporting no IRR",
			zap.String("op", "finance.ComputeFinance"),
			zap.String("scenario", s.Name),
			zap.Float64("t0", t0),
			zap.Float64("npv", result.NPV),
		)
	case err != nil:
		return FinanceResult{}, err
	default:
		result.IRRMonthly = irr
		result.IRRAnnual = AnnualizeMonthlyRate(irr)
		result.IRRFound = len(selected) > 0
	}

	e.logger.Debug("computed finance metrics",
		zap.String("op", "finance.ComputeFinance"),
		zap.String("scenario", s.Name),
		zap.String("basis", string(a.CashFlowBasis)),
		zap.Float64("npv", result.NPV),
		zap.Float64("irrAnnual", result.IRRAnnual),
		zap.Bool("irrFound", result.IRRFound),
	)
	return result, nil
}
