package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/business-case/pkg/datetime"
	"github.com/iwvelando/business-case/pkg/finance"
	"github.com/iwvelando/business-case/pkg/mathutil"
	"github.com/iwvelando/business-case/pkg/validation"
)

// FinanceScenario converts a configured scenario into the engine's input
// snapshot. Common overheads are applied ahead of the scenario's own, volume
// extrapolation is resolved against the scenario window, and percent-type
// overheads are converted from percentage points to fractions.
func FinanceScenario(s Scenario, common Common) (finance.Scenario, error) {
	start, err := datetime.ParseStartDate(s.StartDate)
	if err != nil {
		return finance.Scenario{}, err
	}
	w, err := datetime.NewWindow(start, s.Months)
	if err != nil {
		return finance.Scenario{}, err
	}

	out := finance.Scenario{
		Name:   s.Name,
		Start:  start,
		Months: s.Months,
	}

	for i, p := range s.Products {
		volumes := make([]finance.MonthVolume, 0, len(p.Volumes))
		for _, v := range p.Volumes {
			volumes = append(volumes, finance.MonthVolume{Year: v.Year, Month: v.Month, Quantity: v.Quantity})
		}
		if p.Extrapolate != nil {
			mode := finance.ExtrapolationMode(strings.ToLower(strings.TrimSpace(p.Extrapolate.Mode)))
			volumes, err = finance.ExtrapolateVolumes(w, volumes, mode, p.Extrapolate.MonthlyGrowthPct)
			if err != nil {
				return finance.Scenario{}, validation.NewInputDataError(fmt.Sprintf("products[%d].extrapolate", i), p.Extrapolate.Mode, err)
			}
		}
		out.Products = append(out.Products, finance.Product{
			Name:     p.Name,
			Price:    p.Price,
			UnitCOGS: p.UnitCOGS,
			Active:   p.IsActive(),
			Volumes:  volumes,
		})
	}

	for _, o := range append(append([]Overhead{}, common.Overheads...), s.Overheads...) {
		out.Overheads = append(out.Overheads, o.toFinance())
	}

	for _, c := range s.Capex {
		out.Capex = append(out.Capex, finance.CapexEntry{
			AssetName:        c.AssetName,
			Category:         c.Category,
			Year:             c.Year,
			Month:            c.Month,
			Amount:           c.Amount,
			UsefulLifeMonths: c.UsefulLifeMonths,
			DeprMethod:       c.DeprMethod,
			SalvageValue:     c.SalvageValue,
		})
	}

	return out, nil
}

func (o Overhead) toFinance() finance.Overhead {
	kind := finance.OverheadType(strings.ToLower(strings.TrimSpace(o.Type)))
	amount := o.Amount
	if kind == finance.OverheadPercentOfRevenue && o.Percent != nil {
		amount = mathutil.PercentToFraction(*o.Percent)
	}
	return finance.Overhead{Name: o.Name, Type: kind, Amount: amount}
}

// ResolveAssumptions layers the scenario assumptions over the common ones and
// the built-in defaults.
func ResolveAssumptions(s Scenario, common Common) finance.Assumptions {
	a := finance.DefaultAssumptions()
	common.Assumptions.applyTo(&a)
	s.Assumptions.applyTo(&a)
	if terms := ResolveWorkingCapital(s, common); terms != nil {
		a.WorkingCapital = *terms
	}
	return a
}

func (c AssumptionsConfig) applyTo(a *finance.Assumptions) {
	if c.WACCPct != nil {
		a.WACCPct = *c.WACCPct
	}
	if c.TaxRatePct != nil {
		a.TaxRatePct = *c.TaxRatePct
	}
	if basis := strings.ToLower(strings.TrimSpace(c.CashFlowBasis)); basis != "" {
		a.CashFlowBasis = finance.CashFlowBasis(basis)
	}
	if c.DeprLifeYears != nil {
		a.DeprLifeYears = *c.DeprLifeYears
	}
	if policy := strings.ToLower(strings.TrimSpace(c.DeprStart)); policy != "" {
		a.DeprStart = finance.DeprStartPolicy(policy)
	}
	if c.TreatFirstCapexAsT0 != nil {
		a.TreatFirstCapexAsT0 = *c.TreatFirstCapexAsT0
	}
}

// ResolveWorkingCapital returns the working-capital terms for s, or nil when
// neither the scenario nor the common block sets any. Unset fields take the
// defaults.
func ResolveWorkingCapital(s Scenario, common Common) *finance.WorkingCapitalTerms {
	if s.WorkingCapital == nil && common.WorkingCapital == nil {
		return nil
	}
	terms := finance.DefaultWorkingCapitalTerms()
	common.WorkingCapital.applyTo(&terms)
	s.WorkingCapital.applyTo(&terms)
	return &terms
}

func (c *WorkingCapitalConfig) applyTo(t *finance.WorkingCapitalTerms) {
	if c == nil {
		return
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&t.DSODays, c.DSODays)
	set(&t.DPODays, c.DPODays)
	set(&t.DIODays, c.DIODays)
	set(&t.FreightPctOfSales, c.FreightPctOfSales)
	set(&t.SafetyStockPctCOGS, c.SafetyStockPctCOGS)
	set(&t.OtherWCFixed, c.OtherWCFixed)
}
