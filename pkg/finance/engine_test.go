package finance

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/iwvelando/business-case/pkg/datetime"
	"github.com/iwvelando/business-case/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func baselineScenario(t *testing.T) Scenario {
	t.Helper()
	w := mustWindow(t, "2025-01", 12)
	return Scenario{
		Name:   "baseline",
		Start:  datetime.MustParseTime(datetime.DateTimeLayout, "2025-01"),
		Months: 12,
		Products: []Product{
			{Name: "Widget", Price: 10, UnitCOGS: 6, Active: true, Volumes: constantVolumes(w, 100)},
		},
		Overheads: []Overhead{{Name: "Rent", Type: OverheadFixed, Amount: 200}},
	}
}

func zeroWCAssumptions() Assumptions {
	a := DefaultAssumptions()
	a.WACCPct = 0
	a.TaxRatePct = 0
	a.WorkingCapital = WorkingCapitalTerms{}
	return a
}

func TestComputePLBaselineScenario(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	pl, err := engine.ComputePL(baselineScenario(t), zeroWCAssumptions())
	if err != nil {
		t.Fatalf("ComputePL() error = %v", err)
	}

	if len(pl.Months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(pl.Months))
	}
	assertClose(t, "revenue", pl.Totals.Revenue, 12000)
	assertClose(t, "cogs", pl.Totals.COGS, 7200)
	assertClose(t, "overhead total", pl.Totals.OverheadTotal, 2400)
	assertClose(t, "overhead fixed", pl.Totals.OverheadFixed, 2400)
	assertClose(t, "depreciation", pl.Totals.Depreciation, 0)
	assertClose(t, "ebit", pl.Totals.EBIT, 2400)
	for i, m := range pl.Months {
		assertClose(t, "monthly ebit", m.EBIT, 200)
		expected := datetime.YearMonth{Year: 2025, Month: i + 1}
		if m.Year != expected.Year || m.Month != expected.Month {
			t.Errorf("month %d labelled %d-%02d, expected %s", i, m.Year, m.Month, expected)
		}
	}
}

func TestComputePLTaxes(t *testing.T) {
	s := baselineScenario(t)
	a := zeroWCAssumptions()
	a.TaxRatePct = 24

	pl, err := NewEngine(nil).ComputePL(s, a)
	if err != nil {
		t.Fatalf("ComputePL() error = %v", err)
	}
	assertClose(t, "monthly taxes", pl.Months[0].Taxes, 4)
	assertClose(t, "monthly net income", pl.Months[0].NetIncome, 196)
	assertClose(t, "total taxes", pl.Totals.Taxes, 48)
}

func TestComputePLLossMonthsPayNoTax(t *testing.T) {
	s := baselineScenario(t)
	s.Products[0].Volumes = s.Products[0].Volumes[:6]
	a := zeroWCAssumptions()
	a.TaxRatePct = 30

	pl, err := NewEngine(nil).ComputePL(s, a)
	if err != nil {
		t.Fatalf("ComputePL() error = %v", err)
	}
	for i := 6; i < 12; i++ {
		assertClose(t, "loss-month ebit", pl.Months[i].EBIT, -200)
		assertClose(t, "loss-month taxes", pl.Months[i].Taxes, 0)
	}
	// Profitable months are taxed in full; earlier losses are not carried forward.
	assertClose(t, "profitable-month taxes", pl.Months[0].Taxes, 200*0.30/12)
}

func capexScenario(t *testing.T) (Scenario, Assumptions) {
	t.Helper()
	s := baselineScenario(t)
	s.Capex = []CapexEntry{{AssetName: "Line", Year: 2025, Month: 1, Amount: 1200}}
	a := zeroWCAssumptions()
	a.DeprLifeYears = 1
	a.DeprStart = DeprStartSameMonth
	return s, a
}

func TestComputeFinanceFreeCashFlow(t *testing.T) {
	s, a := capexScenario(t)
	engine := NewEngine(zap.NewNop())

	pl, err := engine.ComputePL(s, a)
	if err != nil {
		t.Fatalf("ComputePL() error = %v", err)
	}
	assertClose(t, "monthly depreciation", pl.Months[0].Depreciation, 100)
	assertClose(t, "monthly ebit", pl.Months[0].EBIT, 100)

	fin, err := engine.ComputeFinance(s, pl, a)
	if err != nil {
		t.Fatalf("ComputeFinance() error = %v", err)
	}

	assertClose(t, "first month fcf", fin.MonthlySeries[0].FCF, -1000)
	for i := 1; i < 12; i++ {
		assertClose(t, "fcf", fin.MonthlySeries[i].FCF, 200)
	}
	for i, b := range fin.MonthlySeries {
		if b.EBIT != pl.Months[i].EBIT || b.Taxes != pl.Months[i].Taxes || b.Depreciation != pl.Months[i].Depreciation {
			t.Errorf("month %d finance view diverges from the P&L", i)
		}
	}
	assertClose(t, "npv", fin.NPV, 1200)
	assertClose(t, "t0", fin.T0, 0)
	if !fin.IRRFound {
		t.Fatal("expected an IRR for a series with a sign change")
	}
	if f := ProjectNPV(fin.T0, fin.Series(), fin.IRRMonthly); math.Abs(f) > 1e-6 {
		t.Errorf("NPV at IRR = %v, expected ~0", f)
	}
	assertClose(t, "annual irr", fin.IRRAnnual, AnnualizeMonthlyRate(fin.IRRMonthly))
}

func TestComputeFinanceT0CarveOut(t *testing.T) {
	s, a := capexScenario(t)
	a.TreatFirstCapexAsT0 = true

	proj, err := NewEngine(nil).Compute(s, a)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	fin := proj.Finance
	assertClose(t, "t0", fin.T0, -1200)
	for _, b := range fin.MonthlySeries {
		assertClose(t, "capex after carve-out", b.Capex, 0)
		assertClose(t, "fcf", b.FCF, 200)
	}
	// Depreciation is unaffected by where the outlay is discounted.
	assertClose(t, "depreciation", proj.PL.Totals.Depreciation, 1200)
	assertClose(t, "npv", fin.NPV, -1200+12*200)
}

func TestComputeFinanceProxyBasis(t *testing.T) {
	s, a := capexScenario(t)
	a.CashFlowBasis = BasisProxy

	proj, err := NewEngine(nil).Compute(s, a)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for _, b := range proj.Finance.MonthlySeries {
		if b.CashFlow != b.NetIncome {
			t.Fatalf("proxy basis should discount net income, got cash flow %v vs net income %v", b.CashFlow, b.NetIncome)
		}
	}
	assertClose(t, "proxy npv", proj.Finance.NPV, 12*100)
	if proj.Finance.CashFlowBasis != BasisProxy {
		t.Errorf("expected proxy basis to be reported, got %s", proj.Finance.CashFlowBasis)
	}
}

func TestComputeFinanceDiscountsWithWACC(t *testing.T) {
	s := baselineScenario(t)
	a := zeroWCAssumptions()
	a.WACCPct = 12

	proj, err := NewEngine(nil).Compute(s, a)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	r := math.Pow(1.12, 1.0/12) - 1
	expected := 0.0
	for i := 1; i <= 12; i++ {
		expected += 200 / math.Pow(1+r, float64(i))
	}
	assertClose(t, "monthly rate", proj.Finance.MonthlyRate, r)
	assertClose(t, "npv", proj.Finance.NPV, expected)
}

func TestComputeFinanceWorkingCapital(t *testing.T) {
	s := baselineScenario(t)
	a := zeroWCAssumptions()
	a.WorkingCapital = WorkingCapitalTerms{DSODays: 30, DPODays: 30, DIODays: 30}

	proj, err := NewEngine(nil).Compute(s, a)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	// NWC = revenue + cogs - cogs = 1000 every month.
	assertClose(t, "first month deltaWC", proj.Finance.MonthlySeries[0].DeltaWC, 1000)
	assertClose(t, "first month fcf", proj.Finance.MonthlySeries[0].FCF, 200-1000)
	for i := 1; i < 12; i++ {
		assertClose(t, "deltaWC", proj.Finance.MonthlySeries[i].DeltaWC, 0)
	}
}

func TestComputeFinanceLogsMissingIRR(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	engine := NewEngine(zap.New(core))

	proj, err := engine.Compute(baselineScenario(t), zeroWCAssumptions())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if proj.Finance.IRRFound {
		t.Error("an all-positive series should not report an IRR")
	}
	if proj.Finance.IRRMonthly != 0 || proj.Finance.IRRAnnual != 0 {
		t.Errorf("expected zero IRR values, got %v / %v", proj.Finance.IRRMonthly, proj.Finance.IRRAnnual)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.ContextMap()["op"] != "finance.ComputeFinance" {
		t.Errorf("unexpected op field %v", entry.ContextMap()["op"])
	}
}

func TestComputeFinanceRejectsMismatchedPL(t *testing.T) {
	s := baselineScenario(t)
	a := zeroWCAssumptions()
	engine := NewEngine(nil)
	pl, err := engine.ComputePL(s, a)
	if err != nil {
		t.Fatalf("ComputePL() error = %v", err)
	}
	pl.Months = pl.Months[:6]
	if _, err := engine.ComputeFinance(s, pl, a); err == nil {
		t.Error("expected error for a P&L that does not cover the horizon")
	}
}

func TestComputeConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario, *Assumptions)
		field  string
	}{
		{"Zero months", func(s *Scenario, _ *Assumptions) { s.Months = 0 }, "months"},
		{"Missing start date", func(s *Scenario, _ *Assumptions) { s.Start = time.Time{} }, "startDate"},
		{"NaN WACC", func(_ *Scenario, a *Assumptions) { a.WACCPct = math.NaN() }, "waccPct"},
		{"Infinite tax rate", func(_ *Scenario, a *Assumptions) { a.TaxRatePct = math.Inf(1) }, "taxRatePct"},
		{"Unknown basis", func(_ *Scenario, a *Assumptions) { a.CashFlowBasis = "ebitda" }, "cashFlowBasis"},
		{"Unknown start policy", func(_ *Scenario, a *Assumptions) { a.DeprStart = "later" }, "depreciationStart"},
		{"Negative DSO", func(_ *Scenario, a *Assumptions) { a.WorkingCapital.DSODays = -5 }, "dsoDays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baselineScenario(t)
			a := zeroWCAssumptions()
			tt.mutate(&s, &a)

			_, err := NewEngine(nil).Compute(s, a)
			var cfgErr *validation.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestComputeInputDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"Negative price", func(s *Scenario) { s.Products[0].Price = -1 }},
		{"NaN quantity", func(s *Scenario) { s.Products[0].Volumes[0].Quantity = math.NaN() }},
		{"Duplicate month", func(s *Scenario) {
			s.Products[0].Volumes = append(s.Products[0].Volumes, s.Products[0].Volumes[0])
		}},
		{"Percent overhead above one", func(s *Scenario) {
			s.Overheads = append(s.Overheads, Overhead{Name: "Royalty", Type: OverheadPercentOfRevenue, Amount: 5})
		}},
		{"Unknown overhead type", func(s *Scenario) { s.Overheads[0].Type = "weekly" }},
		{"Capex month out of range", func(s *Scenario) {
			s.Capex = []CapexEntry{{Year: 2025, Month: 13, Amount: 10}}
		}},
		{"Unsupported depreciation method", func(s *Scenario) {
			s.Capex = []CapexEntry{{Year: 2025, Month: 2, Amount: 10, DeprMethod: "declining_balance"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baselineScenario(t)
			tt.mutate(&s)

			_, err := NewEngine(nil).ComputePL(s, zeroWCAssumptions())
			var inputErr *validation.InputDataError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InputDataError, got %v", err)
			}
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	s, a := capexScenario(t)
	a.WACCPct = 8
	a.TaxRatePct = 21
	a.WorkingCapital = DefaultWorkingCapitalTerms()

	engine := NewEngine(nil)
	first, err := engine.Compute(s, a)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, err := engine.Compute(s, a)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if first.Finance.NPV != second.Finance.NPV || first.PL.Totals != second.PL.Totals {
		t.Error("repeated computations of the same inputs should be identical")
	}
}
