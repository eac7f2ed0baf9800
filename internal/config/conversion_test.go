package config

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/business-case/pkg/finance"
	"github.com/iwvelando/business-case/pkg/validation"
)

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func TestFinanceScenario(t *testing.T) {
	common := Common{
		Overheads: []Overhead{{Name: "Rent", Type: "fixed", Amount: 200}},
	}
	scenario := Scenario{
		Name:      "Base",
		Active:    true,
		StartDate: "2025-03-15",
		Months:    6,
		Products: []Product{
			{
				Name:     "Widget",
				Price:    10,
				UnitCOGS: 6,
				Volumes:  []Volume{{Year: 2025, Month: 4, Quantity: 100}},
				Extrapolate: &ExtrapolateConfig{
					Mode: "Constant",
				},
			},
			{Name: "Legacy", Price: 5, Active: boolPtr(false)},
		},
		Overheads: []Overhead{{Name: "Commission", Type: "percent_of_revenue", Percent: floatPtr(5)}},
		Capex: []Capex{
			{AssetName: "Press", Year: 2025, Month: 3, Amount: 1200, UsefulLifeMonths: 12, SalvageValue: 100},
		},
	}

	got, err := FinanceScenario(scenario, common)
	if err != nil {
		t.Fatalf("FinanceScenario() error = %v", err)
	}

	if got.Start.Day() != 1 || got.Start.Month() != 3 || got.Start.Year() != 2025 {
		t.Errorf("start = %v, want 2025-03-01", got.Start)
	}
	if got.Months != 6 || got.Name != "Base" {
		t.Errorf("months/name = %d/%s", got.Months, got.Name)
	}

	// April through August are filled from the April entry.
	if n := len(got.Products[0].Volumes); n != 5 {
		t.Errorf("Widget volumes = %d, want 5", n)
	}
	if got.Products[1].Active {
		t.Error("Legacy product should be inactive")
	}

	if len(got.Overheads) != 2 {
		t.Fatalf("overheads = %d, want 2", len(got.Overheads))
	}
	if got.Overheads[0].Name != "Rent" || got.Overheads[0].Type != finance.OverheadFixed {
		t.Errorf("common overhead should come first, got %+v", got.Overheads[0])
	}
	if got.Overheads[1].Type != finance.OverheadPercentOfRevenue || math.Abs(got.Overheads[1].Amount-0.05) > 1e-12 {
		t.Errorf("percent overhead = %+v, want fraction 0.05", got.Overheads[1])
	}

	if len(got.Capex) != 1 || got.Capex[0].UsefulLifeMonths != 12 || got.Capex[0].SalvageValue != 100 {
		t.Errorf("capex = %+v", got.Capex)
	}
}

func TestFinanceScenarioErrors(t *testing.T) {
	tests := []struct {
		name       string
		scenario   Scenario
		wantConfig bool
		wantInput  bool
	}{
		{
			name:       "Invalid start date",
			scenario:   Scenario{Name: "Bad", StartDate: "2025/01", Months: 12},
			wantConfig: true,
		},
		{
			name:       "Missing start date",
			scenario:   Scenario{Name: "Bad", Months: 12},
			wantConfig: true,
		},
		{
			name:       "Zero months",
			scenario:   Scenario{Name: "Bad", StartDate: "2025-01", Months: 0},
			wantConfig: true,
		},
		{
			name: "Unknown extrapolation mode",
			scenario: Scenario{
				Name:      "Bad",
				StartDate: "2025-01",
				Months:    12,
				Products: []Product{{
					Name:        "Widget",
					Volumes:     []Volume{{Year: 2025, Month: 1, Quantity: 1}},
					Extrapolate: &ExtrapolateConfig{Mode: "seasonal"},
				}},
			},
			wantInput: true,
		},
		{
			name: "Duplicate volume with extrapolation",
			scenario: Scenario{
				Name:      "Bad",
				StartDate: "2025-01",
				Months:    3,
				Products: []Product{{
					Name:  "Widget",
					Price: 10,
					Volumes: []Volume{
						{Year: 2025, Month: 1, Quantity: 100},
						{Year: 2025, Month: 1, Quantity: 999},
					},
					Extrapolate: &ExtrapolateConfig{Mode: "constant"},
				}},
			},
			wantInput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FinanceScenario(tt.scenario, Common{})
			if err == nil {
				t.Fatal("expected error but got none")
			}
			var configErr *validation.ConfigurationError
			var inputErr *validation.InputDataError
			if tt.wantConfig && !errors.As(err, &configErr) {
				t.Errorf("expected ConfigurationError, got %T: %v", err, err)
			}
			if tt.wantInput && !errors.As(err, &inputErr) {
				t.Errorf("expected InputDataError, got %T: %v", err, err)
			}
		})
	}
}

func TestOverheadFractionPassthrough(t *testing.T) {
	o := Overhead{Name: "Royalty", Type: "percent_of_revenue", Amount: 0.03}
	got := o.toFinance()
	if got.Amount != 0.03 {
		t.Errorf("amount = %v, want 0.03 when percent is unset", got.Amount)
	}
}

func TestResolveAssumptions(t *testing.T) {
	tests := []struct {
		name     string
		common   Common
		scenario Scenario
		expected finance.Assumptions
	}{
		{
			name:     "Defaults",
			expected: finance.DefaultAssumptions(),
		},
		{
			name: "Common overrides defaults",
			common: Common{Assumptions: AssumptionsConfig{
				WACCPct:       floatPtr(8),
				CashFlowBasis: "PROXY",
			}},
			expected: func() finance.Assumptions {
				a := finance.DefaultAssumptions()
				a.WACCPct = 8
				a.CashFlowBasis = finance.BasisProxy
				return a
			}(),
		},
		{
			name: "Scenario overrides common",
			common: Common{Assumptions: AssumptionsConfig{
				WACCPct:    floatPtr(8),
				TaxRatePct: floatPtr(30),
			}},
			scenario: Scenario{Assumptions: AssumptionsConfig{
				WACCPct:             floatPtr(12),
				DeprLifeYears:       floatPtr(3),
				DeprStart:           "same",
				TreatFirstCapexAsT0: boolPtr(true),
			}},
			expected: func() finance.Assumptions {
				a := finance.DefaultAssumptions()
				a.WACCPct = 12
				a.TaxRatePct = 30
				a.DeprLifeYears = 3
				a.DeprStart = finance.DeprStartSameMonth
				a.TreatFirstCapexAsT0 = true
				return a
			}(),
		},
		{
			name:     "Explicit zero tax is kept",
			scenario: Scenario{Assumptions: AssumptionsConfig{TaxRatePct: floatPtr(0)}},
			expected: func() finance.Assumptions {
				a := finance.DefaultAssumptions()
				a.TaxRatePct = 0
				return a
			}(),
		},
		{
			name:     "Working capital from scenario",
			scenario: Scenario{WorkingCapital: &WorkingCapitalConfig{DSODays: floatPtr(60)}},
			expected: func() finance.Assumptions {
				a := finance.DefaultAssumptions()
				a.WorkingCapital.DSODays = 60
				return a
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAssumptions(tt.scenario, tt.common)
			if got != tt.expected {
				t.Errorf("ResolveAssumptions() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestResolveWorkingCapital(t *testing.T) {
	if got := ResolveWorkingCapital(Scenario{}, Common{}); got != nil {
		t.Errorf("expected nil terms when nothing is configured, got %+v", got)
	}

	common := Common{WorkingCapital: &WorkingCapitalConfig{DSODays: floatPtr(30), DIODays: floatPtr(10)}}
	scenario := Scenario{WorkingCapital: &WorkingCapitalConfig{DIODays: floatPtr(0), FreightPctOfSales: floatPtr(2)}}

	got := ResolveWorkingCapital(scenario, common)
	if got == nil {
		t.Fatal("expected terms")
	}
	expected := finance.WorkingCapitalTerms{DSODays: 30, DPODays: 30, DIODays: 0, FreightPctOfSales: 2}
	if *got != expected {
		t.Errorf("ResolveWorkingCapital() = %+v, want %+v", *got, expected)
	}
}
