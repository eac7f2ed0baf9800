// Package configprocessor provides shared configuration processing utilities.
package configprocessor

import (
	"fmt"

	"github.com/iwvelando/business-case/pkg/datetime"
)

// ProductInfo represents product configuration information
type ProductInfo struct {
	Name    string
	Active  bool
	Volumes []datetime.YearMonth
}

// CapexInfo represents capex configuration information. LifeMonths is the
// resolved useful life (per-asset or horizon-wide).
type CapexInfo struct {
	AssetName    string
	Year         int
	Month        int
	LifeMonths   int
	SalvageValue float64
}

// ScenarioInfo represents scenario configuration information
type ScenarioInfo struct {
	Name       string
	Active     bool
	StartDate  string
	Months     int
	DeprOffset int
	Products   []ProductInfo
	Capex      []CapexInfo
	// UnusedWorkingCapital names working-capital fields that are set but do
	// not affect the computation.
	UnusedWorkingCapital []string
}

// Processor handles configuration processing and validation
type Processor struct{}

// NewProcessor creates a new configuration processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateConfiguration validates the configuration and returns warnings.
// Nothing reported here stops a computation; hard failures surface from the
// engine as typed errors.
func (p *Processor) ValidateConfiguration(scenarios []ScenarioInfo) []string {
	var warnings []string

	active := 0
	for _, scenario := range scenarios {
		if !scenario.Active {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is inactive and will be skipped", scenario.Name))
			continue
		}
		active++

		w, err := datetime.ParseWindow(scenario.StartDate, scenario.Months)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' window cannot be resolved: %v", scenario.Name, err))
			continue
		}

		for _, product := range scenario.Products {
			if !product.Active {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' product '%s' is inactive but still contributes to revenue", scenario.Name, product.Name))
			}
			outside := 0
			for _, ym := range product.Volumes {
				if !w.InWindow(ym.Year, ym.Month) {
					outside++
				}
			}
			if outside > 0 {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' product '%s' has %d volume entries outside %s..%s that will be ignored",
					scenario.Name, product.Name, outside, w.Start(), w.At(w.Len()-1)))
			}
		}

		for _, capex := range scenario.Capex {
			ym := datetime.YearMonth{Year: capex.Year, Month: capex.Month}
			if !w.InWindow(capex.Year, capex.Month) {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' capex '%s' in %s is outside the scenario window and will be ignored", scenario.Name, capex.AssetName, ym))
				continue
			}
			if capex.LifeMonths > 0 {
				end := w.MonthIndex(capex.Year, capex.Month) + scenario.DeprOffset + capex.LifeMonths
				if end > w.Len() {
					warnings = append(warnings, fmt.Sprintf("Scenario '%s' capex '%s' depreciates past the horizon; %d of %d months fall outside",
						scenario.Name, capex.AssetName, end-w.Len(), capex.LifeMonths))
				}
			}
			if capex.SalvageValue != 0 {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' capex '%s' salvage value is not deducted from the depreciable base", scenario.Name, capex.AssetName))
			}
		}

		for _, field := range scenario.UnusedWorkingCapital {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' working capital field '%s' has no effect on the projection", scenario.Name, field))
		}
	}

	if len(scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No active scenarios; nothing will be computed")
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
