package config

import (
	"github.com/iwvelando/business-case/pkg/configprocessor"
	"github.com/iwvelando/business-case/pkg/datetime"
)

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var scenarios []configprocessor.ScenarioInfo
	for _, scenario := range c.Scenarios {
		assumptions := ResolveAssumptions(scenario, c.Common)

		info := configprocessor.ScenarioInfo{
			Name:       scenario.Name,
			Active:     scenario.Active,
			StartDate:  scenario.StartDate,
			Months:     scenario.Months,
			DeprOffset: assumptions.DeprStart.Offset(),
		}
		for _, product := range scenario.Products {
			var volumes []datetime.YearMonth
			for _, v := range product.Volumes {
				volumes = append(volumes, datetime.YearMonth{Year: v.Year, Month: v.Month})
			}
			info.Products = append(info.Products, configprocessor.ProductInfo{
				Name:    product.Name,
				Active:  product.IsActive(),
				Volumes: volumes,
			})
		}
		for _, capex := range scenario.Capex {
			life := capex.UsefulLifeMonths
			if life <= 0 {
				life = assumptions.LifeMonths()
			}
			info.Capex = append(info.Capex, configprocessor.CapexInfo{
				AssetName:    capex.AssetName,
				Year:         capex.Year,
				Month:        capex.Month,
				LifeMonths:   life,
				SalvageValue: capex.SalvageValue,
			})
		}
		info.UnusedWorkingCapital = append(unusedWorkingCapital(c.Common.WorkingCapital), unusedWorkingCapital(scenario.WorkingCapital)...)

		scenarios = append(scenarios, info)
	}

	processor := configprocessor.NewProcessor()
	return processor.ValidateConfiguration(scenarios)
}

func unusedWorkingCapital(wc *WorkingCapitalConfig) []string {
	if wc == nil {
		return nil
	}
	var fields []string
	if wc.FreightPctOfSales != nil {
		fields = append(fields, "freightPctOfSales")
	}
	if wc.SafetyStockPctCOGS != nil {
		fields = append(fields, "safetyStockPctCogs")
	}
	if wc.OtherWCFixed != nil {
		fields = append(fields, "otherWcFixed")
	}
	return fields
}
