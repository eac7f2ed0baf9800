// Package finance implements the scenario projection engine: revenue and cost
// aggregation, overhead allocation, depreciation, working capital, the P&L
// and free-cash-flow composition, and NPV/IRR discounting.
package finance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/datetime"
	"github.com/iwvelando/business-case/pkg/validation"
)

// OverheadType selects how an overhead amount is applied to each month.
type OverheadType string

const (
	OverheadFixed            OverheadType = "fixed"
	OverheadPercentOfRevenue OverheadType = "percent_of_revenue"
)

// CashFlowBasis selects the series that gets discounted.
type CashFlowBasis string

const (
	// BasisFCF discounts free cash flow.
	BasisFCF CashFlowBasis = "fcf"
	// BasisProxy discounts net income. It omits the depreciation add-back and
	// the capex and working-capital deductions, so it is a simplified view and
	// not an equivalent cash-flow measure.
	BasisProxy CashFlowBasis = "proxy"
)

// DeprStartPolicy selects whether depreciation begins in the acquisition month
// or the month after.
type DeprStartPolicy string

const (
	DeprStartSameMonth DeprStartPolicy = "same"
	DeprStartNextMonth DeprStartPolicy = "next"
)

// DeprMethodStraightLine is the only supported depreciation method.
const DeprMethodStraightLine = "straight_line"

// Offset returns the month offset applied to each capex event.
func (p DeprStartPolicy) Offset() int {
	if p == DeprStartNextMonth {
		return 1
	}
	return 0
}

// MonthVolume is the quantity sold of one product in one calendar month.
type MonthVolume struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Quantity float64 `json:"quantity"`
}

// Product is a sellable item with a unit price, a unit cost and sparse
// monthly volumes.
type Product struct {
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	UnitCOGS float64       `json:"unit_cogs"`
	Active   bool          `json:"is_active"`
	Volumes  []MonthVolume `json:"months"`
}

// Overhead is applied uniformly to every month of the horizon. Amount is an
// absolute value for fixed overheads and a fraction in [0, 1] for
// percent-of-revenue overheads.
type Overhead struct {
	Name   string       `json:"name"`
	Type   OverheadType `json:"type"`
	Amount float64      `json:"amount"`
}

// CapexEntry is a capital outlay in an acquisition month. AssetName and
// Category are informational. SalvageValue is carried but does not reduce the
// depreciable base.
type CapexEntry struct {
	AssetName        string  `json:"asset_name,omitempty"`
	Category         string  `json:"category,omitempty"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	Amount           float64 `json:"amount"`
	UsefulLifeMonths int     `json:"useful_life_months,omitempty"`
	DeprMethod       string  `json:"depr_method,omitempty"`
	SalvageValue     float64 `json:"salvage_value,omitempty"`
}

// WorkingCapitalTerms holds the day-count assumptions. Only DSO, DPO and DIO
// affect the computation; the remaining fields are accepted for forward
// compatibility.
type WorkingCapitalTerms struct {
	DSODays            float64 `json:"dso_days"`
	DPODays            float64 `json:"dpo_days"`
	DIODays            float64 `json:"dio_days"`
	FreightPctOfSales  float64 `json:"freight_pct_of_sales,omitempty"`
	SafetyStockPctCOGS float64 `json:"safety_stock_pct_cogs,omitempty"`
	OtherWCFixed       float64 `json:"other_wc_fixed,omitempty"`
}

// DefaultWorkingCapitalTerms returns DSO=45, DPO=30, DIO=20.
func DefaultWorkingCapitalTerms() WorkingCapitalTerms {
	return WorkingCapitalTerms{
		DSODays: constants.DefaultDSODays,
		DPODays: constants.DefaultDPODays,
		DIODays: constants.DefaultDIODays,
	}
}

// Scenario is the immutable input snapshot of one projection.
type Scenario struct {
	Name      string       `json:"name"`
	Start     time.Time    `json:"start_date"`
	Months    int          `json:"months"`
	Products  []Product    `json:"products"`
	Overheads []Overhead   `json:"overheads"`
	Capex     []CapexEntry `json:"capex,omitempty"`
}

// Assumptions bundles the finance parameters applied to a scenario.
type Assumptions struct {
	WACCPct             float64             `json:"wacc_pct"`
	TaxRatePct          float64             `json:"tax_rate_pct"`
	CashFlowBasis       CashFlowBasis       `json:"cf_basis"`
	DeprLifeYears       float64             `json:"depr_life_years"`
	DeprStart           DeprStartPolicy     `json:"depr_start_policy"`
	TreatFirstCapexAsT0 bool                `json:"treat_first_as_t0"`
	WorkingCapital      WorkingCapitalTerms `json:"working_capital"`
}

// DefaultAssumptions returns the built-in assumption set.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		WACCPct:        constants.DefaultWACCPct,
		TaxRatePct:     constants.DefaultTaxRatePct,
		CashFlowBasis:  BasisFCF,
		DeprLifeYears:  constants.DefaultDepreciationLifeYears,
		DeprStart:      DeprStartNextMonth,
		WorkingCapital: DefaultWorkingCapitalTerms(),
	}
}

// LifeMonths converts the horizon-wide depreciation life to whole months.
func (a Assumptions) LifeMonths() int {
	return int(math.Round(a.DeprLifeYears * constants.MonthsPerYear))
}

// Validate reports the first ConfigurationError in the assumption set.
func (a Assumptions) Validate() error {
	if err := validation.ValidateWACC(a.WACCPct); err != nil {
		return err
	}
	if err := validation.ValidateTaxRate(a.TaxRatePct); err != nil {
		return err
	}
	switch a.CashFlowBasis {
	case BasisFCF, BasisProxy:
	default:
		return validation.NewConfigurationError("cashFlowBasis", string(a.CashFlowBasis), "expected fcf or proxy")
	}
	switch a.DeprStart {
	case DeprStartSameMonth, DeprStartNextMonth:
	default:
		return validation.NewConfigurationError("depreciationStart", string(a.DeprStart), "expected same or next")
	}
	if err := validation.ValidateFinite("depreciationLifeYears", a.DeprLifeYears); err != nil {
		return err
	}
	if a.DeprLifeYears < 0 {
		return validation.NewConfigurationError("depreciationLifeYears", formatFloat(a.DeprLifeYears), "cannot be negative")
	}
	terms := a.WorkingCapital
	if err := validation.ValidateDays("dsoDays", terms.DSODays); err != nil {
		return err
	}
	if err := validation.ValidateDays("dpoDays", terms.DPODays); err != nil {
		return err
	}
	return validation.ValidateDays("dioDays", terms.DIODays)
}

// Window validates the scenario's line items and returns its calendar window.
func (s Scenario) Window() (datetime.Window, error) {
	w, err := datetime.NewWindow(s.Start, s.Months)
	if err != nil {
		return datetime.Window{}, err
	}
	if err := s.validateItems(); err != nil {
		return datetime.Window{}, err
	}
	return w, nil
}

var (
	errNegative      = errors.New("value cannot be negative")
	errNotFinite     = errors.New("value must be finite")
	errInvalidMonth  = errors.New("month must be between 1 and 12")
	errDuplicateSlot = errors.New("duplicate volume for the same year and month")
	errFraction      = errors.New("percent-of-revenue overhead must be a fraction between 0 and 1")
)

func (s Scenario) validateItems() error {
	for i, p := range s.Products {
		field := fmt.Sprintf("products[%d]", i)
		if err := checkAmount(field+".price", p.Price); err != nil {
			return err
		}
		if err := checkAmount(field+".unitCogs", p.UnitCOGS); err != nil {
			return err
		}
		seen := make(map[datetime.YearMonth]struct{}, len(p.Volumes))
		for j, v := range p.Volumes {
			vField := fmt.Sprintf("%s.volumes[%d]", field, j)
			if v.Month < 1 || v.Month > constants.MonthsPerYear {
				return validation.NewInputDataError(vField+".month", strconv.Itoa(v.Month), errInvalidMonth)
			}
			if err := checkAmount(vField+".quantity", v.Quantity); err != nil {
				return err
			}
			key := datetime.YearMonth{Year: v.Year, Month: v.Month}
			if _, dup := seen[key]; dup {
				return validation.NewInputDataError(vField, key.String(), errDuplicateSlot)
			}
			seen[key] = struct{}{}
		}
	}

	for i, o := range s.Overheads {
		field := fmt.Sprintf("overheads[%d]", i)
		switch o.Type {
		case OverheadFixed:
			if math.IsNaN(o.Amount) || math.IsInf(o.Amount, 0) {
				return validation.NewInputDataError(field+".amount", formatFloat(o.Amount), errNotFinite)
			}
		case OverheadPercentOfRevenue:
			if !(o.Amount >= 0 && o.Amount <= 1) {
				return validation.NewInputDataError(field+".amount", formatFloat(o.Amount), errFraction)
			}
		default:
			return validation.NewInputDataError(field+".type", string(o.Type), fmt.Errorf("expected %s or %s", OverheadFixed, OverheadPercentOfRevenue))
		}
	}

	for i, c := range s.Capex {
		field := fmt.Sprintf("capex[%d]", i)
		if c.Month < 1 || c.Month > constants.MonthsPerYear {
			return validation.NewInputDataError(field+".month", strconv.Itoa(c.Month), errInvalidMonth)
		}
		if err := checkAmount(field+".amount", c.Amount); err != nil {
			return err
		}
		if c.UsefulLifeMonths < 0 {
			return validation.NewInputDataError(field+".usefulLifeMonths", strconv.Itoa(c.UsefulLifeMonths), errNegative)
		}
		if c.DeprMethod != "" && c.DeprMethod != DeprMethodStraightLine {
			return validation.NewInputDataError(field+".deprMethod", c.DeprMethod, fmt.Errorf("only %s is supported", DeprMethodStraightLine))
		}
	}
	return nil
}

func checkAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return validation.NewInputDataError(field, formatFloat(value), errNotFinite)
	}
	if value < 0 {
		return validation.NewInputDataError(field, formatFloat(value), errNegative)
	}
	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
