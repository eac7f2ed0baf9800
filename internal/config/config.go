// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/numeric"
	"github.com/iwvelando/business-case/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for business-case.
type Configuration struct {
	Common    Common        `yaml:"common,omitempty" mapstructure:"common"`
	Scenarios []Scenario    `yaml:"scenarios" mapstructure:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Common holds the assumptions and overheads shared between all scenarios.
type Common struct {
	Assumptions    AssumptionsConfig     `yaml:"assumptions,omitempty" mapstructure:"assumptions"`
	WorkingCapital *WorkingCapitalConfig `yaml:"workingCapital,omitempty" mapstructure:"workingCapital"`
	Overheads      []Overhead            `yaml:"overheads,omitempty" mapstructure:"overheads"`
}

// AssumptionsConfig holds the finance parameters. Unset fields fall through
// to the common block and then to the built-in defaults.
type AssumptionsConfig struct {
	WACCPct             *float64 `yaml:"waccPct,omitempty" mapstructure:"waccPct"`
	TaxRatePct          *float64 `yaml:"taxRatePct,omitempty" mapstructure:"taxRatePct"`
	CashFlowBasis       string   `yaml:"cashFlowBasis,omitempty" mapstructure:"cashFlowBasis"`
	DeprLifeYears       *float64 `yaml:"depreciationLifeYears,omitempty" mapstructure:"depreciationLifeYears"`
	DeprStart           string   `yaml:"depreciationStart,omitempty" mapstructure:"depreciationStart"`
	TreatFirstCapexAsT0 *bool    `yaml:"treatFirstCapexAsT0,omitempty" mapstructure:"treatFirstCapexAsT0"`
}

// WorkingCapitalConfig holds the working-capital day counts.
type WorkingCapitalConfig struct {
	DSODays            *float64 `yaml:"dsoDays,omitempty" mapstructure:"dsoDays"`
	DPODays            *float64 `yaml:"dpoDays,omitempty" mapstructure:"dpoDays"`
	DIODays            *float64 `yaml:"dioDays,omitempty" mapstructure:"dioDays"`
	FreightPctOfSales  *float64 `yaml:"freightPctOfSales,omitempty" mapstructure:"freightPctOfSales"`
	SafetyStockPctCOGS *float64 `yaml:"safetyStockPctCogs,omitempty" mapstructure:"safetyStockPctCogs"`
	OtherWCFixed       *float64 `yaml:"otherWcFixed,omitempty" mapstructure:"otherWcFixed"`
}

// Scenario holds the products, overheads and capex plan of one business case.
type Scenario struct {
	Name           string                `yaml:"name" mapstructure:"name"`
	Active         bool                  `yaml:"active" mapstructure:"active"`
	StartDate      string                `yaml:"startDate" mapstructure:"startDate"`
	Months         int                   `yaml:"months" mapstructure:"months"`
	Assumptions    AssumptionsConfig     `yaml:"assumptions,omitempty" mapstructure:"assumptions"`
	WorkingCapital *WorkingCapitalConfig `yaml:"workingCapital,omitempty" mapstructure:"workingCapital"`
	Products       []Product             `yaml:"products,omitempty" mapstructure:"products"`
	Overheads      []Overhead            `yaml:"overheads,omitempty" mapstructure:"overheads"`
	Capex          []Capex               `yaml:"capex,omitempty" mapstructure:"capex"`
	GoalSeek       *GoalSeekConfig       `yaml:"goalSeek,omitempty" mapstructure:"goalSeek"`
}

// Product is a sellable item with sparse monthly volumes.
type Product struct {
	Name        string             `yaml:"name" mapstructure:"name"`
	Price       float64            `yaml:"price" mapstructure:"price"`
	UnitCOGS    float64            `yaml:"unitCogs" mapstructure:"unitCogs"`
	Active      *bool              `yaml:"active,omitempty" mapstructure:"active"`
	Volumes     []Volume           `yaml:"volumes,omitempty" mapstructure:"volumes"`
	Extrapolate *ExtrapolateConfig `yaml:"extrapolate,omitempty" mapstructure:"extrapolate"`
}

// IsActive reports the product flag, defaulting to true.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Volume is the quantity of a product sold in one calendar month.
type Volume struct {
	Year     int     `yaml:"year" mapstructure:"year"`
	Month    int     `yaml:"month" mapstructure:"month"`
	Quantity float64 `yaml:"quantity" mapstructure:"quantity"`
}

// ExtrapolateConfig fills months after the first entered volume.
type ExtrapolateConfig struct {
	Mode             string  `yaml:"mode" mapstructure:"mode"` // constant, growth
	MonthlyGrowthPct float64 `yaml:"monthlyGrowthPct,omitempty" mapstructure:"monthlyGrowthPct"`
}

// Overhead is a monthly cost. Fixed overheads use Amount; percent-of-revenue
// overheads use Percent in percentage points.
type Overhead struct {
	Name    string   `yaml:"name" mapstructure:"name"`
	Type    string   `yaml:"type" mapstructure:"type"` // fixed, percent_of_revenue
	Amount  float64  `yaml:"amount,omitempty" mapstructure:"amount"`
	Percent *float64 `yaml:"percent,omitempty" mapstructure:"percent"`
}

// Capex is a capital outlay in an acquisition month.
type Capex struct {
	AssetName        string  `yaml:"assetName,omitempty" mapstructure:"assetName"`
	Category         string  `yaml:"category,omitempty" mapstructure:"category"`
	Year             int     `yaml:"year" mapstructure:"year"`
	Month            int     `yaml:"month" mapstructure:"month"`
	Amount           float64 `yaml:"amount" mapstructure:"amount"`
	UsefulLifeMonths int     `yaml:"usefulLifeMonths,omitempty" mapstructure:"usefulLifeMonths"`
	DeprMethod       string  `yaml:"deprMethod,omitempty" mapstructure:"deprMethod"`
	SalvageValue     float64 `yaml:"salvageValue,omitempty" mapstructure:"salvageValue"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		strictNumberHook(),
		timeToStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, validation.NewInputDataError("config", "", err)
	}
	return &configuration, nil
}

// strictNumberHook routes string values bound for numeric fields through
// numeric.ParseDecimal so that blanks and text are rejected instead of being
// coerced to zero.
func strictNumberHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		switch to.Kind() {
		case reflect.Float32, reflect.Float64:
			return numeric.ParseDecimal(data)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			parsed, err := numeric.ParseDecimal(data)
			if err != nil {
				return nil, err
			}
			if parsed != float64(int64(parsed)) {
				return nil, fmt.Errorf("value %q is not a whole number", data)
			}
			return int64(parsed), nil
		default:
			return data, nil
		}
	}
}

// timeToStringHook keeps unquoted YAML dates such as 2025-01-01 usable as
// start-date strings when the parser resolves them to timestamps.
func timeToStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.String {
			return data, nil
		}
		if t, ok := data.(time.Time); ok {
			return t.Format(constants.DayDateTimeLayout), nil
		}
		return data, nil
	}
}

// ActiveScenarios returns the scenarios flagged active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// FindScenario returns the scenario with the given name.
func (c *Configuration) FindScenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}
