package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/business-case/pkg/constants"
)

const (
	GoalSeekFieldPrice    = "price"
	GoalSeekFieldUnitCOGS = "unitCogs"
	GoalSeekFieldWACC     = "waccPct"
)

// GoalSeekConfig defines a single-parameter search for a target NPV.
type GoalSeekConfig struct {
	Field         string   `yaml:"field,omitempty" mapstructure:"field" json:"field,omitempty"`
	Product       string   `yaml:"product,omitempty" mapstructure:"product" json:"product,omitempty"`
	TargetNPV     float64  `yaml:"targetNPV,omitempty" mapstructure:"targetNPV" json:"targetNPV"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min" json:"min,omitempty"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max" json:"max,omitempty"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance" json:"tolerance,omitempty"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations" json:"maxIterations,omitempty"`
}

// CanonicalGoalSeekField returns the canonical identifier for a goal-seek field.
func CanonicalGoalSeekField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return GoalSeekFieldPrice
	}
	switch strings.ToLower(trimmed) {
	case "price":
		return GoalSeekFieldPrice
	case "unitcogs", "unit_cogs", "unit-cogs":
		return GoalSeekFieldUnitCOGS
	case "waccpct", "wacc_pct", "wacc":
		return GoalSeekFieldWACC
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (g *GoalSeekConfig) Normalize() {
	if g == nil {
		return
	}
	g.Field = CanonicalGoalSeekField(g.Field)
	g.Product = strings.TrimSpace(g.Product)
	if g.Tolerance <= 0 {
		g.Tolerance = constants.DefaultGoalSeekTolerance
	}
	if g.MaxIterations <= 0 {
		g.MaxIterations = constants.DefaultGoalSeekIterations
	}
}

// Validate returns an error when the goal-seek configuration is unsupported.
func (g *GoalSeekConfig) Validate() error {
	if g == nil {
		return fmt.Errorf("goal seek configuration cannot be nil")
	}

	g.Normalize()

	switch g.Field {
	case GoalSeekFieldPrice, GoalSeekFieldUnitCOGS:
		if g.Product == "" {
			return fmt.Errorf("goal seek field %s requires a product", g.Field)
		}
	case GoalSeekFieldWACC:
	default:
		return fmt.Errorf("goal seek field %q is not supported", g.Field)
	}

	if g.Min == nil {
		return fmt.Errorf("goal seek requires a minimum bound")
	}
	if g.Max == nil {
		return fmt.Errorf("goal seek requires a maximum bound")
	}
	if *g.Min >= *g.Max {
		return fmt.Errorf("goal seek minimum %.4f must be less than maximum %.4f", *g.Min, *g.Max)
	}
	return nil
}
