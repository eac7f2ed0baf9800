// Package optimizer runs goal-seek directives: it searches one scenario input
// for the value that brings the projected NPV to a target.
package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/iwvelando/business-case/internal/config"
	"github.com/iwvelando/business-case/internal/forecast"
	"github.com/iwvelando/business-case/pkg/finance"
	formatutil "github.com/iwvelando/business-case/pkg/format"
	"github.com/iwvelando/business-case/pkg/optimization"
	"go.uber.org/zap"
)

type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
	engine *finance.Engine
}

type seekTarget struct {
	scenarioIndex int
	productIndex  int
	scenarioName  string
	cfg           *config.GoalSeekConfig
	field         string
	original      float64
}

type evaluation struct {
	value float64
	npv   float64
	gap   float64
}

// Result summarizes goal-seek adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any goal-seek adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches goal-seek summaries to the provided forecast results.
func (r Result) Apply(forecasts []forecast.Forecast) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range forecasts {
		summaries, ok := r.Summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		metrics := forecasts[i].Metrics
		metrics.GoalSeek = append(metrics.GoalSeek, summaries...)
		forecasts[i].Metrics = metrics
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// Trial evaluations run silently; the final forecast logs its own warnings.
	return &Runner{logger: logger, conf: conf, engine: finance.NewEngine(zap.NewNop())}, nil
}

// Run executes all goal-seek directives and mutates the configuration in place
// so later forecasts use the solved values.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, target := range targets {
		summary, err := r.seek(ctx, target)
		if err != nil {
			return nil, err
		}
		summaries[target.scenarioName] = append(summaries[target.scenarioName], summary)

		r.logger.Info("goal seek adjusted scenario input",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", target.scenarioName),
			zap.String("target", summary.TargetName),
			zap.String("field", target.field),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Float64("targetNPV", summary.TargetNPV),
			zap.Float64("achievedNPV", summary.AchievedNPV),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]seekTarget, error) {
	var targets []seekTarget

	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.GoalSeek == nil {
			continue
		}
		cfg := scenario.GoalSeek
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		target := seekTarget{
			scenarioIndex: i,
			productIndex:  -1,
			scenarioName:  scenario.Name,
			cfg:           cfg,
			field:         cfg.Field,
		}
		if cfg.Field == config.GoalSeekFieldPrice || cfg.Field == config.GoalSeekFieldUnitCOGS {
			for j := range scenario.Products {
				if scenario.Products[j].Name == cfg.Product {
					target.productIndex = j
					break
				}
			}
			if target.productIndex < 0 {
				return nil, fmt.Errorf("scenario %s: goal seek product %q not found", scenario.Name, cfg.Product)
			}
		}
		target.original = r.getFieldValue(target)
		targets = append(targets, target)
	}

	return targets, nil
}

func (r *Runner) seek(ctx context.Context, target seekTarget) (optimization.Summary, error) {
	cfg := target.cfg
	minVal, maxVal := *cfg.Min, *cfg.Max

	summary := optimization.Summary{
		Scope:           "scenario",
		TargetName:      r.targetName(target),
		Field:           target.field,
		Original:        target.original,
		OriginalDisplay: formatFieldDisplay(target.field, target.original),
		TargetNPV:       cfg.TargetNPV,
	}
	finish := func(eval evaluation) optimization.Summary {
		r.setFieldValue(target, eval.value)
		summary.Value = eval.value
		summary.ValueDisplay = formatFieldDisplay(target.field, eval.value)
		summary.AchievedNPV = eval.npv
		summary.Gap = eval.gap
		return summary
	}

	lowerEval, err := r.evaluate(ctx, target, minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(ctx, target, maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}

	if math.Abs(lowerEval.gap) <= cfg.Tolerance {
		summary.Converged = true
		return finish(lowerEval), nil
	}
	if math.Abs(upperEval.gap) <= cfg.Tolerance {
		summary.Converged = true
		return finish(upperEval), nil
	}

	if math.Signbit(lowerEval.gap) == math.Signbit(upperEval.gap) {
		closest := upperEval
		if math.Abs(lowerEval.gap) < math.Abs(upperEval.gap) {
			closest = lowerEval
		}
		summary.Notes = []string{fmt.Sprintf(
			"unable to reach NPV %s within bounds %s to %s",
			formatutil.Currency(cfg.TargetNPV),
			formatFieldDisplay(target.field, minVal),
			formatFieldDisplay(target.field, maxVal),
		)}
		return finish(closest), nil
	}

	lower, upper := lowerEval, upperEval
	best := lowerEval
	if math.Abs(upperEval.gap) < math.Abs(lowerEval.gap) {
		best = upperEval
	}
	iterations := 0
	for iterations < cfg.MaxIterations {
		mid := lower.value + (upper.value-lower.value)/2
		evalMid, err := r.evaluate(ctx, target, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if math.Abs(evalMid.gap) < math.Abs(best.gap) {
			best = evalMid
		}
		if math.Abs(evalMid.gap) <= cfg.Tolerance {
			summary.Converged = true
			break
		}
		if math.Signbit(evalMid.gap) == math.Signbit(lower.gap) {
			lower = evalMid
		} else {
			upper = evalMid
		}
	}

	summary.Iterations = iterations
	if !summary.Converged {
		summary.Notes = []string{fmt.Sprintf("NPV target not reached within %d iterations", cfg.MaxIterations)}
	}
	return finish(best), nil
}

func (r *Runner) evaluate(ctx context.Context, target seekTarget, value float64) (evaluation, error) {
	restore := r.setFieldValue(target, value)
	defer restore()

	scenario := r.conf.Scenarios[target.scenarioIndex]
	repo := forecast.NewConfigRepository(r.conf)
	assumptions := config.ResolveAssumptions(scenario, r.conf.Common)
	projection, err := forecast.Compute(ctx, r.engine, repo, scenario.Name, assumptions)
	if err != nil {
		return evaluation{}, fmt.Errorf("goal seek evaluation failed for scenario %s: %w", scenario.Name, err)
	}

	npv := projection.Finance.NPV
	return evaluation{value: value, npv: npv, gap: npv - target.cfg.TargetNPV}, nil
}

func (r *Runner) targetName(target seekTarget) string {
	if target.productIndex >= 0 {
		return r.conf.Scenarios[target.scenarioIndex].Products[target.productIndex].Name
	}
	return target.scenarioName
}

func (r *Runner) getFieldValue(target seekTarget) float64 {
	scenario := &r.conf.Scenarios[target.scenarioIndex]
	switch target.field {
	case config.GoalSeekFieldPrice:
		return scenario.Products[target.productIndex].Price
	case config.GoalSeekFieldUnitCOGS:
		return scenario.Products[target.productIndex].UnitCOGS
	default:
		return config.ResolveAssumptions(*scenario, r.conf.Common).WACCPct
	}
}

// setFieldValue writes value into the scenario and returns a func restoring
// the previous state.
func (r *Runner) setFieldValue(target seekTarget, value float64) func() {
	scenario := &r.conf.Scenarios[target.scenarioIndex]
	switch target.field {
	case config.GoalSeekFieldPrice:
		product := &scenario.Products[target.productIndex]
		previous := product.Price
		product.Price = value
		return func() { product.Price = previous }
	case config.GoalSeekFieldUnitCOGS:
		product := &scenario.Products[target.productIndex]
		previous := product.UnitCOGS
		product.UnitCOGS = value
		return func() { product.UnitCOGS = previous }
	default:
		previous := scenario.Assumptions.WACCPct
		v := value
		scenario.Assumptions.WACCPct = &v
		return func() { scenario.Assumptions.WACCPct = previous }
	}
}

func formatFieldDisplay(field string, value float64) string {
	switch field {
	case config.GoalSeekFieldPrice, config.GoalSeekFieldUnitCOGS:
		return formatutil.Currency(value)
	default:
		return fmt.Sprintf("%.2f%%", value)
	}
}
