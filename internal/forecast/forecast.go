// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"context"
	"fmt"

	"github.com/iwvelando/business-case/internal/config"
	"github.com/iwvelando/business-case/pkg/finance"
	"github.com/iwvelando/business-case/pkg/optimization"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific scenario projection.
type Forecast struct {
	Name        string              `json:"name"`
	StartDate   string              `json:"startDate"`
	Months      int                 `json:"months"`
	Assumptions finance.Assumptions `json:"assumptions"`
	Projection  finance.Projection  `json:"projection"`
	Metrics     Metrics             `json:"metrics"`
}

// Metrics holds derived results attached after the projection runs.
type Metrics struct {
	GoalSeek []optimization.Summary `json:"goalSeek,omitempty"`
}

// Compute loads scenario id from repo and runs the engine. Working-capital
// terms from the repository replace those in a; when the repository has none,
// a is used unchanged.
func Compute(ctx context.Context, engine *finance.Engine, repo ScenarioRepository, id string, a finance.Assumptions) (finance.Projection, error) {
	scenario, err := repo.GetScenario(ctx, id)
	if err != nil {
		return finance.Projection{}, err
	}
	terms, err := repo.GetTWCAssumptions(ctx, id)
	if err != nil {
		return finance.Projection{}, err
	}
	if terms != nil {
		a.WorkingCapital = *terms
	}
	return engine.Compute(scenario, a)
}

// GetForecast processes the Forecasts for all active Scenarios.
func GetForecast(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := finance.NewEngine(logger)
	repo := NewConfigRepository(&conf)

	var results []Forecast
	for _, scenario := range conf.Scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}

		assumptions, err := repo.Assumptions(scenario.Name)
		if err != nil {
			return results, err
		}
		projection, err := Compute(ctx, engine, repo, scenario.Name, assumptions)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		results = append(results, Forecast{
			Name:        scenario.Name,
			StartDate:   scenario.StartDate,
			Months:      scenario.Months,
			Assumptions: assumptions,
			Projection:  projection,
		})
	}

	return results, nil
}
