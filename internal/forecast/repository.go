package forecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/business-case/internal/config"
	"github.com/iwvelando/business-case/pkg/finance"
)

// ErrScenarioNotFound is returned when a repository has no scenario with the
// requested id.
var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioRepository supplies scenario inputs to the engine. Implementations
// own persistence; the engine only reads.
type ScenarioRepository interface {
	GetScenario(ctx context.Context, id string) (finance.Scenario, error)
	// GetTWCAssumptions returns nil when the scenario has no working-capital
	// assumptions of its own.
	GetTWCAssumptions(ctx context.Context, id string) (*finance.WorkingCapitalTerms, error)
}

// ConfigRepository serves scenarios from a loaded configuration. Scenario
// names are the ids.
type ConfigRepository struct {
	conf *config.Configuration
}

// NewConfigRepository wraps conf.
func NewConfigRepository(conf *config.Configuration) *ConfigRepository {
	return &ConfigRepository{conf: conf}
}

// GetScenario converts the named scenario into engine inputs.
func (r *ConfigRepository) GetScenario(ctx context.Context, id string) (finance.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return finance.Scenario{}, err
	}
	s, err := r.lookup(id)
	if err != nil {
		return finance.Scenario{}, err
	}
	return config.FinanceScenario(*s, r.conf.Common)
}

// GetTWCAssumptions resolves the named scenario's working-capital terms.
func (r *ConfigRepository) GetTWCAssumptions(ctx context.Context, id string) (*finance.WorkingCapitalTerms, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return config.ResolveWorkingCapital(*s, r.conf.Common), nil
}

// Assumptions resolves the named scenario's finance assumptions.
func (r *ConfigRepository) Assumptions(id string) (finance.Assumptions, error) {
	s, err := r.lookup(id)
	if err != nil {
		return finance.Assumptions{}, err
	}
	return config.ResolveAssumptions(*s, r.conf.Common), nil
}

func (r *ConfigRepository) lookup(id string) (*config.Scenario, error) {
	if r.conf == nil {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	s, ok := r.conf.FindScenario(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	return s, nil
}
