package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gkquad/internal/analysis"
	"github.com/san-kum/gkquad/internal/config"
	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/integrands"
	"github.com/san-kum/gkquad/internal/quad"
	"github.com/san-kum/gkquad/internal/storage"
)

// Scenario is a scripted sequence of integrations.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a run file plus step options. Fields left out of the YAML
// take the config package defaults.
type ScenarioStep struct {
	config.Config `yaml:",inline"`
	Save          bool `yaml:"save"`
}

func (s *ScenarioStep) UnmarshalYAML(n *yaml.Node) error {
	type plain ScenarioStep
	p := plain{Config: *config.DefaultConfig()}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = ScenarioStep(p)
	return nil
}

// LoadScenario loads a scenario from a YAML file and validates every step.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	for i := range scenario.Steps {
		if err := scenario.Steps[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s step %d: %w", path, i+1, err)
		}
	}
	return &scenario, nil
}

// RunScenario executes all steps in order. Steps marked save are written to
// st when it is non-nil. Guard trips do not stop the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, progress io.Writer) ([]*experiment.Outcome, error) {
	if progress == nil {
		progress = io.Discard
	}
	outcomes := make([]*experiment.Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(progress, "step %d/%d: %s\n", i+1, len(scenario.Steps), step.Integrand)

		cfg, err := experiment.FromConfig(registry, &step.Config)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(registry, cfg)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}
		outcomes = append(outcomes, out)

		if step.Save && st != nil {
			id, err := st.Save(out)
			if err != nil {
				return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
			}
			fmt.Fprintf(progress, "  saved %s\n", id)
		}
	}

	return outcomes, nil
}

// ParameterSweep integrates one integrand across evenly spaced values of a
// single parameter. The swept value overrides Params; Lower == Upper selects
// the integrand's own interval.
type ParameterSweep struct {
	Integrand string
	Lower     float64
	Upper     float64
	Params    integrands.Params
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Tolerance float64
	Quad      quad.Config
}

type SweepResult struct {
	ParamValue  float64
	Value       float64
	AbsErr      float64
	TrueErr     float64
	Evaluations int64
	Converged   bool
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, progress io.Writer) ([]SweepResult, error) {
	if progress == nil {
		progress = io.Discard
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	in, err := registry.Get(sweep.Integrand)
	if err != nil {
		return nil, err
	}
	if _, ok := in.Defaults[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("%w: %s has no parameter %q", integrands.ErrUnknownParam, sweep.Integrand, sweep.ParamName)
	}

	lo, hi := sweep.Lower, sweep.Upper
	if lo == hi {
		lo, hi = in.Lower, in.Upper
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		params := sweep.Params.Clone()
		params[sweep.ParamName] = paramVal

		exp, err := experiment.New(registry, experiment.Config{
			Integrand: sweep.Integrand,
			Lower:     lo,
			Upper:     hi,
			Tolerance: sweep.Tolerance,
			Params:    params,
			Quad:      sweep.Quad,
		})
		if err != nil {
			return results, err
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			Value:       out.Result.Value,
			AbsErr:      out.Result.AbsErr,
			TrueErr:     out.TrueError(),
			Evaluations: out.Result.Evaluations,
			Converged:   out.Result.Converged,
		})

		fmt.Fprintf(progress, "sweep %d/%d: %s=%.4g\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig checks interval additivity at random split points.
// Lower == Upper selects the integrand's own interval; nil Params its
// defaults.
type MonteCarloConfig struct {
	Integrand string
	Lower     float64
	Upper     float64
	Params    integrands.Params
	Tolerance float64
	NumTrials int
	Seed      int64
	Quad      quad.Config
}

type MonteCarloResult struct {
	TrialID     int
	Split       float64
	Discrepancy float64
	// Scaled is Discrepancy relative to tol*|whole|, zero for an exact match.
	Scaled float64
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	in, err := registry.Get(cfg.Integrand)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	lo, hi := cfg.Lower, cfg.Upper
	if lo == hi {
		lo, hi = in.Lower, in.Upper
	}
	params, err := in.Resolve(cfg.Params)
	if err != nil {
		return nil, err
	}

	q := quad.New(cfg.Quad)
	f := in.Func()
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %w", quad.ErrCanceled, err)
		}

		c := lo + rng.Float64()*(hi-lo)
		add, err := analysis.CheckAdditivity(q, f, lo, c, hi, cfg.Tolerance, params)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		var scaled float64
		if add.Discrepancy > 0 {
			scaled = math.Inf(1)
			if scale := cfg.Tolerance * math.Abs(add.Whole); scale > 0 {
				scaled = add.Discrepancy / scale
			}
		}
		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Split:       c,
			Discrepancy: add.Discrepancy,
			Scaled:      scaled,
		})
	}

	return results, nil
}

// MonteCarloStats counts trials whose discrepancy is within limit times the
// requested tolerance.
func MonteCarloStats(results []MonteCarloResult, limit float64) (within int, outside int) {
	for _, r := range results {
		if r.Scaled <= limit {
			within++
		} else {
			outside++
		}
	}
	return
}
