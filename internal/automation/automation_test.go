package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gkquad/internal/config"
	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/integrands"
	"github.com/san-kum/gkquad/internal/quad"
	"github.com/san-kum/gkquad/internal/storage"
)

const scenarioYAML = `name: smoke
description: two quick integrations
steps:
  - integrand: sin
    tolerance: 1.0e-10
    save: true
  - integrand: pole
    tolerance: 1.0e-8
    limits:
      max_depth: 50
      max_evals: 600
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenarioDefaults(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	d := config.DefaultConfig()
	first := sc.Steps[0]
	if !first.Save {
		t.Error("first step should be saved")
	}
	if first.Limits.MaxEvals != d.Limits.MaxEvals || first.Workers != d.Workers {
		t.Errorf("defaults not applied: %+v", first.Config)
	}
	if sc.Steps[1].Limits.MaxEvals != 600 {
		t.Errorf("max_evals = %d, want 600", sc.Steps[1].Limits.MaxEvals)
	}
	if sc.Steps[1].Save {
		t.Error("second step should not be saved")
	}
}

func TestLoadScenarioInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no steps", "name: empty\n"},
		{"bad tolerance", "steps:\n  - integrand: sin\n    tolerance: -1\n"},
		{"bad yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScenario(writeScenario(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	outs, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), st, nil)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(outs) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outs))
	}
	if outs[0].Err != nil || math.Abs(outs[0].Result.Value-2) > 1e-8 {
		t.Errorf("sin step: value %v err %v", outs[0].Result.Value, outs[0].Err)
	}
	if !errors.Is(outs[1].Err, quad.ErrNonConvergence) {
		t.Errorf("pole step should trip a guard, got %v", outs[1].Err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Integrand != "sin" {
		t.Errorf("expected one saved sin run, got %+v", runs)
	}
}

func TestRunScenarioUnknownIntegrand(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Config: *config.DefaultConfig()}}}
	sc.Steps[0].Integrand = "nope"
	if _, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil, nil); err == nil {
		t.Error("expected error for unknown integrand")
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Integrand: "sin",
		ParamName: "omega",
		ParamMin:  1,
		ParamMax:  3,
		NumSteps:  3,
		Tolerance: 1e-10,
		Quad:      quad.DefaultConfig(),
	}
	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []float64{1, 2, 3} {
		r := results[i]
		if r.ParamValue != want {
			t.Errorf("step %d param = %v, want %v", i, r.ParamValue, want)
		}
		if !r.Converged || r.TrueErr > 1e-8 {
			t.Errorf("omega=%v: converged=%v true err %v", want, r.Converged, r.TrueErr)
		}
	}
	if math.Abs(results[1].Value) > 1e-8 {
		t.Errorf("sin(2x) over a full period should vanish, got %v", results[1].Value)
	}
}

func TestRunSweepKeepsIntervalAndParams(t *testing.T) {
	sweep := &ParameterSweep{
		Integrand: "gaussian",
		Lower:     -1,
		Upper:     1,
		Params:    integrands.Params{"mu": 0.5},
		ParamName: "sigma",
		ParamMin:  0.5,
		ParamMax:  2,
		NumSteps:  2,
		Tolerance: 1e-10,
		Quad:      quad.DefaultConfig(),
	}
	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}

	g := integrands.Gaussian()
	for _, r := range results {
		want, _ := g.Exact(-1, 1, integrands.Params{"mu": 0.5, "sigma": r.ParamValue})
		if math.Abs(r.Value-want) > 1e-9 {
			t.Errorf("sigma=%v: got %.12f, want %.12f on [-1, 1] with mu=0.5", r.ParamValue, r.Value, want)
		}
		if r.TrueErr > 1e-9 {
			t.Errorf("sigma=%v: true error %g measured against the wrong interval", r.ParamValue, r.TrueErr)
		}
	}
	if sweep.Params["sigma"] != 0 {
		t.Error("sweep must not write into the caller's params")
	}
}

func TestRunSweepErrors(t *testing.T) {
	reg := experiment.NewRegistry()
	bad := &ParameterSweep{Integrand: "sin", ParamName: "nope", NumSteps: 3, Tolerance: 1e-8, Quad: quad.DefaultConfig()}
	if _, err := RunSweep(context.Background(), bad, reg, nil); !errors.Is(err, integrands.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	short := &ParameterSweep{Integrand: "sin", ParamName: "omega", NumSteps: 1, Tolerance: 1e-8, Quad: quad.DefaultConfig()}
	if _, err := RunSweep(context.Background(), short, reg, nil); err == nil {
		t.Error("expected error for a single step")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := &MonteCarloConfig{
		Integrand: "gaussian",
		Tolerance: 1e-10,
		NumTrials: 10,
		Seed:      7,
		Quad:      quad.DefaultConfig(),
	}
	results, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("RunMonteCarlo: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if r.Split < -5 || r.Split > 5 {
			t.Errorf("split %v outside the interval", r.Split)
		}
	}
	within, outside := MonteCarloStats(results, 10)
	if within != 10 || outside != 0 {
		t.Errorf("within=%d outside=%d", within, outside)
	}
}

func TestRunMonteCarloCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &MonteCarloConfig{Integrand: "sin", Tolerance: 1e-8, NumTrials: 5, Seed: 1, Quad: quad.DefaultConfig()}
	_, err := RunMonteCarlo(ctx, cfg, experiment.NewRegistry())
	if !errors.Is(err, quad.ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestRunMonteCarloZeroIntegral(t *testing.T) {
	zero := integrands.Params{}
	for i := 0; i <= 7; i++ {
		zero[fmt.Sprintf("c%d", i)] = 0
	}
	cfg := &MonteCarloConfig{
		Integrand: "poly",
		Params:    zero,
		Tolerance: 1e-10,
		NumTrials: 5,
		Seed:      3,
		Quad:      quad.DefaultConfig(),
	}
	results, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("RunMonteCarlo: %v", err)
	}
	for _, r := range results {
		if r.Discrepancy != 0 || r.Scaled != 0 {
			t.Errorf("split %v: discrepancy %g scaled %g, want exact zeros", r.Split, r.Discrepancy, r.Scaled)
		}
	}
	if within, outside := MonteCarloStats(results, 1); within != 5 || outside != 0 {
		t.Errorf("within=%d outside=%d", within, outside)
	}
}

func TestMonteCarloStats(t *testing.T) {
	results := []MonteCarloResult{{Scaled: 0.5}, {Scaled: 2}, {Scaled: math.Inf(1)}, {Scaled: 0}}
	within, outside := MonteCarloStats(results, 1)
	if within != 2 || outside != 2 {
		t.Errorf("within=%d outside=%d", within, outside)
	}
}
