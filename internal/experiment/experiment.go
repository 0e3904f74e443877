package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/gkquad/internal/config"
	"github.com/san-kum/gkquad/internal/integrands"
	"github.com/san-kum/gkquad/internal/quad"
)

type Config struct {
	Integrand string
	Lower     float64
	Upper     float64
	Tolerance float64
	Params    integrands.Params
	Quad      quad.Config
}

// FromConfig resolves a run file against the registry, filling the interval
// from the integrand when the file leaves it unset.
func FromConfig(r *Registry, cfg *config.Config) (Config, error) {
	in, err := r.Get(cfg.Integrand)
	if err != nil {
		return Config{}, err
	}
	lower, upper := cfg.Bounds(in.Lower, in.Upper)
	return Config{
		Integrand: cfg.Integrand,
		Lower:     lower,
		Upper:     upper,
		Tolerance: cfg.Tolerance,
		Params:    integrands.Params(cfg.Params),
		Quad:      cfg.QuadConfig(),
	}, nil
}

type Experiment struct {
	cfg       Config
	integrand *integrands.Integrand
	params    integrands.Params
}

type Outcome struct {
	Integrand string
	Params    integrands.Params
	Lower     float64
	Upper     float64
	Tolerance float64
	Result    *quad.Result
	Exact     float64
	HasExact  bool
	Elapsed   time.Duration
	// Err is a guard trip; Result still holds the best estimate.
	Err error
}

// TrueError is |Value - Exact|, or NaN without a closed form.
func (o *Outcome) TrueError() float64 {
	if !o.HasExact || o.Result == nil {
		return math.NaN()
	}
	return math.Abs(o.Result.Value - o.Exact)
}

func New(r *Registry, cfg Config) (*Experiment, error) {
	in, err := r.Get(cfg.Integrand)
	if err != nil {
		return nil, err
	}
	params, err := in.Resolve(cfg.Params)
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, integrand: in, params: params}, nil
}

func (e *Experiment) Integrand() *integrands.Integrand { return e.integrand }

func (e *Experiment) Params() integrands.Params { return e.params }

// Run integrates once. Guard trips are reported in Outcome.Err; invalid input
// and integrand failures are returned as errors.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	q := quad.New(e.cfg.Quad)

	start := time.Now()
	res, err := q.Run(ctx, e.integrand.Func(), e.cfg.Lower, e.cfg.Upper, e.cfg.Tolerance, e.params)
	elapsed := time.Since(start)

	var ce *quad.ConvergenceError
	if err != nil && !errors.As(err, &ce) {
		return nil, fmt.Errorf("integrate %s: %w", e.cfg.Integrand, err)
	}

	out := &Outcome{
		Integrand: e.cfg.Integrand,
		Params:    e.params,
		Lower:     e.cfg.Lower,
		Upper:     e.cfg.Upper,
		Tolerance: e.cfg.Tolerance,
		Result:    res,
		Elapsed:   elapsed,
		Err:       err,
	}
	out.Exact, out.HasExact = e.integrand.Exact(e.cfg.Lower, e.cfg.Upper, e.params)
	return out, nil
}
