package integrands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/gkquad/internal/quad"
)

var (
	// ErrUnknownParam indicates a parameter the integrand does not define.
	ErrUnknownParam = errors.New("integrands: unknown parameter")

	// ErrParamType indicates the forwarded argument is not a Params value.
	ErrParamType = errors.New("integrands: auxiliary argument is not Params")
)

type Params map[string]float64

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Integrand struct {
	Name        string
	Description string
	Lower       float64
	Upper       float64
	Defaults    Params

	eval  func(x float64, p Params) float64
	exact func(a, b float64, p Params) (float64, bool)
}

func (in *Integrand) GetParams() map[string]float64 {
	return in.Defaults.Clone()
}

func (in *Integrand) SetParam(name string, value float64) error {
	if _, ok := in.Defaults[name]; !ok {
		return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, in.Name, name)
	}
	in.Defaults[name] = value
	return nil
}

// Resolve merges overrides into the defaults.
func (in *Integrand) Resolve(overrides Params) (Params, error) {
	p := in.Defaults.Clone()
	for k, v := range overrides {
		if _, ok := p[k]; !ok {
			return nil, fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, in.Name, k)
		}
		p[k] = v
	}
	return p, nil
}

// At evaluates the integrand at a single point.
func (in *Integrand) At(x float64, p Params) float64 {
	if p == nil {
		p = in.Defaults
	}
	return in.eval(x, p)
}

// Func returns the batch form of the integrand. The first forwarded argument,
// when present, must be a resolved Params; otherwise the defaults apply.
func (in *Integrand) Func() quad.BatchFunc {
	return func(xs []float64, args ...any) ([]float64, error) {
		p := in.Defaults
		if len(args) > 0 {
			ap, ok := args[0].(Params)
			if !ok {
				return nil, fmt.Errorf("%w: %s got %T", ErrParamType, in.Name, args[0])
			}
			p = ap
		}
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = in.eval(x, p)
		}
		return ys, nil
	}
}

// Exact returns the closed-form integral over (a, b), if known.
func (in *Integrand) Exact(a, b float64, p Params) (float64, bool) {
	if in.exact == nil {
		return 0, false
	}
	if p == nil {
		p = in.Defaults
	}
	if b < a {
		v, ok := in.exact(b, a, p)
		return -v, ok
	}
	return in.exact(a, b, p)
}
