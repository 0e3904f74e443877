package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gkquad/internal/integrands"
)

type Registry struct {
	integrands map[string]func() *integrands.Integrand
}

func NewRegistry() *Registry {
	r := &Registry{
		integrands: make(map[string]func() *integrands.Integrand),
	}

	r.Register("sin", integrands.Sin)
	r.Register("cos", integrands.Cos)
	r.Register("exp", integrands.Exp)
	r.Register("poly", integrands.Poly)
	r.Register("gaussian", integrands.Gaussian)
	r.Register("runge", integrands.Runge)
	r.Register("oscillatory", integrands.Oscillatory)
	r.Register("sqrt", integrands.Sqrt)
	r.Register("log", integrands.Log)
	r.Register("step", integrands.Step)
	r.Register("pole", integrands.Pole)

	return r
}

func (r *Registry) Register(name string, fn func() *integrands.Integrand) {
	r.integrands[name] = fn
}

// Get returns a fresh instance, so callers may change its defaults.
func (r *Registry) Get(name string) (*integrands.Integrand, error) {
	fn, ok := r.integrands[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrand: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.integrands))
	for name := range r.integrands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
