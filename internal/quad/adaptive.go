package quad

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
)

type Integrator struct {
	cfg Config
}

func New(cfg Config) *Integrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Integrator{cfg: cfg}
}

func (q *Integrator) Config() Config { return q.cfg }

// Integrate approximates the integral of f over (a, b) to relative tolerance
// tol with the default configuration. On a guard trip the best estimate is
// returned together with a *ConvergenceError.
func Integrate(f BatchFunc, a, b, tol float64, args ...any) (float64, error) {
	res, err := New(DefaultConfig()).Integrate(f, a, b, tol, args...)
	if res == nil {
		return 0, err
	}
	return res.Value, err
}

// Integrate runs the adaptive bisection. The returned Result is non-nil
// whenever err is nil or wraps ErrNonConvergence or ErrDegenerateTolerance.
func (q *Integrator) Integrate(f BatchFunc, a, b, tol float64, args ...any) (*Result, error) {
	if err := q.validate(f, a, b, tol); err != nil {
		return nil, err
	}
	if a == b {
		return &Result{Converged: true}, nil
	}

	t := newTraversal(q.cfg, f, tol, args)
	// validate guarantees MaxEvals covers the seed and one split.
	t.reserve(NodeCount)
	seed, err := t.evaluate(a, b)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(seed.Kronrod) || math.IsInf(seed.Kronrod, 0) {
		return nil, fmt.Errorf("%w: estimate over (%g, %g) is not finite", ErrInvalidInput, a, b)
	}

	br, err := t.refine(a, b, seed, 0)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Value:       br.value,
		AbsErr:      br.absErr,
		Evaluations: t.evals.Load(),
		Intervals:   t.calls.Load(),
		MaxDepth:    br.depth,
		LeafCount:   br.count,
		Converged:   br.guard == GuardNone,
		Guard:       br.guard,
		Leaves:      br.leaves,
	}
	if res.Converged {
		return res, nil
	}

	wrapped := ErrNonConvergence
	if br.guard == GuardDegenerate {
		wrapped = ErrDegenerateTolerance
	}
	return res, &ConvergenceError{
		Estimate:    res.Value,
		AbsErr:      res.AbsErr,
		Evaluations: res.Evaluations,
		Depth:       res.MaxDepth,
		Reason:      br.guard,
		Wrapped:     wrapped,
	}
}

// Run is Integrate bounded by ctx. Cancellation abandons the traversal,
// which stops on its own within the evaluation budget.
func (q *Integrator) Run(ctx context.Context, f BatchFunc, a, b, tol float64, args ...any) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := q.Integrate(f, a, b, tol, args...)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	}
}

func (q *Integrator) validate(f BatchFunc, a, b, tol float64) error {
	if f == nil {
		return fmt.Errorf("%w: nil integrand", ErrInvalidInput)
	}
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return fmt.Errorf("%w: bounds must be finite, got (%g, %g)", ErrInvalidInput, a, b)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidInput, tol)
	}
	if q.cfg.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidInput, q.cfg.MaxDepth)
	}
	if q.cfg.MaxEvals < 3*NodeCount {
		return fmt.Errorf("%w: max evaluations must be at least %d, got %d", ErrInvalidInput, 3*NodeCount, q.cfg.MaxEvals)
	}
	if math.IsNaN(q.cfg.MinWidth) || q.cfg.MinWidth < 0 {
		return fmt.Errorf("%w: min width must be non-negative, got %g", ErrInvalidInput, q.cfg.MinWidth)
	}
	if math.IsNaN(q.cfg.ZeroTol) || q.cfg.ZeroTol < 0 {
		return fmt.Errorf("%w: zero tolerance must be non-negative, got %g", ErrInvalidInput, q.cfg.ZeroTol)
	}
	return nil
}

type traversal struct {
	f      BatchFunc
	args   []any
	tol    float64
	cfg    Config
	evals  atomic.Int64
	calls  atomic.Int64
	tokens chan struct{}
}

func newTraversal(cfg Config, f BatchFunc, tol float64, args []any) *traversal {
	t := &traversal{f: f, args: args, tol: tol, cfg: cfg}
	if cfg.Workers > 1 {
		t.tokens = make(chan struct{}, cfg.Workers-1)
	}
	return t
}

// reserve claims n evaluations from the budget.
func (t *traversal) reserve(n int64) bool {
	if t.evals.Add(n) > t.cfg.MaxEvals {
		t.evals.Add(-n)
		return false
	}
	return true
}

func (t *traversal) evaluate(a, b float64) (Estimate, error) {
	t.calls.Add(1)
	return Evaluate(t.f, a, b, t.args...)
}

// branch is the accumulated outcome of refining one interval.
type branch struct {
	value  float64
	absErr float64
	depth  int
	count  int
	guard  Guard
	leaves []Leaf
}

func (t *traversal) leaf(a, b, value, absErr float64, depth int, guard Guard) branch {
	br := branch{value: value, absErr: absErr, depth: depth, count: 1, guard: guard}
	if t.cfg.RecordLeaves {
		br.leaves = []Leaf{{A: a, B: b, Value: value, AbsErr: absErr, Depth: depth, Guard: guard}}
	}
	return br
}

// refine bisects (a, b) against the coarse estimate coarse of the whole
// interval, accepting the sum of the halves once it agrees with coarse.
func (t *traversal) refine(a, b float64, coarse Estimate, depth int) (branch, error) {
	c := 0.5*a + 0.5*b
	if c == a || c == b || math.Abs(b-a) < t.cfg.MinWidth {
		return t.leaf(a, b, coarse.Kronrod, coarse.AbsErr, depth, GuardWidth), nil
	}
	if !t.reserve(2 * NodeCount) {
		return t.leaf(a, b, coarse.Kronrod, coarse.AbsErr, depth, GuardEvals), nil
	}

	left, err := t.evaluate(a, c)
	if err != nil {
		return branch{}, err
	}
	right, err := t.evaluate(c, b)
	if err != nil {
		return branch{}, err
	}

	i1 := coarse.Kronrod
	i2 := left.Kronrod + right.Kronrod
	diff := math.Abs(i2 - i1)

	if diff < t.tol*math.Abs(i1) {
		return t.leaf(a, b, i2, diff, depth, GuardNone), nil
	}
	if floor := t.cfg.ZeroTol * coarse.Magnitude; t.cfg.ZeroTol > 0 && math.Abs(i1) <= floor && diff <= floor {
		return t.leaf(a, b, i2, diff, depth, GuardNone), nil
	}
	if t.cfg.ZeroTol == 0 && i1 == 0 {
		return t.leaf(a, b, i2, diff, depth, GuardDegenerate), nil
	}
	if depth >= t.cfg.MaxDepth {
		return t.leaf(a, b, i2, diff, depth, GuardDepth), nil
	}

	return t.split(a, c, b, left, right, depth+1)
}

// merge combines the branches of (a, c) and (c, b) in that order.
func merge(l, r branch) branch {
	out := branch{
		value:  l.value + r.value,
		absErr: l.absErr + r.absErr,
		depth:  max(l.depth, r.depth),
		count:  l.count + r.count,
		guard:  l.guard,
	}
	if out.guard == GuardNone {
		out.guard = r.guard
	}
	if l.leaves != nil || r.leaves != nil {
		out.leaves = make([]Leaf, 0, len(l.leaves)+len(r.leaves))
		out.leaves = append(out.leaves, l.leaves...)
		out.leaves = append(out.leaves, r.leaves...)
	}
	return out
}
