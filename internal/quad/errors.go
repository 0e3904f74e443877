package quad

import (
	"errors"
	"fmt"
)

// Domain errors for quadrature.
var (
	// ErrInvalidInput indicates non-finite bounds, a bad tolerance or config,
	// or an integrand returning the wrong number of values.
	ErrInvalidInput = errors.New("quad: invalid input")

	// ErrNonConvergence indicates a guard stopped refinement before the
	// tolerance was met.
	ErrNonConvergence = errors.New("quad: tolerance not reached within budget")

	// ErrDegenerateTolerance indicates a zero coarse estimate with the
	// absolute fallback disabled, leaving the relative test unsatisfiable.
	ErrDegenerateTolerance = errors.New("quad: relative tolerance degenerate at zero estimate")

	// ErrCanceled indicates the caller's context ended before the result.
	ErrCanceled = errors.New("quad: integration canceled by context")
)

// Guard names the safeguard that ended refinement of a branch.
type Guard int

const (
	GuardNone Guard = iota
	GuardDepth
	GuardWidth
	GuardEvals
	GuardDegenerate
)

func (g Guard) String() string {
	switch g {
	case GuardNone:
		return "none"
	case GuardDepth:
		return "max depth"
	case GuardWidth:
		return "min width"
	case GuardEvals:
		return "max evaluations"
	case GuardDegenerate:
		return "zero estimate"
	default:
		return fmt.Sprintf("guard(%d)", int(g))
	}
}

// ConvergenceError carries the best estimate available when a guard ended
// the integration.
type ConvergenceError struct {
	Estimate    float64
	AbsErr      float64
	Evaluations int64
	Depth       int
	Reason      Guard
	Wrapped     error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s (%s: estimate %g, abs err %g, %d evaluations, depth %d)",
		e.Wrapped, e.Reason, e.Estimate, e.AbsErr, e.Evaluations, e.Depth)
}

func (e *ConvergenceError) Unwrap() error {
	return e.Wrapped
}
