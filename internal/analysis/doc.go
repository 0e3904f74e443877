// Package analysis provides convergence studies for adaptive quadrature.
//
// The package includes tools for characterizing how the integrator behaves
// on a given integrand:
//
//   - [ToleranceSweep]: result, work and true error across tolerances
//   - [MonotoneErrors]: checks that tightening tolerance never hurts
//   - [CheckAdditivity]: compares a whole interval against a split
//   - [LeafDensity]: where bisection concentrated its work
//
// # Tolerance Sweeps
//
// Refinement trees are nested under tightening tolerance, so the true error
// should be non-increasing down to rounding noise:
//
//	rows, _ := analysis.ToleranceSweep(q, f, 0, 1, analysis.Decades(1e-2, 1e-12), exact)
//	if i, ok := analysis.MonotoneErrors(rows, 1e-13); !ok {
//	    // rows[i] is worse than rows[i-1]
//	}
package analysis
