// Package quad provides adaptive Gauss-Kronrod quadrature for one-dimensional
// integrands over finite intervals.
//
// The package is built from two pieces:
//
//   - [Evaluate]: the fixed 7/15-point Gauss-Kronrod pair on a single interval
//   - [Integrator]: recursive bisection driven by the Kronrod/Gauss discrepancy
//
// # Example
//
//	f := quad.Scalar(math.Sin)
//	v, err := quad.Integrate(f, 0, math.Pi, 1e-10)
//
// # Tolerance
//
// Each branch of the bisection compares the sum of its two halves against
// its own coarse estimate, so the relative tolerance is local to every
// subinterval and not a bound on the error of the whole integral.
//
// # Thread Safety
//
// An [Integrator] holds only its [Config] and may be shared. With
// Config.Workers > 1 the two halves of a split may be refined concurrently,
// which requires the integrand to tolerate concurrent calls.
package quad
