// Package integrands provides a catalog of named one-dimensional test
// integrands for quadrature.
//
// Each [Integrand] carries a default interval, tunable parameters and, where
// one exists, a closed-form integral:
//
//   - smooth: sin, cos, exp, poly, gaussian, runge, oscillatory
//   - endpoint singularities: sqrt, log
//   - discontinuous: step
//   - non-integrable: pole
//
// Parameters reach the integrand as the auxiliary argument forwarded by
// [quad.Evaluate], so one integrand value serves any parameter set:
//
//	in := integrands.Gaussian()
//	p, _ := in.Resolve(integrands.Params{"sigma": 0.1})
//	v, err := quad.Integrate(in.Func(), -1, 1, 1e-10, p)
package integrands
