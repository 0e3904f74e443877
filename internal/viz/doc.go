// Package viz provides terminal rendering for quadrature runs.
//
// The package renders results for the CLI and implements an interactive
// explorer using the Bubble Tea framework:
//
//   - [RenderSummary]: styled result panel for one integration
//   - [PlotIntegrand], [PlotDensity], [PlotSweep]: asciigraph charts
//   - [Explorer]: re-integrates as tolerance and integrand change
//
// # Key Bindings
//
//	Up/Down   - Tighten/loosen tolerance by a decade
//	Tab       - Next integrand (Shift+Tab for previous)
//	P         - Toggle concurrent refinement
//	R         - Re-run
//	Q         - Quit
package viz
