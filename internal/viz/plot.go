package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gkquad/internal/analysis"
	"github.com/san-kum/gkquad/internal/quad"
)

const (
	plotWidth   = 80
	plotHeight  = 10
	plotSamples = 160
)

// finite replaces non-finite samples so the chart keeps a usable scale:
// infinities clamp to the finite extremes, NaN to zero.
func finite(ys []float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if !math.IsNaN(y) && !math.IsInf(y, 0) {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}

	out := make([]float64, len(ys))
	for i, y := range ys {
		switch {
		case math.IsNaN(y):
			out[i] = 0
		case math.IsInf(y, 1):
			out[i] = hi
		case math.IsInf(y, -1):
			out[i] = lo
		default:
			out[i] = y
		}
	}
	return out
}

func PlotIntegrand(f quad.BatchFunc, a, b float64, caption string, args ...any) (string, error) {
	_, ys, err := analysis.Sample(f, a, b, plotSamples, args...)
	if err != nil {
		return "", err
	}
	return asciigraph.Plot(finite(ys),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	), nil
}

// PlotDensity charts leaves per unit length across (a, b).
func PlotDensity(leaves []quad.Leaf, a, b float64) string {
	density := analysis.LeafDensity(leaves, a, b, plotWidth)
	if len(density) == 0 {
		return ""
	}
	return asciigraph.Plot(density,
		asciigraph.Height(plotHeight/2),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("leaf density on [%g, %g]", a, b)),
	)
}

// PlotSweep charts log10 of the true error (or the error indicator when no
// closed form is known) against the sweep index.
func PlotSweep(rows []analysis.SweepRow) string {
	if len(rows) < 2 {
		return ""
	}
	data := make([]float64, len(rows))
	caption := "log10 true error per tolerance decade"
	for i, r := range rows {
		e := r.TrueErr
		if math.IsNaN(e) {
			e = r.AbsErr
			caption = "log10 error indicator per tolerance decade"
		}
		data[i] = math.Log10(math.Max(e, 1e-17))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}
