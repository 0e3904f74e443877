package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gkquad/internal/quad"
)

type SweepRow struct {
	Tol         float64
	Value       float64
	AbsErr      float64
	TrueErr     float64
	Evaluations int64
	Depth       int
	Leaves      int
	Converged   bool
}

// Decades returns from, from/10, ... down to to inclusive.
func Decades(from, to float64) []float64 {
	if from <= 0 || to <= 0 || to > from {
		return nil
	}
	n := int(math.Round(math.Log10(from/to))) + 1
	tols := make([]float64, n)
	for i := range tols {
		tols[i] = from * math.Pow(10, -float64(i))
	}
	return tols
}

// ToleranceSweep integrates f once per tolerance. exact may be NaN, leaving
// TrueErr NaN. Guard trips are recorded as unconverged rows.
func ToleranceSweep(q *quad.Integrator, f quad.BatchFunc, a, b float64, tols []float64, exact float64, args ...any) ([]SweepRow, error) {
	rows := make([]SweepRow, 0, len(tols))
	for _, tol := range tols {
		res, err := q.Integrate(f, a, b, tol, args...)
		var ce *quad.ConvergenceError
		if err != nil && !errors.As(err, &ce) {
			return rows, fmt.Errorf("tol %g: %w", tol, err)
		}
		rows = append(rows, SweepRow{
			Tol:         tol,
			Value:       res.Value,
			AbsErr:      res.AbsErr,
			TrueErr:     math.Abs(res.Value - exact),
			Evaluations: res.Evaluations,
			Depth:       res.MaxDepth,
			Leaves:      res.LeafCount,
			Converged:   res.Converged,
		})
	}
	return rows, nil
}

// MonotoneErrors reports the first row whose true error exceeds its
// predecessor's by more than slack. Rows must be ordered by decreasing tol.
func MonotoneErrors(rows []SweepRow, slack float64) (int, bool) {
	for i := 1; i < len(rows); i++ {
		if math.IsNaN(rows[i].TrueErr) || math.IsNaN(rows[i-1].TrueErr) {
			continue
		}
		if rows[i].TrueErr > rows[i-1].TrueErr+slack {
			return i, false
		}
	}
	return -1, true
}

type Additivity struct {
	Whole       float64
	Left        float64
	Right       float64
	Discrepancy float64
}

// CheckAdditivity integrates (a, b), (a, c) and (c, b) independently.
func CheckAdditivity(q *quad.Integrator, f quad.BatchFunc, a, c, b, tol float64, args ...any) (Additivity, error) {
	var out Additivity
	for _, part := range []struct {
		lo, hi float64
		dst    *float64
	}{
		{a, b, &out.Whole},
		{a, c, &out.Left},
		{c, b, &out.Right},
	} {
		res, err := q.Integrate(f, part.lo, part.hi, tol, args...)
		if err != nil {
			return out, fmt.Errorf("(%g, %g): %w", part.lo, part.hi, err)
		}
		*part.dst = res.Value
	}
	out.Discrepancy = math.Abs(out.Whole - (out.Left + out.Right))
	return out, nil
}

// LeafDensity bins leaf midpoints over (a, b) and returns leaves per unit
// length in each bin.
func LeafDensity(leaves []quad.Leaf, a, b float64, bins int) []float64 {
	if bins <= 0 || a == b {
		return nil
	}
	lo, hi := math.Min(a, b), math.Max(a, b)
	width := (hi - lo) / float64(bins)
	density := make([]float64, bins)
	for _, l := range leaves {
		mid := 0.5 * (l.A + l.B)
		i := int((mid - lo) / width)
		if i < 0 || i >= bins {
			continue
		}
		density[i]++
	}
	for i := range density {
		density[i] /= width
	}
	return density
}

// Sample evaluates f on n evenly spaced points of [a, b], in batches of
// quad.NodeCount.
func Sample(f quad.BatchFunc, a, b float64, n int, args ...any) ([]float64, []float64, error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	xs := make([]float64, n)
	h := (b - a) / float64(n-1)
	for i := range xs {
		xs[i] = a + float64(i)*h
	}
	xs[n-1] = b
	ys := make([]float64, 0, n)
	for start := 0; start < n; start += quad.NodeCount {
		end := min(start+quad.NodeCount, n)
		batch, err := f(xs[start:end], args...)
		if err != nil {
			return nil, nil, err
		}
		ys = append(ys, batch...)
	}
	return xs, ys, nil
}
