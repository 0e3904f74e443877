package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/gkquad/internal/quad"
)

func TestDecades(t *testing.T) {
	tols := Decades(1e-2, 1e-6)
	if len(tols) != 5 {
		t.Fatalf("expected 5 tolerances, got %d", len(tols))
	}
	if math.Abs(tols[4]-1e-6) > 1e-20 {
		t.Errorf("expected last tol 1e-6, got %g", tols[4])
	}
	if Decades(1e-6, 1e-2) != nil {
		t.Error("expected nil for increasing range")
	}
}

func TestToleranceSweepMonotone(t *testing.T) {
	f := quad.Scalar(func(x float64) float64 { return 1 / (1 + 25*x*x) })
	exact := 0.4 * math.Atan(5)

	rows, err := ToleranceSweep(quad.New(quad.DefaultConfig()), f, -1, 1, Decades(1e-2, 1e-12), exact)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}

	if i, ok := MonotoneErrors(rows, 1e-13); !ok {
		t.Errorf("error grew at tol %g: %e > %e", rows[i].Tol, rows[i].TrueErr, rows[i-1].TrueErr)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Evaluations < rows[i-1].Evaluations {
			t.Errorf("tighter tol %g used less work", rows[i].Tol)
		}
	}
	if last := rows[len(rows)-1]; last.TrueErr > 1e-11 || !last.Converged {
		t.Errorf("unexpected final row %+v", last)
	}
}

func TestToleranceSweepRecordsGuardTrips(t *testing.T) {
	f := quad.Scalar(func(x float64) float64 { return 1 / math.Abs(x-1.0/3.0) })
	cfg := quad.DefaultConfig()
	cfg.MaxDepth = 10

	rows, err := ToleranceSweep(quad.New(cfg), f, 0, 1, []float64{1e-6}, math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Converged {
		t.Error("pole should not converge")
	}
	if !math.IsNaN(rows[0].TrueErr) {
		t.Error("true error should be NaN without a closed form")
	}
}

func TestMonotoneErrors(t *testing.T) {
	rows := []SweepRow{{TrueErr: 1e-3}, {TrueErr: 1e-6}, {TrueErr: 1e-5}}
	i, ok := MonotoneErrors(rows, 0)
	if ok || i != 2 {
		t.Errorf("expected violation at 2, got %d %v", i, ok)
	}
	if _, ok := MonotoneErrors(rows, 1e-4); !ok {
		t.Error("slack should absorb the increase")
	}
}

func TestCheckAdditivity(t *testing.T) {
	f := quad.Scalar(math.Exp)
	tol := 1e-10

	add, err := CheckAdditivity(quad.New(quad.DefaultConfig()), f, 0, 0.7, 2, tol)
	if err != nil {
		t.Fatal(err)
	}
	if add.Discrepancy > 10*tol {
		t.Errorf("discrepancy %e", add.Discrepancy)
	}
	if math.Abs(add.Whole-(math.Exp(2)-1)) > 1e-9 {
		t.Errorf("whole %f", add.Whole)
	}
}

func TestLeafDensity(t *testing.T) {
	leaves := []quad.Leaf{
		{A: 0, B: 0.5},
		{A: 0.5, B: 0.75},
		{A: 0.75, B: 0.875},
		{A: 0.875, B: 1},
	}
	d := LeafDensity(leaves, 0, 1, 2)
	if len(d) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(d))
	}
	if d[0] != 2 || d[1] != 6 {
		t.Errorf("unexpected density %v", d)
	}
	if LeafDensity(leaves, 0, 1, 0) != nil {
		t.Error("expected nil for zero bins")
	}
}

func TestSample(t *testing.T) {
	calls := 0
	f := func(xs []float64, _ ...any) ([]float64, error) {
		calls++
		if len(xs) > quad.NodeCount {
			t.Fatalf("batch of %d exceeds %d", len(xs), quad.NodeCount)
		}
		return append([]float64(nil), xs...), nil
	}

	xs, ys, err := Sample(f, 0, 1, 31)
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 31 || len(ys) != 31 || calls != 3 {
		t.Errorf("expected 31 samples in 3 batches, got %d/%d in %d", len(xs), len(ys), calls)
	}
	if xs[30] != 1 || ys[15] != xs[15] {
		t.Error("samples out of order")
	}
}
