package quad

// BatchFunc evaluates an integrand at every abscissa of xs and returns the
// values in the same order. args are forwarded unchanged from the caller on
// every call. xs belongs to the caller and must not be retained.
type BatchFunc func(xs []float64, args ...any) ([]float64, error)

// Scalar adapts a pointwise function to a BatchFunc. The wrapped function is
// called once per abscissa inside a single batch call.
func Scalar(f func(x float64) float64) BatchFunc {
	return func(xs []float64, _ ...any) ([]float64, error) {
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = f(x)
		}
		return ys, nil
	}
}

// Estimate is the rule pair's result on one interval. Magnitude is the
// Kronrod rule applied to |f|, the scale against which roundoff is judged.
type Estimate struct {
	Kronrod   float64
	Gauss     float64
	AbsErr    float64
	Magnitude float64
}

// Leaf is an interval whose refinement stopped.
type Leaf struct {
	A, B   float64
	Value  float64
	AbsErr float64
	Depth  int
	Guard  Guard
}

type Config struct {
	// MaxDepth bounds the number of bisection levels below the full interval.
	MaxDepth int
	// MinWidth stops bisection of intervals narrower than this. Independent
	// of it, an interval whose midpoint rounds onto an endpoint is never split.
	MinWidth float64
	// MaxEvals bounds the number of integrand evaluations (abscissas).
	MaxEvals int64
	// ZeroTol treats a coarse estimate within ZeroTol*Magnitude of zero as
	// zero; such a branch is accepted once its halves agree to the same
	// floor. Zero disables the fallback.
	ZeroTol float64
	// Workers > 1 refines independent halves concurrently.
	Workers int
	// RecordLeaves keeps the accepted intervals in Result.Leaves.
	RecordLeaves bool
}

const (
	DefaultMaxDepth = 50
	DefaultMaxEvals = 1_000_000
	// DefaultZeroTol is 50 ulps of 1, the roundoff floor of the 15-point sum.
	DefaultZeroTol = 50 * 0x1p-52
)

func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		MaxEvals: DefaultMaxEvals,
		ZeroTol:  DefaultZeroTol,
		Workers:  1,
	}
}

type Result struct {
	Value       float64
	AbsErr      float64
	Evaluations int64
	Intervals   int64
	MaxDepth    int
	LeafCount   int
	Converged   bool
	Guard       Guard
	Leaves      []Leaf
}
