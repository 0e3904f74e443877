package integrands

import (
	"fmt"
	"math"
)

const polyDegree = 7

func Sin() *Integrand {
	return &Integrand{
		Name:        "sin",
		Description: "sin(omega*x)",
		Lower:       0,
		Upper:       math.Pi,
		Defaults:    Params{"omega": 1},
		eval: func(x float64, p Params) float64 {
			return math.Sin(p["omega"] * x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			w := p["omega"]
			if w == 0 {
				return 0, true
			}
			return (math.Cos(w*a) - math.Cos(w*b)) / w, true
		},
	}
}

func Cos() *Integrand {
	return &Integrand{
		Name:        "cos",
		Description: "cos(omega*x)",
		Lower:       0,
		Upper:       math.Pi / 2,
		Defaults:    Params{"omega": 1},
		eval: func(x float64, p Params) float64 {
			return math.Cos(p["omega"] * x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			w := p["omega"]
			if w == 0 {
				return b - a, true
			}
			return (math.Sin(w*b) - math.Sin(w*a)) / w, true
		},
	}
}

func Exp() *Integrand {
	return &Integrand{
		Name:        "exp",
		Description: "exp(k*x)",
		Lower:       0,
		Upper:       1,
		Defaults:    Params{"k": 1},
		eval: func(x float64, p Params) float64 {
			return math.Exp(p["k"] * x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			k := p["k"]
			if k == 0 {
				return b - a, true
			}
			return (math.Exp(k*b) - math.Exp(k*a)) / k, true
		},
	}
}

func polyCoeffs(p Params) [polyDegree + 1]float64 {
	var c [polyDegree + 1]float64
	for i := range c {
		c[i] = p[fmt.Sprintf("c%d", i)]
	}
	return c
}

func horner(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// Poly is c0 + c1*x + ... + c7*x^7, integrated exactly by a single rule
// application.
func Poly() *Integrand {
	defaults := Params{}
	for i := 0; i <= polyDegree; i++ {
		defaults[fmt.Sprintf("c%d", i)] = 0
	}
	defaults["c0"] = 1
	defaults["c1"] = -2
	defaults["c2"] = 0.5
	defaults["c3"] = 3

	return &Integrand{
		Name:        "poly",
		Description: "c0 + c1*x + ... + c7*x^7",
		Lower:       -1,
		Upper:       2,
		Defaults:    defaults,
		eval: func(x float64, p Params) float64 {
			c := polyCoeffs(p)
			return horner(c[:], x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			c := polyCoeffs(p)
			anti := make([]float64, len(c)+1)
			for i, ci := range c {
				anti[i+1] = ci / float64(i+1)
			}
			return horner(anti, b) - horner(anti, a), true
		},
	}
}

func Gaussian() *Integrand {
	return &Integrand{
		Name:        "gaussian",
		Description: "exp(-(x-mu)^2 / (2*sigma^2))",
		Lower:       -5,
		Upper:       5,
		Defaults:    Params{"mu": 0, "sigma": 1},
		eval: func(x float64, p Params) float64 {
			z := (x - p["mu"]) / p["sigma"]
			return math.Exp(-0.5 * z * z)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			s := p["sigma"]
			if s <= 0 {
				return 0, false
			}
			r := s * math.Sqrt2
			return s * math.Sqrt(math.Pi/2) * (math.Erf((b-p["mu"])/r) - math.Erf((a-p["mu"])/r)), true
		},
	}
}

func Runge() *Integrand {
	return &Integrand{
		Name:        "runge",
		Description: "1 / (1 + k*x^2)",
		Lower:       -1,
		Upper:       1,
		Defaults:    Params{"k": 25},
		eval: func(x float64, p Params) float64 {
			return 1 / (1 + p["k"]*x*x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			k := p["k"]
			if k <= 0 {
				return 0, false
			}
			r := math.Sqrt(k)
			return (math.Atan(r*b) - math.Atan(r*a)) / r, true
		},
	}
}

func Oscillatory() *Integrand {
	return &Integrand{
		Name:        "oscillatory",
		Description: "exp(-x) * cos(omega*x)",
		Lower:       0,
		Upper:       4,
		Defaults:    Params{"omega": 50},
		eval: func(x float64, p Params) float64 {
			return math.Exp(-x) * math.Cos(p["omega"]*x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			w := p["omega"]
			anti := func(x float64) float64 {
				return math.Exp(-x) * (w*math.Sin(w*x) - math.Cos(w*x)) / (1 + w*w)
			}
			return anti(b) - anti(a), true
		},
	}
}

func Sqrt() *Integrand {
	return &Integrand{
		Name:        "sqrt",
		Description: "sqrt(x - x0), singular derivative at x0",
		Lower:       0,
		Upper:       1,
		Defaults:    Params{"x0": 0},
		eval: func(x float64, p Params) float64 {
			return math.Sqrt(x - p["x0"])
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			x0 := p["x0"]
			if a < x0 {
				return 0, false
			}
			return 2.0 / 3.0 * (math.Pow(b-x0, 1.5) - math.Pow(a-x0, 1.5)), true
		},
	}
}

func Log() *Integrand {
	return &Integrand{
		Name:        "log",
		Description: "ln(x), integrable singularity at 0",
		Lower:       0,
		Upper:       1,
		Defaults:    Params{},
		eval: func(x float64, p Params) float64 {
			return math.Log(x)
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			if a < 0 {
				return 0, false
			}
			anti := func(x float64) float64 {
				if x == 0 {
					return 0
				}
				return x*math.Log(x) - x
			}
			return anti(b) - anti(a), true
		},
	}
}

// Step jumps from 0 to 1 at c. A jump away from a dyadic point of the
// interval is never bracketed tightly enough for the relative test.
func Step() *Integrand {
	return &Integrand{
		Name:        "step",
		Description: "0 for x < c, 1 for x >= c",
		Lower:       0,
		Upper:       1,
		Defaults:    Params{"c": 0.5},
		eval: func(x float64, p Params) float64 {
			if x < p["c"] {
				return 0
			}
			return 1
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			c := math.Min(math.Max(p["c"], a), b)
			return b - c, true
		},
	}
}

// Pole is 1/|x-c|, not integrable across c.
func Pole() *Integrand {
	return &Integrand{
		Name:        "pole",
		Description: "1 / |x - c|",
		Lower:       0,
		Upper:       1,
		Defaults:    Params{"c": 1.0 / 3.0},
		eval: func(x float64, p Params) float64 {
			return 1 / math.Abs(x-p["c"])
		},
		exact: func(a, b float64, p Params) (float64, bool) {
			c := p["c"]
			switch {
			case c < a:
				return math.Log((b - c) / (a - c)), true
			case c > b:
				return math.Log((c - a) / (c - b)), true
			default:
				return 0, false
			}
		},
	}
}

// All returns a fresh instance of every catalog integrand.
func All() []*Integrand {
	return []*Integrand{
		Sin(), Cos(), Exp(), Poly(), Gaussian(), Runge(),
		Oscillatory(), Sqrt(), Log(), Step(), Pole(),
	}
}
