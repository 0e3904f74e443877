package quad

import (
	"math"
	"testing"
)

func BenchmarkEvaluate(b *testing.B) {
	f := Scalar(math.Sin)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Evaluate(f, 0, 1)
	}
}

func BenchmarkIntegrateSmooth(b *testing.B) {
	f := Scalar(math.Sin)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Integrate(f, 0, math.Pi, 1e-10)
	}
}

func BenchmarkIntegrateOscillatory(b *testing.B) {
	f := Scalar(func(x float64) float64 { return math.Sin(200 * x) })
	q := New(DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = q.Integrate(f, 0, 10, 1e-10)
	}
}

func BenchmarkIntegrateOscillatoryParallel(b *testing.B) {
	f := Scalar(func(x float64) float64 { return math.Sin(200 * x) })
	cfg := DefaultConfig()
	cfg.Workers = 8
	q := New(cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = q.Integrate(f, 0, 10, 1e-10)
	}
}
