package quad_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gkquad/internal/quad"
)

var _ = Describe("Integrator", func() {
	var cfg quad.Config

	BeforeEach(func() {
		cfg = quad.DefaultConfig()
	})

	Context("with smooth integrands", func() {
		It("integrates sin over [0, pi] to 2", func() {
			res, err := quad.New(cfg).Integrate(quad.Scalar(math.Sin), 0, math.Pi, 1e-10)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Value).To(BeNumerically("~", 2.0, 1e-8))
			Expect(res.Converged).To(BeTrue())
			Expect(res.Guard).To(Equal(quad.GuardNone))
		})

		DescribeTable("matches closed forms",
			func(f func(float64) float64, a, b, exact float64) {
				v, err := quad.Integrate(quad.Scalar(f), a, b, 1e-11)
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(BeNumerically("~", exact, 1e-9*math.Max(1, math.Abs(exact))))
			},
			Entry("exp on [0, 1]", math.Exp, 0.0, 1.0, math.E-1),
			Entry("cos on [0, pi/2]", math.Cos, 0.0, math.Pi/2, 1.0),
			Entry("1/x on [1, e]", func(x float64) float64 { return 1 / x }, 1.0, math.E, 1.0),
			Entry("gaussian on [-5, 5]", func(x float64) float64 { return math.Exp(-x * x) }, -5.0, 5.0, math.Sqrt(math.Pi)*math.Erf(5)),
		)

		It("keeps the stopping test local to each branch", func() {
			cfg.RecordLeaves = true
			res, err := quad.New(cfg).Integrate(quad.Scalar(func(x float64) float64 {
				return math.Exp(10 * x)
			}), 0, 2, 1e-6)
			Expect(err).NotTo(HaveOccurred())

			for _, l := range res.Leaves {
				Expect(l.AbsErr).To(BeNumerically("<", 1e-6*math.Abs(l.Value)*1.01))
			}
		})
	})

	Context("with a non-integrable singularity", func() {
		pole := quad.Scalar(func(x float64) float64 { return 1 / math.Abs(x-1.0/3.0) })

		It("stops at the depth guard", func() {
			cfg.MaxDepth = 20
			res, err := quad.New(cfg).Integrate(pole, 0, 1, 1e-8)
			Expect(err).To(MatchError(quad.ErrNonConvergence))
			Expect(res).NotTo(BeNil())
			Expect(res.MaxDepth).To(Equal(20))

			var ce *quad.ConvergenceError
			Expect(err).To(BeAssignableToTypeOf(ce))
		})

		It("stays within the evaluation budget", func() {
			cfg.MaxEvals = 1000
			res, err := quad.New(cfg).Integrate(pole, 0, 1, 1e-8)
			Expect(err).To(MatchError(quad.ErrNonConvergence))
			Expect(res.Evaluations).To(BeNumerically("<=", 1000))
			Expect(res.Guard).To(Equal(quad.GuardEvals))
		})
	})

	Context("with concurrent refinement", func() {
		It("returns the sequential result", func() {
			f := quad.Scalar(func(x float64) float64 { return math.Sin(50*x) * math.Exp(-x) })

			want, err := quad.New(cfg).Integrate(f, 0, 3, 1e-10)
			Expect(err).NotTo(HaveOccurred())

			cfg.Workers = 4
			got, err := quad.New(cfg).Integrate(f, 0, 3, 1e-10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Value).To(Equal(want.Value))
			Expect(got.LeafCount).To(Equal(want.LeafCount))
		})
	})
})
