package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/san-kum/splashsim/internal/fluid"
)

func near(want float64) types.GomegaMatcher {
	return BeNumerically("~", want, 1e-6*math.Abs(want)+1e-15)
}

// immersed places a body of radius 0.4 and mass 1.2 h metres into a
// resting pool and returns its steady force breakdown.
func immersed(h, vy float64) fluid.Forces {
	p := newPool()
	b, err := p.Spawn(poolCentreX, restSurface+h-0.4, 0.4, 1.2)
	Expect(err).NotTo(HaveOccurred())
	b.Velocity.Y = vy
	f, ok := p.ForcesOn(b)
	Expect(ok).To(BeTrue())
	return f
}

var _ = Describe("steady coupling forces", func() {
	DescribeTable("force breakdown",
		func(h, vy float64, want fluid.Forces) {
			f := immersed(h, vy)
			Expect(f.Stokes).To(near(want.Stokes), "stokes")
			Expect(f.Buoyancy).To(near(want.Buoyancy), "buoyancy")
			Expect(f.Turbulent).To(near(want.Turbulent), "turbulent")
			Expect(f.Vortex).To(near(want.Vortex), "vortex")
			Expect(f.Viscous).To(near(want.Viscous), "viscous")
			Expect(f.Surface).To(near(want.Surface), "surface")
			Expect(f.Air).To(near(want.Air), "air")
			Expect(f.Reynolds).To(near(want.Reynolds), "reynolds")
			Expect(f.Drag).To(near(want.Drag), "drag")
		},
		Entry("fully immersed, slow sink", 0.8, 0.1, fluid.Forces{
			Stokes:    -0.000755490201335,
			Buoyancy:  -2604.237792,
			Turbulent: -0.64027052713,
			Vortex:    -5.02654824574,
			Viscous:   -0.26038515269,
			Surface:   -0.2,
			Air:       0,
			Reynolds:  79840.3193613,
			Drag:      0.471769533837,
		}),
		Entry("half immersed, sinking", 0.4, 0.5, fluid.Forces{
			Stokes:    -0.00377745100668,
			Buoyancy:  -1256.77205929,
			Turbulent: -7.98678725396,
			Vortex:    -25.1327412287,
			Viscous:   -1.28916178538,
			Surface:   -1,
			Air:       0,
			Reynolds:  399201.596806,
			Drag:      0.47079135959,
		}),
		Entry("grazing the surface, laminar", 0.002, 0.0001, fluid.Forces{
			Stokes:    -7.55490201335e-07,
			Buoyancy:  -0.010889142396,
			Turbulent: -1.27276489856e-11,
			Vortex:    -9.4090699975e-08,
			Viscous:   -3.93826033815e-07,
			Surface:   -7.86938680575e-05,
			Air:       -4.61814120078e-09,
			Reynolds:  79.8403193613,
			Drag:      0.3006,
		}),
		Entry("half immersed, rising fast", 0.4, -12.0, fluid.Forces{
			Stokes:    0.0906588241602,
			Buoyancy:  -1052.60790144,
			Turbulent: 4594.23506402,
			Vortex:    603.185789489,
			Viscous:   30.9398828491,
			Surface:   24,
			Air:       0,
			Reynolds:  9580838.32335,
			Drag:      0.4701615356,
		}),
	)

	It("applies 0.9 of the turbulent drag, relieved to 0.6 above Re 10000", func() {
		area := math.Pi * 0.4 * 0.4
		quadratic := func(f fluid.Forces, vy float64) float64 {
			return 0.5 * f.Drag * 1000 * area * vy * math.Abs(vy)
		}

		fast := immersed(0.8, 0.1)
		Expect(fast.Reynolds).To(BeNumerically(">", 10000))
		Expect(fast.Turbulent).To(near(-0.9 * 0.6 * quadratic(fast, 0.1)))

		slow := immersed(0.8, 0.01)
		Expect(slow.Reynolds).To(BeNumerically("<", 10000))
		Expect(slow.Turbulent).To(near(-0.9 * quadratic(slow, 0.01)))
	})

	It("halves vortex resistance below 0.2 m/s", func() {
		area := math.Pi * 0.4 * 0.4
		Expect(immersed(0.8, 0.19).Vortex).To(near(-0.5 * 0.2 * 1000 * area * 0.19))
		Expect(immersed(0.8, 0.21).Vortex).To(near(-0.2 * 1000 * area * 0.21))
	})

	It("drops residual air resistance once the body is under", func() {
		Expect(immersed(0.002, 0.5).Air).To(BeNumerically("<", 0))
		Expect(immersed(0.01, 0.5).Air).To(BeZero())
		Expect(immersed(0.8, 0.5).Air).To(BeZero())
	})

	It("sums the terms into the total", func() {
		f := immersed(0.4, 0.5)
		Expect(f.Total()).To(near(-1292.18452701))
	})
})
