package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/splashsim/internal/fluid"
)

var _ = Describe("Body", func() {
	It("derives its volume from the radius", func() {
		b, err := fluid.NewBody(fluid.Vec2{X: 1, Y: 1}, 0.5, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Volume()).To(BeNumerically("~", 4.0/3.0*math.Pi*0.125, 1e-12))
		Expect(b.Phase).To(Equal(fluid.Airborne))
	})

	DescribeTable("rejects invalid parameters",
		func(radius, mass float64) {
			_, err := fluid.NewBody(fluid.Vec2{}, radius, mass)
			Expect(err).To(MatchError(fluid.ErrInvalidParameter))
		},
		Entry("zero radius", 0.0, 1.0),
		Entry("negative radius", -0.2, 1.0),
		Entry("zero mass", 0.4, 0.0),
		Entry("negative mass", 0.4, -3.0),
		Entry("NaN radius", math.NaN(), 1.0),
		Entry("infinite mass", 0.4, math.Inf(1)),
	)

	Describe("GravityAndAirForce", func() {
		var b *fluid.Body

		BeforeEach(func() {
			var err error
			b, err = fluid.NewBody(fluid.Vec2{}, 0.4, 1.2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("is pure weight at rest", func() {
			f := b.GravityAndAirForce(9.81, 1.225, 0.47)
			Expect(f.X).To(BeZero())
			Expect(f.Y).To(BeNumerically("~", 1.2*9.81, 1e-12))
		})

		It("opposes vertical motion with quadratic drag while airborne", func() {
			drag := 0.5 * 0.47 * 1.225 * 9 * math.Pi * 0.16

			b.Velocity.Y = 3
			down := b.GravityAndAirForce(9.81, 1.225, 0.47)
			Expect(down.Y).To(BeNumerically("~", 1.2*9.81-drag, 1e-9))

			b.Velocity.Y = -3
			up := b.GravityAndAirForce(9.81, 1.225, 0.47)
			Expect(up.Y).To(BeNumerically("~", 1.2*9.81+drag, 1e-9))
		})

		It("drops air drag once in the water", func() {
			b.Velocity.Y = 3
			b.Phase = fluid.Submerged
			f := b.GravityAndAirForce(9.81, 1.225, 0.47)
			Expect(f.Y).To(BeNumerically("~", 1.2*9.81, 1e-12))
		})
	})

	It("integrates with semi-implicit Euler", func() {
		b, _ := fluid.NewBody(fluid.Vec2{X: 0, Y: 0}, 0.4, 2)
		b.Velocity = fluid.Vec2{X: 1, Y: 0}
		b.Integrate(fluid.Vec2{Y: 20}, 0.1)

		Expect(b.Velocity.Y).To(BeNumerically("~", 1.0, 1e-12))
		Expect(b.Position.Y).To(BeNumerically("~", 0.1, 1e-12))
		Expect(b.Position.X).To(BeNumerically("~", 0.1, 1e-12))
	})

	Describe("spherical cap", func() {
		var b *fluid.Body

		BeforeEach(func() {
			b, _ = fluid.NewBody(fluid.Vec2{Y: 2}, 0.4, 1)
		})

		It("is empty above the surface", func() {
			Expect(b.SubmergedVolume(2.5)).To(BeZero())
		})

		It("is half the sphere at the equator", func() {
			Expect(b.SubmergedVolume(2)).To(BeNumerically("~", b.Volume()/2, 1e-12))
		})

		It("is the whole sphere when fully under", func() {
			Expect(b.Immersion(0)).To(Equal(0.8))
			Expect(b.SubmergedVolume(0)).To(BeNumerically("~", b.Volume(), 1e-12))
		})
	})
})

var _ = Describe("drag model", func() {
	It("floors the Reynolds number at one", func() {
		Expect(fluid.Reynolds(0, 0.8, 1000, 0.001002)).To(Equal(1.0))
	})

	DescribeTable("clamps the drag coefficient",
		func(re, want float64) {
			Expect(fluid.DragCoefficient(re)).To(BeNumerically("~", want, 1e-9))
		},
		Entry("creeping flow", 1.0, 1.2),
		Entry("laminar", 100.0, 0.24),
		Entry("laminar floor", 1000.0, 0.1),
		Entry("turbulent", 40000.0, 0.47+0.5/200),
	)

	It("ramps buoyancy in with depth", func() {
		Expect(fluid.BuoyancyFactor(0, 0.4)).To(BeZero())
		Expect(fluid.BuoyancyFactor(0.8, 0.4)).To(BeNumerically("~", 1-math.Exp(-1), 1e-12))
		Expect(fluid.BuoyancyFactor(0.4, 0.4)).To(BeNumerically("<", fluid.BuoyancyFactor(0.8, 0.4)))
		// a few surface units under, a 0.4 m sphere is at full buoyancy
		Expect(fluid.BuoyancyFactor(5, 0.4)).To(BeNumerically(">", 0.99))
	})
})
