package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/splashsim/internal/fluid"
)

const (
	poolCentreX = 4.0 // metres, centre of DefaultGeometry
	restSurface = 2.5 // metres, top of DefaultGeometry
	poolFloor   = 5.5
	poolWidth   = 7.0
)

func newPool() *fluid.Pool {
	p, err := fluid.NewPool(fluid.DefaultGeometry(), fluid.DefaultParams())
	Expect(err).NotTo(HaveOccurred())
	return p
}

// archimedesDepth solves rho*V_cap(h) = m for h by bisection.
func archimedesDepth(radius, mass, rho float64) float64 {
	lo, hi := 0.0, 2*radius
	for i := 0; i < 100; i++ {
		h := (lo + hi) / 2
		v := math.Pi * h * h * (3*radius - h) / 3
		if rho*v < mass {
			lo = h
		} else {
			hi = h
		}
	}
	return (lo + hi) / 2
}

func run(p *fluid.Pool, ticks int, dt float64) (entries, exits int) {
	for i := 0; i < ticks; i++ {
		rep := p.Tick(dt)
		entries += len(rep.Entries)
		exits += len(rep.Exits)
	}
	return entries, exits
}

var _ = Describe("Pool", func() {
	var pool *fluid.Pool

	BeforeEach(func() {
		pool = newPool()
	})

	It("rejects bodies with invalid parameters before inserting them", func() {
		_, err := pool.Spawn(poolCentreX, 1, 0, 1)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))
		_, err = pool.Spawn(poolCentreX, 1, 0.4, -1)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))
		Expect(pool.Bodies()).To(BeEmpty())
	})

	It("rejects invalid physical constants", func() {
		params := fluid.DefaultParams()
		params.Scale = 0
		_, err := fluid.NewPool(fluid.DefaultGeometry(), params)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))
	})

	It("assigns increasing body IDs", func() {
		a, _ := pool.Spawn(2, 1, 0.3, 1)
		b, _ := pool.Spawn(3, 1, 0.3, 1)
		Expect(b.ID).To(BeNumerically(">", a.ID))
	})

	It("ignores non-positive time steps", func() {
		b, _ := pool.Spawn(poolCentreX, 1, 0.4, 1.2)
		pool.Tick(0)
		pool.Tick(-0.01)
		Expect(b.Position.Y).To(Equal(1.0))
	})

	It("falls monotonically and enters the water exactly once", func() {
		for _, tc := range []struct{ drop, radius, mass float64 }{
			{0.1, 0.4, 1.2},
			{0.5, 0.2, 0.5},
			{1.0, 0.3, 20},
		} {
			pool.Reset()
			b, err := pool.Spawn(poolCentreX, restSurface-tc.drop-tc.radius, tc.radius, tc.mass)
			Expect(err).NotTo(HaveOccurred())

			entries, exits := 0, 0
			prevY, prevVY := b.Position.Y, b.Velocity.Y
			for i := 0; i < 400; i++ {
				airborne := !b.InWater()
				rep := pool.Tick(0.01)
				entries += len(rep.Entries)
				exits += len(rep.Exits)
				if airborne && len(rep.Entries) == 0 {
					Expect(b.Position.Y).To(BeNumerically(">", prevY), "body rose while airborne")
					Expect(b.Velocity.Y).To(BeNumerically(">=", prevVY), "body decelerated while airborne")
				}
				prevY, prevVY = b.Position.Y, b.Velocity.Y
			}
			Expect(entries).To(Equal(1))
			Expect(exits).To(BeZero())
		}
	})

	It("damps vertical speed and splashes the surface on entry", func() {
		b, _ := pool.Spawn(poolCentreX, restSurface-0.5-0.4, 0.4, 1.2)
		var rep fluid.TickReport
		var before float64
		for i := 0; i < 100 && len(rep.Entries) == 0; i++ {
			before = b.Velocity.Y
			rep = pool.Tick(0.01)
		}
		Expect(rep.Entries).To(ConsistOf(b.ID))
		Expect(b.Phase).To(Equal(fluid.JustEntered))
		Expect(b.Velocity.Y).To(BeNumerically("<", 0.4*before))
		Expect(pool.Surface().Activity()).To(BeNumerically(">", 0))
	})

	Describe("volume balancing", func() {
		sink := func(p *fluid.Pool) *fluid.Body {
			b, err := p.Spawn(poolCentreX, poolFloor-0.4, 0.4, 1000)
			Expect(err).NotTo(HaveOccurred())
			return b
		}

		It("raises the baseline by the displaced volume over the pool width", func() {
			b := sink(pool)
			run(pool, 100, 0.01)

			Expect(b.Phase).To(Equal(fluid.Submerged))
			Expect(pool.BaselineShift()).To(BeNumerically("~", b.Volume()/poolWidth, 1e-9))
			Expect(pool.Surface().Bounds().Top).To(BeNumerically("~", 250-100*b.Volume()/poolWidth, 1e-6))
		})

		It("does not depend on tick granularity", func() {
			sink(pool)
			run(pool, 100, 0.01)

			fine := newPool()
			sink(fine)
			run(fine, 200, 0.005)

			Expect(fine.BaselineShift()).To(BeNumerically("~", pool.BaselineShift(), 1e-9))
		})

		It("forgets the displacement on reset", func() {
			sink(pool)
			run(pool, 10, 0.01)
			Expect(pool.BaselineShift()).To(BeNumerically(">", 0))

			pool.Reset()
			Expect(pool.BaselineShift()).To(BeZero())
			Expect(pool.Bodies()).To(BeEmpty())

			b := sink(pool)
			run(pool, 10, 0.01)
			Expect(pool.BaselineShift()).To(BeNumerically("~", b.Volume()/poolWidth, 1e-9))
		})
	})

	It("pins bodies to the pool floor", func() {
		b, _ := pool.Spawn(poolCentreX, poolFloor-0.4, 0.4, 1000)
		run(pool, 50, 0.01)
		Expect(b.Position.Y).To(BeNumerically("~", poolFloor-0.4, 1e-3))
		Expect(b.Velocity.Y).To(BeNumerically(">=", 0))
	})

	It("leaves bodies outside the pool to free fall", func() {
		b, _ := pool.Spawn(0.1, 1, 0.2, 1)
		rep := pool.Tick(0.01)
		Expect(rep.Entries).To(BeEmpty())
		run(pool, 100, 0.01)
		Expect(b.InWater()).To(BeFalse())
		Expect(pool.Surface().Activity()).To(BeZero())
	})

	Describe("settling", func() {
		settle := func(mass float64) (*fluid.Body, float64) {
			p := newPool()
			b, err := p.Spawn(poolCentreX, restSurface-0.2-0.4, 0.4, mass)
			Expect(err).NotTo(HaveOccurred())
			run(p, 1500, 0.01)
			surfaceY, ok := p.SurfaceYAt(b.Position.X)
			Expect(ok).To(BeTrue())
			return b, b.Bottom() - surfaceY
		}

		It("comes to rest at the Archimedes depth", func() {
			b, depth := settle(1.2)

			Expect(b.AtEquilibrium).To(BeTrue())
			Expect(b.Phase).To(Equal(fluid.Submerged))
			Expect(math.Abs(b.Velocity.Y)).To(BeNumerically("<", fluid.DefaultParams().EquilibriumSpeed))
			Expect(depth).To(BeNumerically("~", archimedesDepth(0.4, 1.2, 1000), 0.002))
		})

		It("rides deeper as mass grows", func() {
			light, lightDepth := settle(1.2)
			heavy, heavyDepth := settle(2.4)

			Expect(light.AtEquilibrium).To(BeTrue())
			Expect(heavy.AtEquilibrium).To(BeTrue())
			Expect(heavyDepth).To(BeNumerically(">", lightDepth))
			Expect(heavyDepth).To(BeNumerically("~", archimedesDepth(0.4, 2.4, 1000), 0.002))
		})
	})

	It("clears equilibrium when the water leaves and re-enters", func() {
		b, _ := pool.Spawn(poolCentreX, restSurface-0.2-0.4, 0.4, 1.2)
		run(pool, 1000, 0.01)
		Expect(b.AtEquilibrium).To(BeTrue())

		// drop the water level well below the body
		pool.Surface().Rebaseline(30)

		rep := pool.Tick(0.01)
		Expect(rep.Exits).To(ConsistOf(b.ID))
		Expect(b.Phase).To(Equal(fluid.Airborne))
		Expect(b.AtEquilibrium).To(BeFalse())

		entries, _ := run(pool, 100, 0.01)
		Expect(entries).To(Equal(1))
		Expect(b.InWater()).To(BeTrue())

		run(pool, 1000, 0.01)
		Expect(b.Phase).To(Equal(fluid.Submerged))
		Expect(b.AtEquilibrium).To(BeTrue())
	})

	It("reports steady forces only for bodies in the water", func() {
		b, _ := pool.Spawn(poolCentreX, 1, 0.4, 1.2)
		_, ok := pool.ForcesOn(b)
		Expect(ok).To(BeFalse())

		b.Position.Y = restSurface
		b.Velocity.Y = 0.5
		f, ok := pool.ForcesOn(b)
		Expect(ok).To(BeTrue())
		Expect(f.Buoyancy).To(BeNumerically("<", 0))
		Expect(f.Viscous).To(BeNumerically("<", 0))
		Expect(f.Total()).To(BeNumerically("<", 0))
	})

	It("brakes bodies rising faster than 10 m/s", func() {
		b, _ := pool.Spawn(poolCentreX, restSurface, 0.4, 1.2)
		b.Phase = fluid.Submerged
		// let the volume balance converge without moving the body
		for i := 0; i < 10; i++ {
			pool.Tick(1e-9)
		}

		b.Velocity.Y = -12
		f, ok := pool.ForcesOn(b)
		Expect(ok).To(BeTrue())

		pool.Tick(0.01)
		want := -12*0.7 + (fluid.DefaultParams().Gravity+f.Total()/b.Mass())*0.01
		Expect(b.Velocity.Y).To(BeNumerically("~", want, 1e-9))
	})

	It("snapshots surface and bodies without sharing state", func() {
		b, _ := pool.Spawn(poolCentreX, 1, 0.4, 1.2)
		snap := pool.Snapshot()
		Expect(snap.Columns).To(HaveLen(pool.Surface().Len()))
		Expect(snap.Bodies).To(HaveLen(1))
		Expect(snap.Bodies[0].Radius).To(Equal(0.4))

		pool.Tick(0.01)
		Expect(snap.Bodies[0].Position.Y).To(Equal(1.0))
		Expect(b.Position.Y).NotTo(Equal(1.0))
	})
})
