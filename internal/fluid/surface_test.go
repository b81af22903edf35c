package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/splashsim/internal/fluid"
)

func snapshotSurface(s *fluid.Surface) (h, v []float64) {
	for i := 0; i < s.Len(); i++ {
		hi, _ := s.HeightAt(i)
		vi, _ := s.VelocityAt(i)
		h = append(h, hi)
		v = append(v, vi)
	}
	return h, v
}

var _ = Describe("Surface", func() {
	var (
		geo     fluid.Geometry
		surface *fluid.Surface
	)

	BeforeEach(func() {
		geo = fluid.DefaultGeometry()
		var err error
		surface, err = fluid.NewSurface(geo, 5000.5, 0.97)
		Expect(err).NotTo(HaveOccurred())
	})

	It("has resolution+1 flat columns at the top of the pool", func() {
		Expect(surface.Len()).To(Equal(geo.Resolution + 1))
		for _, c := range surface.Columns() {
			Expect(c.Height).To(Equal(geo.Top))
		}
		cols := surface.Columns()
		Expect(cols[0].X).To(Equal(geo.Left))
		Expect(cols[len(cols)-1].X).To(BeNumerically("~", geo.Left+geo.Width, 1e-9))
	})

	It("rejects degenerate geometry", func() {
		bad := geo
		bad.Resolution = 1
		_, err := fluid.NewSurface(bad, 5000.5, 0.97)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))

		bad = geo
		bad.Width = 0
		_, err = fluid.NewSurface(bad, 5000.5, 0.97)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))

		_, err = fluid.NewSurface(geo, 5000.5, 1.5)
		Expect(err).To(MatchError(fluid.ErrInvalidParameter))
	})

	Describe("ColumnIndex", func() {
		It("maps the pool edges to the first and last column", func() {
			i, ok := surface.ColumnIndex(geo.Left)
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(0))

			i, ok = surface.ColumnIndex(geo.Left + geo.Width)
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(geo.Resolution))
		})

		It("fails outside the pool", func() {
			_, ok := surface.ColumnIndex(geo.Left - 0.001)
			Expect(ok).To(BeFalse())
			_, ok = surface.ColumnIndex(geo.Left + geo.Width + 0.001)
			Expect(ok).To(BeFalse())
			_, ok = surface.ColumnIndex(math.NaN())
			Expect(ok).To(BeFalse())
		})

		It("bounds-checks reads", func() {
			_, ok := surface.HeightAt(-1)
			Expect(ok).To(BeFalse())
			_, ok = surface.VelocityAt(surface.Len())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ApplyImpulse", func() {
		It("depresses the impacted column and falls off with distance", func() {
			surface.ApplyImpulse(200, 2, 10, 5)

			h, _ := surface.HeightAt(200)
			Expect(h).To(Equal(geo.Top + 2))

			centre, _ := surface.VelocityAt(200)
			near, _ := surface.VelocityAt(201)
			far, _ := surface.VelocityAt(205)
			outside, _ := surface.VelocityAt(206)
			Expect(centre).To(BeNumerically("~", -12, 1e-9))
			Expect(near).To(BeNumerically("~", -10*math.Exp(-1.0/5), 1e-9))
			Expect(far).To(BeNumerically("~", -10*math.Exp(-1), 1e-9))
			Expect(outside).To(BeZero())
		})

		It("skips neighbours past the array edges", func() {
			Expect(func() { surface.ApplyImpulse(0, 1, 10, 5) }).NotTo(Panic())
			v, _ := surface.VelocityAt(5)
			Expect(v).To(BeNumerically("<", 0))
		})

		It("is a no-op for an out-of-range index", func() {
			surface.ApplyImpulse(100, 1, 5, 5)
			beforeH, beforeV := snapshotSurface(surface)

			surface.ApplyImpulse(-1, 3, 50, 10)
			surface.ApplyImpulse(surface.Len(), 3, 50, 10)
			surface.ApplyImpulse(surface.Len()+3, 3, 50, 10)

			afterH, afterV := snapshotSurface(surface)
			Expect(afterH).To(Equal(beforeH))
			Expect(afterV).To(Equal(beforeV))
		})
	})

	Describe("Propagate", func() {
		It("leaves a flat, still surface untouched", func() {
			surface.Propagate(0.01)
			for _, c := range surface.Columns() {
				Expect(c.Height).To(Equal(geo.Top))
			}
			Expect(surface.Activity()).To(BeZero())
		})

		It("spreads a disturbance to neighbouring columns", func() {
			surface.ApplyImpulse(200, 0, 20, 5)
			for i := 0; i < 20; i++ {
				surface.Propagate(0.01)
			}
			h, _ := surface.HeightAt(215)
			Expect(h).NotTo(Equal(geo.Top))
		})

		It("holds the boundary columns fixed", func() {
			surface.ApplyImpulse(1, 0, 20, 5)
			surface.ApplyImpulse(surface.Len()-2, 0, 20, 5)
			for i := 0; i < 50; i++ {
				surface.Propagate(0.01)
			}
			first, _ := surface.HeightAt(0)
			last, _ := surface.HeightAt(surface.Len() - 1)
			Expect(first).To(Equal(geo.Top))
			Expect(last).To(Equal(geo.Top))
		})

		It("dissipates wave activity once no new impulses arrive", func() {
			surface.ApplyImpulse(200, 0, 20, 5)

			const window = 50
			prevPeak := math.Inf(1)
			for w := 0; w < 12; w++ {
				peak := 0.0
				for i := 0; i < window; i++ {
					surface.Propagate(0.01)
					peak = math.Max(peak, surface.Activity())
				}
				Expect(peak).To(BeNumerically("<=", prevPeak))
				prevPeak = peak
			}
			Expect(surface.Activity()).To(BeNumerically("<", 10))
		})
	})

	It("rebaselines every column and the top bound", func() {
		surface.ApplyImpulse(100, 1, 0, 5)
		surface.Rebaseline(-4)

		Expect(surface.Bounds().Top).To(Equal(geo.Top - 4))
		h, _ := surface.HeightAt(100)
		Expect(h).To(Equal(geo.Top + 1 - 4))
		h, _ = surface.HeightAt(0)
		Expect(h).To(Equal(geo.Top - 4))
	})

	It("resets to a flat, still surface at the construction baseline", func() {
		surface.ApplyImpulse(100, 1, 10, 5)
		surface.Rebaseline(-3)
		surface.Reset()

		Expect(surface.Bounds().Top).To(Equal(geo.Top))
		Expect(surface.Activity()).To(BeZero())
	})
})
