package analysis

import (
	"math"

	"github.com/san-kum/splashsim/internal/fluid"
)

// Ripple is the strongest non-constant mode of the surface.
type Ripple struct {
	Wavelength float64 // metres, 0 for a flat surface
	Amplitude  float64 // metres
	Bin        int
}

// Dominant finds the strongest mode of heights sampled every dx units.
func Dominant(heights []float64, dx float64) Ripple {
	if len(heights) < 2 || dx <= 0 {
		return Ripple{}
	}

	mean := 0.0
	for _, h := range heights {
		mean += h
	}
	mean /= float64(len(heights))

	detrended := make([]float64, len(heights))
	for i, h := range heights {
		detrended[i] = h - mean
	}

	ps := PowerSpectrum(detrended)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] < 1e-12 {
		return Ripple{}
	}

	n := nextPow2(len(heights))
	return Ripple{
		Wavelength: float64(n) * dx / float64(best),
		Amplitude:  2 * ps[best] / float64(len(heights)),
		Bin:        best,
	}
}

// SurfaceRipple converts the snapshot's columns to metres before analysis.
func SurfaceRipple(snap fluid.Snapshot) Ripple {
	if len(snap.Columns) < 2 || snap.Scale <= 0 {
		return Ripple{}
	}
	heights := make([]float64, len(snap.Columns))
	for i, c := range snap.Columns {
		heights[i] = c.Height / snap.Scale
	}
	dx := (snap.Columns[1].X - snap.Columns[0].X) / snap.Scale
	return Dominant(heights, math.Abs(dx))
}
