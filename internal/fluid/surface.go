package fluid

import (
	"fmt"
	"math"
)

// energyLossFactor is the share of the weaker opposing neighbour velocity
// removed where two wave fronts meet.
const energyLossFactor = 0.2

// centreKick is the extra share of an impulse applied to the impacted column.
const centreKick = 0.2

// Bounds is the pool extent in surface units. Top is the current baseline.
type Bounds struct {
	Left, Right, Top, Bottom float64
}

// Column is one render sample of the surface.
type Column struct {
	X, Height float64
}

// Surface is a 1-D height field. Heights and velocities always have the
// same length, and column i sits at x = Left + i*dx.
type Surface struct {
	heights    []float64
	velocities []float64
	next       []float64

	bounds  Bounds
	restTop float64
	dx      float64

	waveSpeed float64
	damping   float64
}

func NewSurface(geo Geometry, waveSpeed, damping float64) (*Surface, error) {
	if err := geo.validate(); err != nil {
		return nil, err
	}
	if !finite(waveSpeed) || waveSpeed <= 0 {
		return nil, fmt.Errorf("%w: wave speed must be positive, got %v", ErrInvalidParameter, waveSpeed)
	}
	if !finite(damping) || damping <= 0 || damping > 1 {
		return nil, fmt.Errorf("%w: wave damping must be in (0, 1], got %v", ErrInvalidParameter, damping)
	}

	n := geo.Resolution + 1
	s := &Surface{
		heights:    make([]float64, n),
		velocities: make([]float64, n),
		next:       make([]float64, n),
		bounds: Bounds{
			Left:   geo.Left,
			Right:  geo.Left + geo.Width,
			Top:    geo.Top,
			Bottom: geo.Top + geo.Height,
		},
		restTop:   geo.Top,
		dx:        geo.Width / float64(geo.Resolution),
		waveSpeed: waveSpeed,
		damping:   damping,
	}
	s.Reset()
	return s, nil
}

// Reset flattens the surface at its construction baseline and stops all motion.
func (s *Surface) Reset() {
	s.bounds.Top = s.restTop
	for i := range s.heights {
		s.heights[i] = s.restTop
		s.velocities[i] = 0
	}
}

func (s *Surface) Len() int               { return len(s.heights) }
func (s *Surface) Bounds() Bounds         { return s.bounds }
func (s *Surface) ColumnSpacing() float64 { return s.dx }
func (s *Surface) Width() float64         { return s.bounds.Right - s.bounds.Left }

// ColumnIndex maps a surface-space x to the column at or left of it.
func (s *Surface) ColumnIndex(x float64) (int, bool) {
	if math.IsNaN(x) || x < s.bounds.Left || x > s.bounds.Right {
		return 0, false
	}
	i := int((x - s.bounds.Left) / s.dx)
	if i >= len(s.heights) {
		i = len(s.heights) - 1
	}
	return i, true
}

func (s *Surface) HeightAt(i int) (float64, bool) {
	if i < 0 || i >= len(s.heights) {
		return 0, false
	}
	return s.heights[i], true
}

func (s *Surface) VelocityAt(i int) (float64, bool) {
	if i < 0 || i >= len(s.velocities) {
		return 0, false
	}
	return s.velocities[i], true
}

// ApplyImpulse depresses column i by heightDelta and pushes velocity out of
// the neighbourhood with exp(-|offset|/spread) falloff. Neighbours past the
// array edges are skipped; an out-of-range i does nothing.
func (s *Surface) ApplyImpulse(i int, heightDelta, velocityDelta, spread float64) {
	if i < 0 || i >= len(s.heights) {
		return
	}
	s.heights[i] += heightDelta
	s.velocities[i] -= velocityDelta * centreKick

	if spread <= 0 {
		s.velocities[i] -= velocityDelta
		return
	}
	reach := int(spread)
	for off := -reach; off <= reach; off++ {
		j := i + off
		if j < 0 || j >= len(s.velocities) {
			continue
		}
		s.velocities[j] -= velocityDelta * math.Exp(-math.Abs(float64(off))/spread)
	}
}

// Propagate advances the wave equation by dt. Columns 0 and N-1 are held fixed.
func (s *Surface) Propagate(dt float64) {
	h, v := s.heights, s.velocities
	copy(s.next, h)

	for i := 1; i < len(h)-1; i++ {
		accel := (h[i-1] + h[i+1] - 2*h[i]) * s.waveSpeed
		v[i] += accel * dt
		v[i] *= s.damping
		s.next[i] += v[i] * dt

		// opposing fronts meet: bleed energy instead of letting them ring
		if (v[i] > 0 && v[i-1] < 0) || (v[i] < 0 && v[i+1] > 0) {
			opposing := math.Min(math.Abs(v[i-1]), math.Abs(v[i+1]))
			if v[i] > 0 {
				v[i] -= opposing * energyLossFactor
			} else {
				v[i] += opposing * energyLossFactor
			}
		}
	}
	s.heights, s.next = s.next, s.heights
}

// Rebaseline shifts every height and the baseline by delta.
func (s *Surface) Rebaseline(delta float64) {
	s.bounds.Top += delta
	for i := range s.heights {
		s.heights[i] += delta
	}
}

// Activity is the sum of absolute column velocities.
func (s *Surface) Activity() float64 {
	sum := 0.0
	for _, v := range s.velocities {
		sum += math.Abs(v)
	}
	return sum
}

// Columns returns the render samples in column order.
func (s *Surface) Columns() []Column {
	cols := make([]Column, len(s.heights))
	for i, h := range s.heights {
		cols[i] = Column{X: s.bounds.Left + float64(i)*s.dx, Height: h}
	}
	return cols
}
