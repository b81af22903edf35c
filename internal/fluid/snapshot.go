package fluid

import "math"

// BodyState is a copy of one body for renderers and recorders.
type BodyState struct {
	ID            int
	Position      Vec2
	Velocity      Vec2
	Radius        float64
	Mass          float64
	Phase         Phase
	AtEquilibrium bool
}

// Snapshot is a detached copy of the pool at one instant.
type Snapshot struct {
	Columns  []Column
	Bounds   Bounds
	Scale    float64
	Bodies   []BodyState
	Baseline float64 // water level rise above rest, metres
	Activity float64
}

func (p *Pool) Snapshot() Snapshot {
	bodies := make([]BodyState, len(p.bodies))
	for i, b := range p.bodies {
		bodies[i] = BodyState{
			ID:            b.ID,
			Position:      b.Position,
			Velocity:      b.Velocity,
			Radius:        b.radius,
			Mass:          b.mass,
			Phase:         b.Phase,
			AtEquilibrium: b.AtEquilibrium,
		}
	}
	return Snapshot{
		Columns:  p.surface.Columns(),
		Bounds:   p.surface.Bounds(),
		Scale:    p.params.Scale,
		Bodies:   bodies,
		Baseline: p.BaselineShift(),
		Activity: p.surface.Activity(),
	}
}

// Settled counts bodies flagged at equilibrium.
func (s Snapshot) Settled() int {
	n := 0
	for _, b := range s.Bodies {
		if b.AtEquilibrium {
			n++
		}
	}
	return n
}

// SurfaceYAt returns the recorded surface height in metres under world x.
func (s Snapshot) SurfaceYAt(x float64) (float64, bool) {
	n := len(s.Columns)
	if n < 2 || s.Scale <= 0 {
		return 0, false
	}
	sx := x * s.Scale
	if math.IsNaN(sx) || sx < s.Bounds.Left || sx > s.Bounds.Right {
		return 0, false
	}
	dx := s.Columns[1].X - s.Columns[0].X
	i := int((sx - s.Bounds.Left) / dx)
	if i >= n {
		i = n - 1
	}
	return s.Columns[i].Height / s.Scale, true
}

// Immersion is how deep body b sits below the recorded surface, in metres.
func (s Snapshot) Immersion(b BodyState) float64 {
	y, ok := s.SurfaceYAt(b.Position.X)
	if !ok {
		return 0
	}
	return clamp(b.Position.Y+b.Radius-y, 0, 2*b.Radius)
}
