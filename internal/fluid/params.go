package fluid

import (
	"fmt"
	"math"
)

// Params holds the physical constants shared by the surface and the bodies.
type Params struct {
	Gravity         float64
	WaveDamping     float64 // multiplicative velocity damping per propagation step
	WaveSpeed       float64 // Laplacian stiffness, per second squared
	WaterDensity    float64
	WaterViscosity  float64 // dynamic viscosity, Pa·s
	AirDensity      float64
	DragCoefficient float64 // sphere drag coefficient in air

	Scale float64 // surface units per metre

	ImpactDuration   float64 // seconds over which an entry impact is spread
	EquilibriumForce float64
	EquilibriumSpeed float64
	VolumeEpsilon    float64 // smallest displaced-volume change that moves the baseline
}

func DefaultParams() Params {
	return Params{
		Gravity:          9.81,
		WaveDamping:      0.97,
		WaveSpeed:        5000.5,
		WaterDensity:     1000,
		WaterViscosity:   0.001002,
		AirDensity:       1.225,
		DragCoefficient:  0.47,
		Scale:            100,
		ImpactDuration:   0.02,
		EquilibriumForce: 20,
		EquilibriumSpeed: 0.001,
		VolumeEpsilon:    1e-4,
	}
}

func (p Params) validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"gravity", p.Gravity},
		{"wave speed", p.WaveSpeed},
		{"water density", p.WaterDensity},
		{"water viscosity", p.WaterViscosity},
		{"scale", p.Scale},
		{"impact duration", p.ImpactDuration},
	}
	for _, c := range checks {
		if !finite(c.v) || c.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, c.name, c.v)
		}
	}
	if !finite(p.WaveDamping) || p.WaveDamping <= 0 || p.WaveDamping > 1 {
		return fmt.Errorf("%w: wave damping must be in (0, 1], got %v", ErrInvalidParameter, p.WaveDamping)
	}
	if p.AirDensity < 0 || p.DragCoefficient < 0 {
		return fmt.Errorf("%w: air density and drag coefficient must not be negative", ErrInvalidParameter)
	}
	return nil
}

// StableStep reports whether the explicit wave update is stable at dt.
// The scheme uses an unscaled three-point Laplacian, so the bound is
// WaveSpeed*dt^2 <= 1.
func (p Params) StableStep(dt float64) bool {
	return p.WaveSpeed*dt*dt <= 1
}

// MaxStableStep is the largest dt for which StableStep holds.
func (p Params) MaxStableStep() float64 {
	return 1 / math.Sqrt(p.WaveSpeed)
}

// Geometry places the pool in surface units.
type Geometry struct {
	Left, Top     float64
	Width, Height float64
	Resolution    int // number of column intervals; the surface has Resolution+1 columns
}

func DefaultGeometry() Geometry {
	return Geometry{Left: 50, Top: 250, Width: 700, Height: 300, Resolution: 400}
}

func (g Geometry) validate() error {
	if !finite(g.Left) || !finite(g.Top) {
		return fmt.Errorf("%w: pool origin must be finite", ErrInvalidParameter)
	}
	if !finite(g.Width) || g.Width <= 0 || !finite(g.Height) || g.Height <= 0 {
		return fmt.Errorf("%w: pool size must be positive, got %vx%v", ErrInvalidParameter, g.Width, g.Height)
	}
	if g.Resolution < 2 {
		return fmt.Errorf("%w: resolution must be at least 2, got %d", ErrInvalidParameter, g.Resolution)
	}
	return nil
}
