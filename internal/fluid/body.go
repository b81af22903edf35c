package fluid

import (
	"fmt"
	"math"
)

// Phase tracks a body's crossing of the water surface.
type Phase int

const (
	Airborne Phase = iota
	JustEntered
	Submerged
)

func (p Phase) String() string {
	switch p {
	case Airborne:
		return "airborne"
	case JustEntered:
		return "entered"
	case Submerged:
		return "submerged"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Body is a rigid sphere. Radius, mass and volume do not change after creation.
type Body struct {
	ID       int
	Position Vec2
	Velocity Vec2

	Phase         Phase
	AtEquilibrium bool

	radius float64
	mass   float64
	volume float64
}

// NewBody creates a resting sphere centred at pos.
func NewBody(pos Vec2, radius, mass float64) (*Body, error) {
	if !finite(radius) || radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidParameter, radius)
	}
	if !finite(mass) || mass <= 0 {
		return nil, fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidParameter, mass)
	}
	if !pos.IsFinite() {
		return nil, fmt.Errorf("%w: position must be finite", ErrInvalidParameter)
	}
	return &Body{
		Position: pos,
		radius:   radius,
		mass:     mass,
		volume:   4.0 / 3.0 * math.Pi * radius * radius * radius,
	}, nil
}

func (b *Body) Radius() float64 { return b.radius }
func (b *Body) Mass() float64   { return b.mass }
func (b *Body) Volume() float64 { return b.volume }

// Bottom is the body's lowest point in metres.
func (b *Body) Bottom() float64 { return b.Position.Y + b.radius }

// InWater reports whether the body has crossed into the fluid.
func (b *Body) InWater() bool { return b.Phase != Airborne }

// CrossSection is the frontal area of the sphere.
func (b *Body) CrossSection() float64 { return math.Pi * b.radius * b.radius }

// GravityAndAirForce returns the weight plus quadratic air drag. In water the
// drag term is dropped since the coupling forces replace it.
func (b *Body) GravityAndAirForce(gravity, airDensity, dragCoefficient float64) Vec2 {
	weight := Vec2{Y: b.mass * gravity}
	if b.InWater() {
		return weight
	}
	vy := b.Velocity.Y
	drag := 0.5 * dragCoefficient * airDensity * vy * vy * b.CrossSection()
	if vy > 0 {
		drag = -drag
	}
	return weight.Add(Vec2{Y: drag})
}

// Integrate advances the body by one semi-implicit Euler step.
func (b *Body) Integrate(force Vec2, dt float64) {
	b.Velocity = b.Velocity.Add(force.Scale(dt / b.mass))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// Immersion is how deep the body's bottom sits below surfaceY, clamped to [0, 2r].
func (b *Body) Immersion(surfaceY float64) float64 {
	return clamp(b.Bottom()-surfaceY, 0, 2*b.radius)
}

// SubmergedVolume is the spherical cap volume below surfaceY.
func (b *Body) SubmergedVolume(surfaceY float64) float64 {
	return capVolume(b.radius, b.Immersion(surfaceY))
}

func capVolume(r, h float64) float64 {
	return math.Pi * h * h * (3*r - h) / 3
}
