package fluid

import "math"

const (
	laminarLimit     = 2000.0
	turbulentLimit   = 10000.0
	turbulentRelief  = 0.6
	minDragCoeff     = 0.1
	maxDragCoeff     = 1.2
	vortexCoeff      = 0.2
	slowVortexSpeed  = 0.2
	turbulentShare   = 0.9
	surfaceDampCoeff = 2.0
)

// Forces is the vertical breakdown of the coupling force on a body in water.
// Every term is a signed y component (positive is downward).
type Forces struct {
	Stokes    float64
	Buoyancy  float64
	Turbulent float64
	Vortex    float64
	Viscous   float64
	Surface   float64
	Air       float64

	Reynolds float64
	Drag     float64 // drag coefficient used for Turbulent
}

func (f Forces) Total() float64 {
	return f.Stokes + f.Buoyancy + f.Turbulent + f.Vortex + f.Viscous + f.Surface + f.Air
}

// Reynolds returns the sphere Reynolds number, floored at 1.
func Reynolds(speed, diameter, density, viscosity float64) float64 {
	return math.Max(1, density*math.Abs(speed)*diameter/viscosity)
}

// DragCoefficient picks the laminar 24/Re law below Re 2000 and a turbulent
// correlation above, clamped to [0.1, 1.2].
func DragCoefficient(re float64) float64 {
	cd := 0.47 + 0.5/math.Sqrt(re)
	if re < laminarLimit {
		cd = 24 / re
	}
	return clamp(cd, minDragCoeff, maxDragCoeff)
}

// BuoyancyFactor ramps buoyancy in with immersion depth. depth is in
// surface units and radius in metres, so the ramp is nearly complete a few
// surface units below the waterline.
func BuoyancyFactor(depth, radius float64) float64 {
	return 1 - math.Exp(-depth/(2*radius))
}

// approachDamping trims buoyancy for bodies moving fast through the surface.
func approachDamping(vy float64) float64 {
	return math.Min(1, 0.8+0.2*math.Exp(-math.Abs(vy)/2))
}

// submergedForces evaluates the steady coupling terms for a body immersed
// h metres below the local surface. Volumes use metres; the depth ramps
// (buoyancy onset, viscous depth factor, surface damping, exposed area)
// measure depth in surface units against the radius in metres.
func submergedForces(b *Body, h float64, p Params) Forces {
	vy := b.Velocity.Y
	r := b.radius
	rho := p.WaterDensity
	vol := capVolume(r, h)
	ramp := h * p.Scale
	area := b.CrossSection()
	effArea := area * vol / b.volume

	var f Forces
	f.Stokes = -6 * math.Pi * p.WaterViscosity * r * vy
	f.Buoyancy = -rho * p.Gravity * vol * BuoyancyFactor(ramp, r) * approachDamping(vy)

	f.Reynolds = Reynolds(vy, 2*r, rho, p.WaterViscosity)
	f.Drag = DragCoefficient(f.Reynolds)
	turbulent := 0.5 * f.Drag * rho * effArea * vy * math.Abs(vy)
	if f.Reynolds > turbulentLimit {
		turbulent *= turbulentRelief
	}
	f.Turbulent = -turbulentShare * turbulent

	f.Vortex = -vortexCoeff * rho * effArea * vy
	if math.Abs(vy) < slowVortexSpeed {
		f.Vortex *= 0.5
	}

	depthFactor := 1 + ramp/(2*r)
	f.Viscous = -rho * vol * p.Gravity / (10 * depthFactor) * vy
	f.Surface = -surfaceDampCoeff * (1 - math.Exp(-ramp/r)) * vy

	exposed := math.Max(0, 1-ramp/(2*r))
	f.Air = -p.AirDensity * area * vy * vy * exposed
	return f
}

// impactForce is the average force needed to stop the body's vertical
// motion over the impact duration.
func impactForce(b *Body, duration float64) float64 {
	return b.mass * math.Abs(b.Velocity.Y) / duration
}
