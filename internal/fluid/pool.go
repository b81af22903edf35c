package fluid

import "math"

const (
	entryBrake      = 0.9 // share of the impact force pushed back on the body
	entryWaveShare  = 0.1 // share of the impact force injected into the surface
	entryDamping    = 0.4
	depthPerNewton  = 0.02
	maxImpactDepth  = 5.0
	spreadPerMetre  = 10.0
	minSpread       = 5.0
	maxSpread       = 50.0
	fastRiseSpeed   = -10.0
	fastRiseDamping = 0.7
)

// TickReport describes what happened during one Pool.Tick.
type TickReport struct {
	Entries []int // IDs of bodies that crossed into the water
	Exits   []int // IDs of bodies that left the water
	Settled int
	Rise    float64 // baseline rise in metres applied this tick
}

// Pool owns the surface and every body in it and advances them together.
type Pool struct {
	surface *Surface
	bodies  []*Body
	params  Params
	geo     Geometry

	restVolume float64 // water volume with nothing displaced, m²
	lastVolume float64 // restVolume plus the displacement last applied to the baseline
	nextID     int
}

func NewPool(geo Geometry, params Params) (*Pool, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	s, err := NewSurface(geo, params.WaveSpeed, params.WaveDamping)
	if err != nil {
		return nil, err
	}
	p := &Pool{surface: s, params: params, geo: geo}
	p.restVolume = (geo.Width / params.Scale) * (geo.Height / params.Scale)
	p.lastVolume = p.restVolume
	return p, nil
}

func (p *Pool) Surface() *Surface  { return p.surface }
func (p *Pool) Bodies() []*Body    { return p.bodies }
func (p *Pool) Params() Params     { return p.params }
func (p *Pool) Geometry() Geometry { return p.geo }

// Spawn drops a resting body at (x, y) in metres.
func (p *Pool) Spawn(x, y, radius, mass float64) (*Body, error) {
	b, err := NewBody(Vec2{X: x, Y: y}, radius, mass)
	if err != nil {
		return nil, err
	}
	p.nextID++
	b.ID = p.nextID
	p.bodies = append(p.bodies, b)
	return b, nil
}

// Reset removes every body, flattens the surface and forgets the
// displacement remembered by volume balancing.
func (p *Pool) Reset() {
	p.surface.Reset()
	p.bodies = nil
	p.lastVolume = p.restVolume
	p.nextID = 0
}

// Tick advances the pool by dt: balance displaced volume, clamp bodies to
// the floor, couple each body to the surface, integrate, then propagate waves.
func (p *Pool) Tick(dt float64) TickReport {
	var rep TickReport
	if !(dt > 0) {
		return rep
	}

	rep.Rise = p.balanceVolume()
	p.clampToFloor()

	for _, b := range p.bodies {
		force := b.GravityAndAirForce(p.params.Gravity, p.params.AirDensity, p.params.DragCoefficient)
		wasIn := b.InWater()

		force = force.Add(p.couple(b, force))

		switch {
		case !wasIn && b.InWater():
			rep.Entries = append(rep.Entries, b.ID)
		case wasIn && !b.InWater():
			rep.Exits = append(rep.Exits, b.ID)
		}

		b.Integrate(force, dt)
		if b.AtEquilibrium {
			rep.Settled++
		}
	}

	p.surface.Propagate(dt)
	return rep
}

// DisplacedVolume sums the spherical cap volume of every body in the water,
// measured against the baseline.
func (p *Pool) DisplacedVolume() float64 {
	top := p.surface.bounds.Top / p.params.Scale
	total := 0.0
	for _, b := range p.bodies {
		if b.InWater() {
			total += b.SubmergedVolume(top)
		}
	}
	return total
}

// BaselineShift is how far the water level has risen above its rest level, in metres.
func (p *Pool) BaselineShift() float64 {
	return (p.surface.restTop - p.surface.bounds.Top) / p.params.Scale
}

func (p *Pool) balanceVolume() float64 {
	total := p.restVolume + p.DisplacedVolume()
	delta := total - p.lastVolume
	if math.Abs(delta) <= p.params.VolumeEpsilon {
		return 0
	}
	rise := delta / (p.geo.Width / p.params.Scale)
	p.surface.Rebaseline(-rise * p.params.Scale)
	p.lastVolume = total
	return rise
}

func (p *Pool) clampToFloor() {
	floor := p.surface.bounds.Bottom / p.params.Scale
	for _, b := range p.bodies {
		if b.Bottom() >= floor {
			b.Position.Y = floor - b.radius
			b.Velocity.Y = 0
			b.AtEquilibrium = true
		}
	}
}

// couple runs the submersion state machine for b and returns the water
// force. external is the gravity/air force already acting on b; equilibrium
// is judged on the net of both.
func (p *Pool) couple(b *Body, external Vec2) Vec2 {
	scale := p.params.Scale
	col, ok := p.surface.ColumnIndex(b.Position.X * scale)
	if !ok {
		return Vec2{}
	}
	surfaceY := p.surface.heights[col] / scale
	bottom := b.Bottom()

	if surfaceY < bottom && b.Phase == Airborne {
		return p.enter(b, col)
	}
	if surfaceY > bottom {
		b.Phase = Airborne
		b.AtEquilibrium = false
		return Vec2{}
	}

	b.Phase = Submerged
	f := submergedForces(b, b.Immersion(surfaceY), p.params)
	if b.Velocity.Y < fastRiseSpeed {
		b.Velocity.Y *= fastRiseDamping
	}

	total := f.Total()
	if math.Abs(total+external.Y) < p.params.EquilibriumForce && math.Abs(b.Velocity.Y) < p.params.EquilibriumSpeed {
		b.Velocity.Y = 0
		b.AtEquilibrium = true
	} else {
		b.AtEquilibrium = false
	}
	return Vec2{Y: total}
}

func (p *Pool) enter(b *Body, col int) Vec2 {
	impact := impactForce(b, p.params.ImpactDuration)

	wave := entryWaveShare * impact
	depth := math.Min(wave*depthPerNewton, maxImpactDepth)
	spread := clamp(b.radius*spreadPerMetre, minSpread, maxSpread)
	p.surface.ApplyImpulse(col, depth, wave, spread)

	b.Velocity.Y *= entryDamping
	b.Phase = JustEntered
	b.AtEquilibrium = false
	return Vec2{Y: -entryBrake * impact}
}

// ForcesOn reports the steady coupling breakdown for b against the current
// surface, without changing any state. ok is false when b is out of the
// water or outside the pool.
func (p *Pool) ForcesOn(b *Body) (Forces, bool) {
	col, ok := p.surface.ColumnIndex(b.Position.X * p.params.Scale)
	if !ok {
		return Forces{}, false
	}
	surfaceY := p.surface.heights[col] / p.params.Scale
	if surfaceY > b.Bottom() {
		return Forces{}, false
	}
	return submergedForces(b, b.Immersion(surfaceY), p.params), true
}

// SurfaceYAt returns the local surface height in metres under world x.
func (p *Pool) SurfaceYAt(x float64) (float64, bool) {
	col, ok := p.surface.ColumnIndex(x * p.params.Scale)
	if !ok {
		return 0, false
	}
	return p.surface.heights[col] / p.params.Scale, true
}
