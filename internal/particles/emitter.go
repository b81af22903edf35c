// Package particles is a fixed-size particle pool with a handful of emitter
// shapes. Particles move in canvas units per frame; y grows downward.
package particles

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

var ErrUnknownShape = errors.New("particles: unknown shape")

type Shape int

const (
	Torch Shape = iota
	Firework
	Fountain
	Spiral
	Explosion
	Rain
)

var shapeNames = []string{"torch", "firework", "fountain", "spiral", "explosion", "rain"}

func (s Shape) String() string {
	if int(s) < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

func Shapes() []string {
	out := make([]string, len(shapeNames))
	copy(out, shapeNames)
	return out
}

// fadeFrames is the lifetime at which a particle is drawn at full strength.
const fadeFrames = 90.0

const minLifetime = 30

type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   int

	angle        float64
	radius       float64
	angularSpeed float64
}

func (p Particle) Alive() bool { return p.Life > 0 }

// Fade is the draw strength in [0, 1].
func (p Particle) Fade() float64 {
	return math.Max(0, math.Min(1, float64(p.Life)/fadeFrames))
}

type Config struct {
	Shape    Shape
	Count    int
	Lifetime int     // random extra lifetime range on top of 30 frames
	Gravity  float64 // added to vy per frame for fountain and rain
	Width    float64
	Height   float64
	Seed     int64
}

// Emitter owns Count particles and respawns each one when its life runs out.
type Emitter struct {
	cfg       Config
	originX   float64
	originY   float64
	particles []Particle
	rng       *rand.Rand
}

func NewEmitter(cfg Config) (*Emitter, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("particles: count must be positive, got %d", cfg.Count)
	}
	if cfg.Lifetime <= 0 {
		return nil, fmt.Errorf("particles: lifetime must be positive, got %d", cfg.Lifetime)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("particles: area must be positive, got %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.Shape < Torch || cfg.Shape > Rain {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(cfg.Shape))
	}
	e := &Emitter{
		cfg:     cfg,
		originX: cfg.Width / 2,
		originY: cfg.Height / 2,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
	e.Reset()
	return e, nil
}

// Reset kills every particle; they respawn one frame later.
func (e *Emitter) Reset() {
	e.particles = make([]Particle, e.cfg.Count)
	for i := range e.particles {
		e.particles[i] = Particle{X: e.originX, Y: e.originY}
	}
}

func (e *Emitter) Shape() Shape { return e.cfg.Shape }

func (e *Emitter) SetShape(s Shape) {
	e.cfg.Shape = s
	e.Reset()
}

// SetOrigin moves the emitter and restarts it there.
func (e *Emitter) SetOrigin(x, y float64) {
	e.originX, e.originY = x, y
	e.Reset()
}

func (e *Emitter) Origin() (float64, float64) { return e.originX, e.originY }
func (e *Emitter) Bounds() (float64, float64) { return e.cfg.Width, e.cfg.Height }
func (e *Emitter) Particles() []Particle      { return e.particles }

func (e *Emitter) Alive() int {
	n := 0
	for _, p := range e.particles {
		if p.Alive() {
			n++
		}
	}
	return n
}

// Update advances every particle by one frame.
func (e *Emitter) Update() {
	for i := range e.particles {
		p := &e.particles[i]
		if !p.Alive() {
			e.respawn(p)
			continue
		}

		if e.cfg.Shape == Spiral {
			p.angle += p.angularSpeed
			p.radius += 0.5
			p.X = e.originX + math.Cos(p.angle)*p.radius
			p.Y = e.originY + math.Sin(p.angle)*p.radius
		} else {
			p.X += p.VX
			p.Y += p.VY
		}

		if e.cfg.Shape == Fountain || e.cfg.Shape == Rain {
			p.VY += e.cfg.Gravity
		}
		p.Life--
	}
}

func (e *Emitter) respawn(p *Particle) {
	r := e.rng.Float64
	*p = Particle{X: e.originX, Y: e.originY}

	switch e.cfg.Shape {
	case Torch:
		p.VX = (r() - 0.5) * 1.0
		p.VY = -r()*2.0 - 1.0
	case Firework:
		theta := r() * 2 * math.Pi
		radius := r() * 5
		p.VX, p.VY = radius*math.Cos(theta), radius*math.Sin(theta)
	case Fountain:
		p.VX = (r() - 0.5) * 0.5
		p.VY = -r() * 3.0
	case Spiral:
		p.angle = r() * 2 * math.Pi
		p.angularSpeed = 0.1 + r()*0.2
	case Explosion:
		theta := r() * 2 * math.Pi
		power := 2.5 + r()*2.0
		p.VX, p.VY = power*math.Cos(theta), power*math.Sin(theta)
	case Rain:
		p.X = r() * e.cfg.Width
		p.Y = 0
		p.VX = (r() - 0.5) * 0.2
		p.VY = 1.0 + r()*1.0
	}

	p.Life = minLifetime + e.rng.Intn(e.cfg.Lifetime)
}
