package scene

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/splashsim/internal/config"
	"github.com/san-kum/splashsim/internal/particles"
)

const (
	particleFrame     = 1.0 / 60
	particleMaxFrames = 4

	particleWidth  = 640.0
	particleHeight = 360.0
)

// Particles hosts a single emitter; Spawn moves it and Next cycles its shape.
type Particles struct {
	emitter *particles.Emitter
	log     *log.Logger
	acc     float64
}

func NewParticles(cfg config.Config, logger *log.Logger) (*Particles, error) {
	shape, err := particles.ParseShape(cfg.Particles.Shape)
	if err != nil {
		return nil, err
	}
	e, err := particles.NewEmitter(particles.Config{
		Shape:    shape,
		Count:    cfg.Particles.Count,
		Lifetime: cfg.Particles.Lifetime,
		Gravity:  cfg.Particles.Gravity,
		Width:    particleWidth,
		Height:   particleHeight,
		Seed:     time.Now().UnixNano(),
	})
	if err != nil {
		return nil, err
	}
	return &Particles{emitter: e, log: logger}, nil
}

func (s *Particles) Name() string                { return "particles" }
func (s *Particles) Emitter() *particles.Emitter { return s.emitter }
func (s *Particles) Reset()                      { s.emitter.Reset() }

// Update runs the emitter at a fixed 60 frames per second of wall time.
func (s *Particles) Update(frame float64) {
	if !(frame > 0) {
		return
	}
	s.acc += frame
	if limit := particleFrame * particleMaxFrames; s.acc > limit {
		s.acc = limit
	}
	for s.acc >= particleFrame {
		s.emitter.Update()
		s.acc -= particleFrame
	}
}

func (s *Particles) Spawn(fx, fy float64) error {
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return fmt.Errorf("spawn point (%v, %v) outside viewport", fx, fy)
	}
	s.emitter.SetOrigin(fx*particleWidth, fy*particleHeight)
	return nil
}

func (s *Particles) Next() {
	next := (s.emitter.Shape() + 1) % particles.Shape(len(particles.Shapes()))
	s.emitter.SetShape(next)
	s.log.Info("emitter shape", "shape", next)
}

func (s *Particles) Draw(p Plotter, w, h int) {
	for _, pt := range s.emitter.Particles() {
		if !pt.Alive() || pt.Fade() < 0.15 {
			continue
		}
		p.Set(toPixel(pt.X, 0, particleWidth, w), toPixel(pt.Y, 0, particleHeight, h))
	}
}

func (s *Particles) Status() []Stat {
	x, y := s.emitter.Origin()
	return []Stat{
		{"shape", s.emitter.Shape().String()},
		{"alive", fmt.Sprintf("%d/%d", s.emitter.Alive(), len(s.emitter.Particles()))},
		{"origin", fmt.Sprintf("%.0f,%.0f", x, y)},
	}
}
