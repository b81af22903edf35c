package scene

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/splashsim/internal/config"
	"github.com/san-kum/splashsim/internal/fluid"
	"github.com/san-kum/splashsim/internal/sim"
)

const discSegments = 24

// Water is the pool scene: spheres dropped into a height-field surface.
type Water struct {
	cfg     config.Config
	pool    *fluid.Pool
	stepper *sim.Stepper
	log     *log.Logger

	radius float64
	mass   float64

	entries int
	exits   int
}

func NewWater(cfg config.Config, logger *log.Logger) (*Water, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := fluid.NewPool(cfg.Geometry(), cfg.Params())
	if err != nil {
		return nil, err
	}
	w := &Water{
		cfg:     cfg,
		pool:    pool,
		stepper: sim.NewStepper(pool, cfg.Sim.Dt, cfg.Sim.MaxSubsteps),
		log:     logger,
		radius:  cfg.Spawn.Radius,
		mass:    cfg.Spawn.Mass,
	}
	if err := w.spawnConfigured(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Water) spawnConfigured() error {
	for _, b := range w.cfg.SpawnList() {
		if _, err := w.pool.Spawn(b.X, b.Y, b.Radius, b.Mass); err != nil {
			return fmt.Errorf("spawn at (%v, %v): %w", b.X, b.Y, err)
		}
	}
	return nil
}

func (w *Water) Name() string        { return "water" }
func (w *Water) Pool() *fluid.Pool   { return w.pool }
func (w *Water) Elapsed() float64    { return w.stepper.Elapsed() }
func (w *Water) Radius() float64     { return w.radius }
func (w *Water) Mass() float64       { return w.mass }
func (w *Water) SetRadius(r float64) { w.radius = clampRange(r, config.MinRadius, config.MaxRadius) }
func (w *Water) SetMass(m float64)   { w.mass = clampRange(m, config.MinMass, config.MaxMass) }

func (w *Water) Update(frame float64) {
	ticks, rep := w.stepper.Advance(frame)
	if ticks == 0 {
		return
	}
	for _, id := range rep.Entries {
		w.entries++
		w.log.Debug("splash", "body", id, "t", w.stepper.Elapsed())
	}
	for _, id := range rep.Exits {
		w.exits++
		w.log.Debug("body left water", "body", id, "t", w.stepper.Elapsed())
	}
}

// Reset flattens the pool and respawns the configured bodies.
func (w *Water) Reset() {
	w.pool.Reset()
	w.stepper = sim.NewStepper(w.pool, w.cfg.Sim.Dt, w.cfg.Sim.MaxSubsteps)
	w.entries, w.exits = 0, 0
	if err := w.spawnConfigured(); err != nil {
		w.log.Warn("respawn failed", "err", err)
	}
}

// Spawn drops a body with the current radius and mass at a viewport point.
func (w *Water) Spawn(fx, fy float64) error {
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return fmt.Errorf("spawn point (%v, %v) outside viewport", fx, fy)
	}
	left, right, bottom := w.view()
	scale := w.cfg.Pool.Scale
	x := (left + fx*(right-left)) / scale
	y := fy * bottom / scale
	b, err := w.pool.Spawn(x, y, w.radius, w.mass)
	if err != nil {
		return err
	}
	w.log.Info("spawned", "body", b.ID, "x", x, "y", y, "radius", w.radius, "mass", w.mass)
	return nil
}

// view is the drawn region in surface units: the pool width and everything
// from y=0 down to the floor.
func (w *Water) view() (left, right, bottom float64) {
	b := w.pool.Surface().Bounds()
	return b.Left, b.Right, b.Bottom
}

func (w *Water) Draw(p Plotter, pw, ph int) {
	left, right, bottom := w.view()
	px := func(x float64) int { return toPixel(x, left, right, pw) }
	py := func(y float64) int { return toPixel(y, 0, bottom, ph) }

	snap := w.pool.Snapshot()
	floor := py(bottom)
	p.DrawLine(0, py(snap.Bounds.Top), 0, floor)
	p.DrawLine(pw-1, py(snap.Bounds.Top), pw-1, floor)
	p.DrawLine(0, floor, pw-1, floor)

	for i := 1; i < len(snap.Columns); i++ {
		a, b := snap.Columns[i-1], snap.Columns[i]
		p.DrawLine(px(a.X), py(a.Height), px(b.X), py(b.Height))
	}

	scale := snap.Scale
	for _, b := range snap.Bodies {
		cx, cy, r := b.Position.X*scale, b.Position.Y*scale, b.Radius*scale
		prevX, prevY := px(cx+r), py(cy)
		for s := 1; s <= discSegments; s++ {
			a := 2 * math.Pi * float64(s) / discSegments
			x, y := px(cx+r*math.Cos(a)), py(cy+r*math.Sin(a))
			p.DrawLine(prevX, prevY, x, y)
			prevX, prevY = x, y
		}
		if b.AtEquilibrium {
			p.Set(px(cx), py(cy))
		}
	}
}

func (w *Water) Status() []Stat {
	snap := w.pool.Snapshot()
	stats := []Stat{
		{"time", fmt.Sprintf("%.2fs", w.stepper.Elapsed())},
		{"bodies", fmt.Sprintf("%d", len(snap.Bodies))},
		{"settled", fmt.Sprintf("%d", snap.Settled())},
		{"splashes", fmt.Sprintf("%d", w.entries)},
		{"level", fmt.Sprintf("%+.2fmm", snap.Baseline*1000)},
		{"activity", fmt.Sprintf("%.1f", snap.Activity)},
		{"radius", fmt.Sprintf("%.2fm", w.radius)},
		{"mass", fmt.Sprintf("%.1fkg", w.mass)},
	}
	return append(stats, w.dragStats()...)
}

// dragStats describes the water forces on the newest body in the water.
func (w *Water) dragStats() []Stat {
	bodies := w.pool.Bodies()
	for i := len(bodies) - 1; i >= 0; i-- {
		if f, ok := w.pool.ForcesOn(bodies[i]); ok {
			return []Stat{
				{"Re", fmt.Sprintf("%.0f", f.Reynolds)},
				{"Cd", fmt.Sprintf("%.2f", f.Drag)},
				{"buoyancy", fmt.Sprintf("%.1fN", -f.Buoyancy)},
			}
		}
	}
	return []Stat{{"Re", "-"}, {"Cd", "-"}, {"buoyancy", "-"}}
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
