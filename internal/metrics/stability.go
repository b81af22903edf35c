package metrics

import (
	"math"

	"github.com/san-kum/splashsim/internal/fluid"
)

// Stability is the fraction of ticks whose surface stayed finite and inside
// the pool, allowing threshold surface units of splash above the baseline.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap fluid.Snapshot, t float64) {
	s.samples++
	lo, hi := snap.Bounds.Top-s.threshold, snap.Bounds.Bottom
	for _, c := range snap.Columns {
		if math.IsNaN(c.Height) || c.Height < lo || c.Height > hi {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// SettledFraction is the share of bodies at equilibrium on the last tick.
type SettledFraction struct {
	name  string
	value float64
}

func NewSettledFraction() *SettledFraction {
	return &SettledFraction{name: "settled_fraction"}
}

func (s *SettledFraction) Name() string { return s.name }

func (s *SettledFraction) Observe(snap fluid.Snapshot, t float64) {
	if len(snap.Bodies) == 0 {
		s.value = 0
		return
	}
	s.value = float64(snap.Settled()) / float64(len(snap.Bodies))
}

func (s *SettledFraction) Value() float64 { return s.value }
func (s *SettledFraction) Reset()         { s.value = 0 }
