package metrics

import (
	"math"

	"github.com/san-kum/splashsim/internal/fluid"
)

// BaselineShift is the highest water level rise seen, in metres.
type BaselineShift struct {
	name string
	max  float64
}

func NewBaselineShift() *BaselineShift {
	return &BaselineShift{name: "baseline_shift"}
}

func (b *BaselineShift) Name() string { return b.name }

func (b *BaselineShift) Observe(snap fluid.Snapshot, t float64) {
	b.max = math.Max(b.max, snap.Baseline)
}

func (b *BaselineShift) Value() float64 { return b.max }
func (b *BaselineShift) Reset()         { b.max = 0 }

// MaxImmersion is the deepest any body has sat below its local surface.
type MaxImmersion struct {
	name string
	max  float64
}

func NewMaxImmersion() *MaxImmersion {
	return &MaxImmersion{name: "max_immersion"}
}

func (m *MaxImmersion) Name() string { return m.name }

func (m *MaxImmersion) Observe(snap fluid.Snapshot, t float64) {
	for _, b := range snap.Bodies {
		if b.Phase == fluid.Airborne {
			continue
		}
		m.max = math.Max(m.max, snap.Immersion(b))
	}
}

func (m *MaxImmersion) Value() float64 { return m.max }
func (m *MaxImmersion) Reset()         { m.max = 0 }
