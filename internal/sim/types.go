package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/splashsim/internal/fluid"
)

// ErrUnstableStep is returned for a dt beyond the pool's wave stability bound.
var ErrUnstableStep = errors.New("sim: time step exceeds wave stability bound")

type Metric interface {
	Name() string
	Observe(snap fluid.Snapshot, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(snap fluid.Snapshot, rep fluid.TickReport, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	RecordEvery   int // keep every Nth tick; 0 or 1 keeps all
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

type BodySample struct {
	ID            int
	Y, VY         float64
	Phase         fluid.Phase
	AtEquilibrium bool
}

type Sample struct {
	Time     float64
	Baseline float64
	Activity float64
	Bodies   []BodySample
}

type EventKind string

const (
	Entry EventKind = "entry"
	Exit  EventKind = "exit"
)

type Event struct {
	Time float64
	Step int
	Body int
	Kind EventKind
}

type Result struct {
	Samples    []Sample
	Events     []Event
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded sample.
func (r *Result) Final() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func sample(snap fluid.Snapshot, t float64) Sample {
	s := Sample{
		Time:     t,
		Baseline: snap.Baseline,
		Activity: snap.Activity,
		Bodies:   make([]BodySample, len(snap.Bodies)),
	}
	for i, b := range snap.Bodies {
		s.Bodies[i] = BodySample{
			ID:            b.ID,
			Y:             b.Position.Y,
			VY:            b.Velocity.Y,
			Phase:         b.Phase,
			AtEquilibrium: b.AtEquilibrium,
		}
	}
	return s
}
