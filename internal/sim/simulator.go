package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/splashsim/internal/fluid"
	"github.com/san-kum/splashsim/internal/logging"
)

// Runner drives a pool for a fixed duration and records what happened.
type Runner struct {
	pool      *fluid.Pool
	metrics   []Metric
	observers []Observer
	log       *log.Logger
}

func New(pool *fluid.Pool) *Runner {
	return &Runner{
		pool:      pool,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.Discard(),
	}
}

func (r *Runner) AddMetric(m Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)  { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(l *log.Logger) { r.log = l }
func (r *Runner) Pool() *fluid.Pool       { return r.pool }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg, r.pool.Params()); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Events:  make([]Event, 0),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.Samples = append(result.Samples, sample(r.pool.Snapshot(), t))
	r.log.Debug("run started", "steps", steps, "dt", cfg.Dt, "bodies", len(r.pool.Bodies()))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		rep := r.pool.Tick(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		for _, id := range rep.Entries {
			result.Events = append(result.Events, Event{Time: t, Step: i, Body: id, Kind: Entry})
			r.log.Debug("body entered water", "body", id, "t", t)
		}
		for _, id := range rep.Exits {
			result.Events = append(result.Events, Event{Time: t, Step: i, Body: id, Kind: Exit})
			r.log.Debug("body left water", "body", id, "t", t)
		}

		snap := r.pool.Snapshot()
		for _, m := range r.metrics {
			m.Observe(snap, t)
		}
		for _, obs := range r.observers {
			obs.OnTick(snap, rep, t)
		}

		if cfg.ValidateState && !stateValid(snap) {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			r.log.Error("simulation diverged", "step", i, "t", t)
			break
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Samples = append(result.Samples, sample(snap, t))
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	r.log.Debug("run finished", "steps", result.StepsTaken, "events", len(result.Events))

	return result, nil
}

func validateConfig(cfg Config, params fluid.Params) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if !params.StableStep(cfg.Dt) {
		return fmt.Errorf("%w: dt %v > %.5f for wave_speed %v", ErrUnstableStep, cfg.Dt, params.MaxStableStep(), params.WaveSpeed)
	}
	return nil
}

func stateValid(snap fluid.Snapshot) bool {
	for _, b := range snap.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	for _, c := range snap.Columns {
		if math.IsNaN(c.Height) || math.IsInf(c.Height, 0) {
			return false
		}
	}
	return true
}
