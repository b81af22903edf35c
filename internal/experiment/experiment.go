// Package experiment assembles headless water runs from a configuration.
package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/splashsim/internal/config"
	"github.com/san-kum/splashsim/internal/fluid"
	"github.com/san-kum/splashsim/internal/metrics"
	"github.com/san-kum/splashsim/internal/sim"
	"github.com/san-kum/splashsim/internal/storage"
)

type Experiment struct {
	cfg    *config.Config
	preset string
	pool   *fluid.Pool
	runner *sim.Runner
	log    *log.Logger
}

func New(cfg *config.Config, preset string, logger *log.Logger) *Experiment {
	return &Experiment{cfg: cfg, preset: preset, log: logger}
}

// Setup validates the configuration, builds the pool and drops the
// configured bodies. extra bodies are spawned after the configured ones.
func (e *Experiment) Setup(extra ...config.BodySpawn) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	pool, err := fluid.NewPool(e.cfg.Geometry(), e.cfg.Params())
	if err != nil {
		return err
	}

	bodies := append(e.cfg.SpawnList(), extra...)
	if len(bodies) == 0 {
		return fmt.Errorf("experiment: no bodies to drop")
	}
	for _, b := range bodies {
		if _, err := pool.Spawn(b.X, b.Y, b.Radius, b.Mass); err != nil {
			return fmt.Errorf("spawn at (%v, %v): %w", b.X, b.Y, err)
		}
	}

	e.pool = pool
	e.runner = sim.New(pool)
	e.runner.SetLogger(e.log)
	for _, m := range metrics.Standard() {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx, sim.Config{
		Dt:            e.cfg.Sim.Dt,
		Duration:      e.cfg.Sim.Duration,
		RecordEvery:   e.cfg.Sim.RecordEvery,
		ValidateState: true,
	})
}

func (e *Experiment) Runner() *sim.Runner { return e.runner }
func (e *Experiment) Pool() *fluid.Pool   { return e.pool }

// Metadata describes the run for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	meta := storage.RunMetadata{
		Scene:    "water",
		Preset:   e.preset,
		Dt:       e.cfg.Sim.Dt,
		Duration: e.cfg.Sim.Duration,
	}
	if e.pool != nil {
		for _, b := range e.pool.Bodies() {
			meta.Bodies = append(meta.Bodies, storage.BodyInfo{ID: b.ID, Radius: b.Radius(), Mass: b.Mass()})
		}
	}
	return meta
}
