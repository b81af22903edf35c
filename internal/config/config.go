package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/splashsim/internal/fluid"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultMaxSubsteps = 4
	DefaultFrameRate   = 30
	DefaultRadius      = 0.40
	DefaultMass        = 1.2

	// Ranges offered by the interactive tuning keys.
	MinRadius = 0.1
	MaxRadius = 1.0
	MinMass   = 0.1
	MaxMass   = 500.0
)

var (
	// ErrInvalid indicates a configuration value outside its valid range.
	ErrInvalid = errors.New("config: invalid value")

	// ErrUnstable indicates a time step too large for the explicit wave update.
	ErrUnstable = errors.New("config: time step exceeds wave stability bound")
)

type Config struct {
	Scene     string         `yaml:"scene"`
	Pool      PoolConfig     `yaml:"pool"`
	Fluid     FluidConfig    `yaml:"fluid"`
	Spawn     SpawnConfig    `yaml:"spawn"`
	Sim       SimConfig      `yaml:"sim"`
	Particles ParticleConfig `yaml:"particles"`
}

// PoolConfig places the pool in surface units; Scale is surface units per metre.
type PoolConfig struct {
	Left       float64 `yaml:"left"`
	Top        float64 `yaml:"top"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Resolution int     `yaml:"resolution"`
	Scale      float64 `yaml:"scale"`
}

type FluidConfig struct {
	Gravity          float64 `yaml:"gravity"`
	WaveDamping      float64 `yaml:"wave_damping"`
	WaveSpeed        float64 `yaml:"wave_speed"`
	WaterDensity     float64 `yaml:"water_density"`
	WaterViscosity   float64 `yaml:"water_viscosity"`
	AirDensity       float64 `yaml:"air_density"`
	DragCoefficient  float64 `yaml:"drag_coefficient"`
	ImpactDuration   float64 `yaml:"impact_duration"`
	EquilibriumForce float64 `yaml:"equilibrium_force"`
	EquilibriumSpeed float64 `yaml:"equilibrium_speed"`
	VolumeEpsilon    float64 `yaml:"volume_epsilon"`
}

type SpawnConfig struct {
	Radius float64     `yaml:"radius"`
	Mass   float64     `yaml:"mass"`
	Bodies []BodySpawn `yaml:"bodies,omitempty"`
}

// BodySpawn is a body dropped at the start of a run. Zero radius or mass
// falls back to the SpawnConfig defaults.
type BodySpawn struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius,omitempty"`
	Mass   float64 `yaml:"mass,omitempty"`
}

type SimConfig struct {
	Dt          float64 `yaml:"dt"`
	MaxSubsteps int     `yaml:"max_substeps"`
	Duration    float64 `yaml:"duration"`
	FrameRate   int     `yaml:"frame_rate"`
	RecordEvery int     `yaml:"record_every"`
}

type ParticleConfig struct {
	Shape    string  `yaml:"shape"`
	Count    int     `yaml:"count"`
	Lifetime int     `yaml:"lifetime"`
	Gravity  float64 `yaml:"gravity"`
}

func DefaultConfig() *Config {
	geo := fluid.DefaultGeometry()
	p := fluid.DefaultParams()
	return &Config{
		Scene: "water",
		Pool: PoolConfig{
			Left:       geo.Left,
			Top:        geo.Top,
			Width:      geo.Width,
			Height:     geo.Height,
			Resolution: geo.Resolution,
			Scale:      p.Scale,
		},
		Fluid: FluidConfig{
			Gravity:          p.Gravity,
			WaveDamping:      p.WaveDamping,
			WaveSpeed:        p.WaveSpeed,
			WaterDensity:     p.WaterDensity,
			WaterViscosity:   p.WaterViscosity,
			AirDensity:       p.AirDensity,
			DragCoefficient:  p.DragCoefficient,
			ImpactDuration:   p.ImpactDuration,
			EquilibriumForce: p.EquilibriumForce,
			EquilibriumSpeed: p.EquilibriumSpeed,
			VolumeEpsilon:    p.VolumeEpsilon,
		},
		Spawn: SpawnConfig{
			Radius: DefaultRadius,
			Mass:   DefaultMass,
		},
		Sim: SimConfig{
			Dt:          DefaultDt,
			MaxSubsteps: DefaultMaxSubsteps,
			Duration:    DefaultDuration,
			FrameRate:   DefaultFrameRate,
			RecordEvery: 1,
		},
		Particles: ParticleConfig{
			Shape:    "torch",
			Count:    400,
			Lifetime: 60,
			Gravity:  0.05,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets can be edited without leaking.
func (c *Config) Clone() *Config {
	out := *c
	out.Spawn.Bodies = append([]BodySpawn(nil), c.Spawn.Bodies...)
	return &out
}

func (c *Config) Geometry() fluid.Geometry {
	return fluid.Geometry{
		Left:       c.Pool.Left,
		Top:        c.Pool.Top,
		Width:      c.Pool.Width,
		Height:     c.Pool.Height,
		Resolution: c.Pool.Resolution,
	}
}

func (c *Config) Params() fluid.Params {
	return fluid.Params{
		Gravity:          c.Fluid.Gravity,
		WaveDamping:      c.Fluid.WaveDamping,
		WaveSpeed:        c.Fluid.WaveSpeed,
		WaterDensity:     c.Fluid.WaterDensity,
		WaterViscosity:   c.Fluid.WaterViscosity,
		AirDensity:       c.Fluid.AirDensity,
		DragCoefficient:  c.Fluid.DragCoefficient,
		Scale:            c.Pool.Scale,
		ImpactDuration:   c.Fluid.ImpactDuration,
		EquilibriumForce: c.Fluid.EquilibriumForce,
		EquilibriumSpeed: c.Fluid.EquilibriumSpeed,
		VolumeEpsilon:    c.Fluid.VolumeEpsilon,
	}
}

// Validate checks the values the core cannot recover from, including the
// wave stability bound WaveSpeed*dt^2 <= 1.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"pool.width", c.Pool.Width},
		{"pool.height", c.Pool.Height},
		{"pool.scale", c.Pool.Scale},
		{"fluid.wave_speed", c.Fluid.WaveSpeed},
		{"fluid.water_density", c.Fluid.WaterDensity},
		{"spawn.radius", c.Spawn.Radius},
		{"spawn.mass", c.Spawn.Mass},
		{"sim.dt", c.Sim.Dt},
	}
	for _, p := range positive {
		if math.IsNaN(p.v) || p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.v)
		}
	}
	if c.Pool.Resolution < 2 {
		return fmt.Errorf("%w: pool.resolution must be at least 2, got %d", ErrInvalid, c.Pool.Resolution)
	}
	if c.Fluid.WaveDamping <= 0 || c.Fluid.WaveDamping > 1 {
		return fmt.Errorf("%w: fluid.wave_damping must be in (0, 1], got %v", ErrInvalid, c.Fluid.WaveDamping)
	}
	if c.Sim.MaxSubsteps < 1 {
		return fmt.Errorf("%w: sim.max_substeps must be at least 1, got %d", ErrInvalid, c.Sim.MaxSubsteps)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("%w: sim.duration must not be negative, got %v", ErrInvalid, c.Sim.Duration)
	}
	if p := c.Params(); !p.StableStep(c.Sim.Dt) {
		return fmt.Errorf("%w: dt %v > %.5f for wave_speed %v", ErrUnstable, c.Sim.Dt, p.MaxStableStep(), c.Fluid.WaveSpeed)
	}
	return nil
}

// SpawnList resolves the configured bodies against the spawn defaults.
func (c *Config) SpawnList() []BodySpawn {
	out := make([]BodySpawn, len(c.Spawn.Bodies))
	for i, b := range c.Spawn.Bodies {
		if b.Radius == 0 {
			b.Radius = c.Spawn.Radius
		}
		if b.Mass == 0 {
			b.Mass = c.Spawn.Mass
		}
		out[i] = b
	}
	return out
}
