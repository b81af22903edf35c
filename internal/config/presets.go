package config

import "sort"

func preset(scene string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Scene = scene
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"water": {
		"calm": preset("water", func(c *Config) {
			c.Spawn.Bodies = []BodySpawn{{X: 4.0, Y: 1.9}}
		}),
		"choppy": preset("water", func(c *Config) {
			c.Fluid.WaveDamping = 0.99
			c.Sim.Duration = 15
			c.Spawn.Bodies = []BodySpawn{{X: 2.0, Y: 1.0}, {X: 4.0, Y: 0.5}, {X: 6.0, Y: 1.5, Radius: 0.6, Mass: 30}}
		}),
		"heavy": preset("water", func(c *Config) {
			c.Spawn.Mass = 400
			c.Spawn.Bodies = []BodySpawn{{X: 3.0, Y: 1.0}, {X: 5.0, Y: 1.0, Radius: 0.2, Mass: 1}}
		}),
		"fine": preset("water", func(c *Config) {
			c.Pool.Resolution = 800
			c.Sim.Dt = 0.005
			c.Sim.MaxSubsteps = 8
			c.Spawn.Bodies = []BodySpawn{{X: 4.0, Y: 1.9}}
		}),
	},
	"particles": {
		"torch":     preset("particles", func(c *Config) { c.Particles.Shape = "torch" }),
		"fountain":  preset("particles", func(c *Config) { c.Particles.Shape = "fountain" }),
		"firework":  preset("particles", func(c *Config) { c.Particles.Shape = "firework" }),
		"spiral":    preset("particles", func(c *Config) { c.Particles.Shape = "spiral" }),
		"explosion": preset("particles", func(c *Config) { c.Particles.Shape = "explosion" }),
		"rain": preset("particles", func(c *Config) {
			c.Particles.Shape = "rain"
			c.Particles.Count = 800
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
