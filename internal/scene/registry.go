package scene

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/san-kum/splashsim/internal/config"
)

type Factory func(cfg config.Config, logger *log.Logger) (Scene, error)

type Registry struct {
	scenes map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Factory)}

	r.scenes["water"] = func(cfg config.Config, l *log.Logger) (Scene, error) { return NewWater(cfg, l) }
	r.scenes["particles"] = func(cfg config.Config, l *log.Logger) (Scene, error) { return NewParticles(cfg, l) }

	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.scenes[name] = f
}

func (r *Registry) Get(name string, cfg config.Config, logger *log.Logger) (Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn(cfg, logger)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
