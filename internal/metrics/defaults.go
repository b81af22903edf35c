package metrics

import "github.com/san-kum/splashsim/internal/sim"

// Standard returns the metric set recorded by headless runs.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewWaveActivity(),
		NewKineticEnergy(),
		NewBaselineShift(),
		NewMaxImmersion(),
		NewSettledFraction(),
		NewStability(50),
	}
}
