package sim

import "github.com/san-kum/splashsim/internal/fluid"

// Stepper turns variable frame deltas into fixed pool ticks. Backlog beyond
// maxSubsteps ticks is dropped so a stalled frame cannot destabilize the waves.
type Stepper struct {
	pool        *fluid.Pool
	dt          float64
	maxSubsteps int
	acc         float64
	elapsed     float64
}

func NewStepper(pool *fluid.Pool, dt float64, maxSubsteps int) *Stepper {
	if maxSubsteps < 1 {
		maxSubsteps = 1
	}
	return &Stepper{pool: pool, dt: dt, maxSubsteps: maxSubsteps}
}

// Advance consumes frame seconds and returns the ticks run and their merged report.
func (s *Stepper) Advance(frame float64) (int, fluid.TickReport) {
	var merged fluid.TickReport
	if !(frame > 0) || !(s.dt > 0) {
		return 0, merged
	}

	s.acc += frame
	if limit := s.dt * float64(s.maxSubsteps); s.acc > limit {
		s.acc = limit
	}

	ticks := 0
	// tolerate float drift so a frame of exactly dt always ticks once
	for s.acc >= s.dt*(1-1e-9) {
		rep := s.pool.Tick(s.dt)
		merged.Entries = append(merged.Entries, rep.Entries...)
		merged.Exits = append(merged.Exits, rep.Exits...)
		merged.Rise += rep.Rise
		merged.Settled = rep.Settled
		s.acc -= s.dt
		s.elapsed += s.dt
		ticks++
	}
	if s.acc < 0 {
		s.acc = 0
	}
	return ticks, merged
}

func (s *Stepper) Elapsed() float64  { return s.elapsed }
func (s *Stepper) Dt() float64       { return s.dt }
func (s *Stepper) Pool() *fluid.Pool { return s.pool }
