package metrics

import "github.com/san-kum/splashsim/internal/fluid"

// WaveActivity is the mean surface activity (sum of |column velocity|).
type WaveActivity struct {
	name    string
	sum     float64
	samples int
}

func NewWaveActivity() *WaveActivity {
	return &WaveActivity{name: "wave_activity"}
}

func (w *WaveActivity) Name() string { return w.name }

func (w *WaveActivity) Observe(snap fluid.Snapshot, t float64) {
	w.sum += snap.Activity
	w.samples++
}

func (w *WaveActivity) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return w.sum / float64(w.samples)
}

func (w *WaveActivity) Reset() {
	w.sum = 0
	w.samples = 0
}

// KineticEnergy is the mean total kinetic energy of all bodies, in joules
// per metre of depth.
type KineticEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(snap fluid.Snapshot, t float64) {
	total := 0.0
	for _, b := range snap.Bodies {
		v := b.Velocity.Len()
		total += 0.5 * b.Mass * v * v
	}
	k.sum += total
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.sum = 0
	k.samples = 0
}
