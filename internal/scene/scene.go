// Package scene holds the switchable simulations shown by the live view.
package scene

// Plotter is a sub-pixel drawing surface.
type Plotter interface {
	Set(x, y int)
	DrawLine(x0, y0, x1, y1 int)
}

// Scene is one simulation the live view can host. Spawn and Draw use
// viewport coordinates: fx, fy in [0, 1] and w x h plotter sub-pixels.
type Scene interface {
	Name() string
	Update(frame float64)
	Reset()
	Spawn(fx, fy float64) error
	Draw(p Plotter, w, h int)
	Status() []Stat
}

// Stat is a labelled value for the side panel.
type Stat struct {
	Label string
	Value string
}

// Tuner is implemented by scenes whose spawned bodies can be sized.
type Tuner interface {
	Radius() float64
	Mass() float64
	SetRadius(r float64)
	SetMass(m float64)
}

// Cycler is implemented by scenes with selectable variants.
type Cycler interface {
	Next()
}

func toPixel(v, lo, hi float64, n int) int {
	if hi <= lo || n <= 1 {
		return 0
	}
	return int((v - lo) / (hi - lo) * float64(n-1))
}
