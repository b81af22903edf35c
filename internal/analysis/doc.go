// Package analysis extracts ripple structure from a surface snapshot.
//
//	r := analysis.SurfaceRipple(pool.Snapshot())
//	fmt.Printf("%.2fm ripples, %.4fm high\n", r.Wavelength, r.Amplitude)
package analysis
