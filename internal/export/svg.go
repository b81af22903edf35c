package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/splashsim/internal/fluid"
)

var phaseFill = map[fluid.Phase]string{
	fluid.Airborne:    "#ffcc00",
	fluid.JustEntered: "#ff6432",
	fluid.Submerged:   "#f0f0f0",
}

// SnapshotToSVG draws the pool at snap in surface units: the water body as a
// polygon under the surface line and each body as a disc.
func SnapshotToSVG(snap fluid.Snapshot, width int) string {
	b := snap.Bounds
	viewW := b.Right - b.Left
	viewH := b.Bottom
	if viewW <= 0 || viewH <= 0 || width <= 0 {
		return ""
	}
	height := int(float64(width) * viewH / viewW)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%.1f 0 %.1f %.1f">
<rect x="%.1f" width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, b.Left, viewW, viewH, b.Left))

	if len(snap.Columns) > 1 {
		sb.WriteString(`<polygon fill="#0077be" fill-opacity="0.6" stroke="#00c8ff" stroke-width="1" points="`)
		for _, c := range snap.Columns {
			sb.WriteString(fmt.Sprintf("%.1f,%.2f ", c.X, c.Height))
		}
		sb.WriteString(fmt.Sprintf(`%.1f,%.1f %.1f,%.1f"/>
`, b.Right, b.Bottom, b.Left, b.Bottom))
	}

	for _, body := range snap.Bodies {
		fill, ok := phaseFill[body.Phase]
		if !ok {
			fill = "#ffffff"
		}
		stroke := "none"
		if body.AtEquilibrium {
			stroke = "#00ff88"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>
`, body.Position.X*snap.Scale, body.Position.Y*snap.Scale, body.Radius*snap.Scale, fill, stroke))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a single polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := len(values)
	if len(times) < n {
		n = len(times)
	}
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
