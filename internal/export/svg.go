// Package export renders scenes and recorded series as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/buoysim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG draws every lit Braille dot of canvas as a circle, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	w := float64(canvas.Width*2) * scale
	h := float64(canvas.Height*4) * scale
	r := scale * 0.4

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SeriesToSVG plots values against times as a single polyline.
func SeriesToSVG(times, values []float64, width, height int, stroke string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	minY, maxY := values[0], values[0]
	for _, v := range values[:n] {
		minY, maxY = min(minY, v), max(maxY, v)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	w, h := float64(width), float64(height)
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", stroke)
	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * w
		y := h - (values[i]-minY)/rangeY*h
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
