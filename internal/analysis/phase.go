package analysis

import (
	"strings"

	"github.com/san-kum/buoysim/internal/sim"
)

type Point struct{ X, Y float64 }

// BoatPhasePortrait pairs boat height with vertical velocity per sample.
// A boat settling at its waterline spirals into a single point.
func BoatPhasePortrait(samples []sim.Sample) []Point {
	points := make([]Point, 0, len(samples))
	for _, s := range samples {
		points = append(points, Point{X: s.BoatY, Y: s.BoatVY})
	}
	return points
}

// PhasePortraitToASCII plots points on a width x height character grid,
// drawing the zero-velocity axis when it is in range.
func PhasePortraitToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minY <= 0 && minY+rangeY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := range canvas[row] {
			canvas[row][col] = '─'
		}
	}
	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
