// Package solver finds the fluid surface height of a basin.
//
// The empty-volume function of a basin is monotonic but only piecewise
// smooth: its slope changes wherever the surface crosses the bottom or top of
// a body. The solver brackets the root between consecutive critical points and
// runs a Newton iteration inside the bracket, falling back to bisection.
package solver

import (
	"math"
	"sort"
)

const (
	// Tolerance is the volume residual at which a height is accepted.
	Tolerance = 1e-7

	// MaxIterations bounds a single bracketed solve.
	MaxIterations = 200
)

// FindRoot returns x in [minX, maxX] with |f(x)| <= tolerance, where f is
// non-decreasing and df is its derivative. Newton steps that would leave the
// bracket are replaced by bisection. When the bracket collapses to adjacent
// floating-point values the best estimate is returned instead.
func FindRoot(minX, maxX, tolerance float64, f, df func(x float64) float64) float64 {
	x := (minX + maxX) / 2
	y := f(x)
	best, bestY := x, math.Abs(y)

	for i := 0; i < MaxIterations && math.Abs(y) > tolerance; i++ {
		if y < 0 {
			minX = x
		} else {
			maxX = x
		}

		next := x - y/df(x)
		if math.IsNaN(next) || math.IsInf(next, 0) || next < minX || next > maxX || next == x {
			next = (minX + maxX) / 2
			if next <= minX || next >= maxX {
				break
			}
		}

		x = next
		y = f(x)
		if a := math.Abs(y); a <= bestY {
			best, bestY = x, a
		}
	}

	return best
}

// Problem describes one basin height solve.
type Problem struct {
	// Floor is the lowest possible surface height.
	Floor float64
	// Target is the fluid volume to place.
	Target float64
	// Critical holds every body bottom and top; order does not matter.
	Critical []float64
	// Area is the horizontal container area used past the last critical point.
	Area float64
	// EmptyVolume and EmptyArea evaluate the basin at a surface height.
	EmptyVolume func(level float64) float64
	EmptyArea   func(level float64) float64
}

// SolveHeight returns the surface height at which the basin's empty volume
// equals p.Target.
func SolveHeight(p Problem) float64 {
	if p.Target <= 0 {
		return p.Floor
	}

	points := make([]float64, 0, len(p.Critical)+1)
	points = append(points, p.Floor)
	for _, c := range p.Critical {
		if c > p.Floor && !math.IsNaN(c) && !math.IsInf(c, 0) {
			points = append(points, c)
		}
	}
	sort.Float64s(points)

	f := func(level float64) float64 { return p.EmptyVolume(level) - p.Target }

	prev := points[0]
	for _, next := range points[1:] {
		if next <= prev {
			continue
		}
		if p.EmptyVolume(next) >= p.Target {
			return FindRoot(prev, next, Tolerance, f, p.EmptyArea)
		}
		prev = next
	}

	last := points[len(points)-1]
	if p.Area <= 0 {
		return last
	}
	return last + (p.Target-p.EmptyVolume(last))/p.Area
}
