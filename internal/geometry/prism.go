package geometry

import "math"

// Box is a solid rectangular block.
type Box struct {
	W, H, D float64
}

func (b Box) Kind() Kind      { return KindBox }
func (b Box) Width() float64  { return b.W }
func (b Box) Height() float64 { return b.H }
func (b Box) Depth() float64  { return b.D }
func (b Box) Volume() float64 { return b.W * b.H * b.D }

func (b Box) DisplacedVolume(depth float64) float64 {
	return b.W * b.D * clampDepth(depth, b.H)
}

func (b Box) DisplacedArea(depth float64) float64 {
	if inside(depth, b.H) {
		return b.W * b.D
	}
	return 0
}

// Scale is a box-shaped body whose contact load is reported as a weight.
type Scale struct {
	Box
}

func (s Scale) Kind() Kind { return KindScale }

// Cylinder stands upright with its axis along y.
type Cylinder struct {
	R, H float64
}

func (c Cylinder) Kind() Kind      { return KindCylinder }
func (c Cylinder) Width() float64  { return 2 * c.R }
func (c Cylinder) Height() float64 { return c.H }
func (c Cylinder) Depth() float64  { return 2 * c.R }
func (c Cylinder) Volume() float64 { return math.Pi * c.R * c.R * c.H }

func (c Cylinder) DisplacedVolume(depth float64) float64 {
	return math.Pi * c.R * c.R * clampDepth(depth, c.H)
}

func (c Cylinder) DisplacedArea(depth float64) float64 {
	if inside(depth, c.H) {
		return math.Pi * c.R * c.R
	}
	return 0
}

// Cone stands upright with its base at the bottom, or at the top when
// Inverted is set.
type Cone struct {
	R, H     float64
	Inverted bool
}

func (c Cone) Kind() Kind      { return KindCone }
func (c Cone) Width() float64  { return 2 * c.R }
func (c Cone) Height() float64 { return c.H }
func (c Cone) Depth() float64  { return 2 * c.R }
func (c Cone) Volume() float64 { return math.Pi * c.R * c.R * c.H / 3 }

func (c Cone) DisplacedVolume(depth float64) float64 {
	d := clampDepth(depth, c.H) / c.H
	if c.Inverted {
		return c.Volume() * d * d * d
	}
	rest := 1 - d
	return c.Volume() * (1 - rest*rest*rest)
}

func (c Cone) DisplacedArea(depth float64) float64 {
	if !inside(depth, c.H) {
		return 0
	}
	r := c.R * depth / c.H
	if !c.Inverted {
		r = c.R - r
	}
	return math.Pi * r * r
}
