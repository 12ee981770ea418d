package dynamo

import "fmt"

// Bounds is an axis-aligned container extent. X and Y span the engine plane
// (Y up); Depth is the constant extent along z used for volumes.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Depth      float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Area is the horizontal footprint (width × depth).
func (b Bounds) Area() float64 { return b.Width() * b.Depth }

// Volume is the empty capacity between MinY and MaxY.
func (b Bounds) Volume() float64 { return b.Area() * b.Height() }

func (b Bounds) Validate() error {
	if !(b.MaxX > b.MinX) || !(b.MaxY > b.MinY) || !(b.Depth > 0) {
		return fmt.Errorf("%w: %+v", ErrInvalidBounds, b)
	}
	return nil
}

// OverlapsX reports whether the horizontal span [minX, maxX] intersects b.
func (b Bounds) OverlapsX(minX, maxX float64) bool {
	return maxX > b.MinX && minX < b.MaxX
}

// ContainsX reports whether x lies inside the horizontal span of b.
func (b Bounds) ContainsX(x float64) bool {
	return x >= b.MinX && x <= b.MaxX
}

// Containment names the basin holding a body. It is recomputed every
// sub-step and never stored as a pointer.
type Containment int

const (
	ContainmentNone Containment = iota
	ContainmentPool
	ContainmentChild
)

func (c Containment) String() string {
	switch c {
	case ContainmentPool:
		return "pool"
	case ContainmentChild:
		return "child"
	default:
		return "none"
	}
}
