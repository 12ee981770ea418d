package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ratio is the fractional progress between the previous and current physics
// sub-step. One Ratio is shared by every interpolated value of a scene and is
// written once per frame, after the engine has advanced.
type Ratio struct {
	value float64
}

func (r *Ratio) Set(v float64) {
	switch {
	case v < 0 || math.IsNaN(v):
		v = 0
	case v > 1:
		v = 1
	}
	r.value = v
}

func (r *Ratio) Value() float64 {
	if r == nil {
		return 1
	}
	return r.value
}

// Interpolated holds a quantity computed at physics cadence and read at
// render cadence.
type Interpolated[T any] struct {
	ratio    *Ratio
	lerp     func(a, b T, t float64) T
	previous T
	current  T
}

func NewInterpolatedFloat(ratio *Ratio, initial float64) *Interpolated[float64] {
	return &Interpolated[float64]{
		ratio:    ratio,
		lerp:     func(a, b, t float64) float64 { return a + (b-a)*t },
		previous: initial,
		current:  initial,
	}
}

func NewInterpolatedVec(ratio *Ratio, initial mgl64.Vec2) *Interpolated[mgl64.Vec2] {
	return &Interpolated[mgl64.Vec2]{
		ratio:    ratio,
		lerp:     func(a, b mgl64.Vec2, t float64) mgl64.Vec2 { return a.Add(b.Sub(a).Mul(t)) },
		previous: initial,
		current:  initial,
	}
}

// Set records a new physics-step value, shifting the current one to previous.
func (iv *Interpolated[T]) Set(v T) {
	iv.previous = iv.current
	iv.current = v
}

// Reset overwrites both ends, used when state is restored or teleported.
func (iv *Interpolated[T]) Reset(v T) {
	iv.previous = v
	iv.current = v
}

func (iv *Interpolated[T]) Current() T  { return iv.current }
func (iv *Interpolated[T]) Previous() T { return iv.previous }

// Value is the render-time value: previous blended toward current by the ratio.
func (iv *Interpolated[T]) Value() T {
	return iv.lerp(iv.previous, iv.current, iv.ratio.Value())
}
