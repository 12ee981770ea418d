package fluid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/geometry"
)

// Forces are the per-body outputs recorded once per sub-step.
type Forces struct {
	Gravity   *dynamo.Interpolated[mgl64.Vec2]
	Buoyancy  *dynamo.Interpolated[mgl64.Vec2]
	Viscosity *dynamo.Interpolated[mgl64.Vec2]
	Contact   *dynamo.Interpolated[mgl64.Vec2]
	// ScaleWeight is only written for scale bodies.
	ScaleWeight *dynamo.Interpolated[float64]
}

type Body struct {
	ID      engine.BodyID
	Name    string
	Shape   geometry.Shape
	Density float64

	// Step caches, refreshed from the engine once per sub-step because the
	// solver queries displaced volume many times per sub-step.
	StepX      float64
	StepBottom float64
	StepTop    float64

	// Containing is written by System.Update and read by the force pass.
	Containing dynamo.Containment

	Forces Forces
}

func NewBody(id engine.BodyID, name string, shape geometry.Shape, density float64, ratio *dynamo.Ratio) *Body {
	return &Body{
		ID:      id,
		Name:    name,
		Shape:   shape,
		Density: density,
		Forces: Forces{
			Gravity:     dynamo.NewInterpolatedVec(ratio, mgl64.Vec2{}),
			Buoyancy:    dynamo.NewInterpolatedVec(ratio, mgl64.Vec2{}),
			Viscosity:   dynamo.NewInterpolatedVec(ratio, mgl64.Vec2{}),
			Contact:     dynamo.NewInterpolatedVec(ratio, mgl64.Vec2{}),
			ScaleWeight: dynamo.NewInterpolatedFloat(ratio, 0),
		},
	}
}

func (b *Body) Kind() geometry.Kind { return b.Shape.Kind() }

func (b *Body) Mass() float64 { return b.Density * b.Shape.Volume() }

// Colliders returns the engine collider rectangles, centred on the body
// position. Boats get a floor and two walls so other bodies can sit inside.
func (b *Body) Colliders() []engine.Rect {
	hw, hh := b.Shape.Width()/2, b.Shape.Height()/2
	boat, ok := b.Shape.(geometry.Boat)
	if !ok {
		return []engine.Rect{{MinX: -hw, MinY: -hh, MaxX: hw, MaxY: hh}}
	}
	t := boat.Wall
	return []engine.Rect{
		{MinX: -hw, MinY: -hh, MaxX: hw, MaxY: -hh + t},
		{MinX: -hw, MinY: -hh, MaxX: -hw + t, MaxY: hh},
		{MinX: hw - t, MinY: -hh, MaxX: hw, MaxY: hh},
	}
}

// UpdateStepInformation caches the immersion bounds from the engine position
// of the body centre.
func (b *Body) UpdateStepInformation(pos mgl64.Vec2) {
	hh := b.Shape.Height() / 2
	b.StepX = pos.X()
	b.StepBottom = pos.Y() - hh
	b.StepTop = pos.Y() + hh
	dynamo.Assert(b.StepBottom <= b.StepTop, "body %d: bottom %v above top %v", b.ID, b.StepBottom, b.StepTop)
	if b.StepBottom > b.StepTop {
		b.StepTop = b.StepBottom
	}
}

func (b *Body) StepMinX() float64 { return b.StepX - b.Shape.Width()/2 }
func (b *Body) StepMaxX() float64 { return b.StepX + b.Shape.Width()/2 }

// DisplacedVolume is the volume below a fluid surface at level.
func (b *Body) DisplacedVolume(level float64) float64 {
	return b.Shape.DisplacedVolume(level - b.StepBottom)
}

func (b *Body) DisplacedArea(level float64) float64 {
	return b.Shape.DisplacedArea(level - b.StepBottom)
}

// SubmergedFraction is the immersed share of the body height at level.
func (b *Body) SubmergedFraction(level float64) float64 {
	h := b.StepTop - b.StepBottom
	if h <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (level-b.StepBottom)/h))
}
