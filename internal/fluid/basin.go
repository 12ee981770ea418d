package fluid

import (
	"math"

	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/geometry"
	"github.com/san-kum/buoysim/internal/solver"
)

// containEpsilon lets a body resting on a boat floor count as inside it
// despite collision slop.
const containEpsilon = 1e-3

// Basin is a fluid container: the pool, or the interior of a boat.
type Basin struct {
	Name        string
	FluidVolume float64
	Height      *dynamo.Interpolated[float64]
	StepBodies  []*Body
	// Nested bodies sit inside a child basin. Only their part above
	// NestedFloor, the child's rim, displaces this basin's fluid.
	Nested      []*Body
	NestedFloor float64

	bounds dynamo.Bounds
	// owner is the boat whose interior this is; nil for the pool.
	owner *Body
}

func NewPool(bounds dynamo.Bounds, volume float64, ratio *dynamo.Ratio) *Basin {
	return &Basin{
		Name:        "pool",
		FluidVolume: math.Max(0, volume),
		Height:      dynamo.NewInterpolatedFloat(ratio, bounds.MinY),
		bounds:      bounds,
	}
}

// NewBoatBasin creates the interior basin of boat. Its bounds follow the boat.
func NewBoatBasin(boat *Body, volume float64, ratio *dynamo.Ratio) *Basin {
	b := &Basin{
		Name:        "boat",
		FluidVolume: math.Max(0, volume),
		owner:       boat,
	}
	b.UpdateStepInformation()
	b.Height = dynamo.NewInterpolatedFloat(ratio, b.bounds.MinY)
	return b
}

func (b *Basin) Bounds() dynamo.Bounds { return b.bounds }

// Owner is the boat carrying this basin, or nil.
func (b *Basin) Owner() *Body { return b.owner }

// UpdateStepInformation moves a boat basin with its boat.
func (b *Basin) UpdateStepInformation() {
	if b.owner == nil {
		return
	}
	hull := b.owner.Shape.(geometry.Boat)
	hw := hull.InteriorWidth() / 2
	b.bounds = dynamo.Bounds{
		MinX:  b.owner.StepX - hw,
		MaxX:  b.owner.StepX + hw,
		MinY:  b.owner.StepBottom + hull.Wall,
		MaxY:  b.owner.StepTop,
		Depth: hull.InteriorDepth(),
	}
}

// Contains reports whether body sits in this basin's footprint.
func (b *Basin) Contains(body *Body) bool {
	if body == b.owner {
		return false
	}
	if b.owner == nil {
		return b.bounds.OverlapsX(body.StepMinX(), body.StepMaxX()) && body.StepBottom < b.bounds.MaxY
	}
	return b.bounds.ContainsX(body.StepX) &&
		body.StepBottom >= b.bounds.MinY-containEpsilon &&
		body.StepBottom < b.bounds.MaxY
}

// EmptyVolume is the fluid volume that fits below level.
func (b *Basin) EmptyVolume(level float64) float64 {
	v := b.bounds.Area() * (level - b.bounds.MinY)
	for _, body := range b.StepBodies {
		v -= body.DisplacedVolume(level)
	}
	if level > b.NestedFloor {
		for _, body := range b.Nested {
			v -= body.DisplacedVolume(level) - body.DisplacedVolume(b.NestedFloor)
		}
	}
	return v
}

// EmptyArea is the derivative of EmptyVolume.
func (b *Basin) EmptyArea(level float64) float64 {
	a := b.bounds.Area()
	for _, body := range b.StepBodies {
		a -= body.DisplacedArea(level)
	}
	if level > b.NestedFloor {
		for _, body := range b.Nested {
			a -= body.DisplacedArea(level)
		}
	}
	return a
}

// MaxVolume is the fluid capacity up to the basin's top.
func (b *Basin) MaxVolume() float64 {
	return math.Max(0, b.EmptyVolume(b.bounds.MaxY))
}

// ComputeHeight solves for the surface consistent with FluidVolume and
// records it.
func (b *Basin) ComputeHeight() float64 {
	dynamo.Assert(b.FluidVolume >= 0, "%s: negative fluid volume %v", b.Name, b.FluidVolume)
	b.FluidVolume = math.Max(0, b.FluidVolume)

	critical := make([]float64, 0, 2*(len(b.StepBodies)+len(b.Nested)))
	for _, body := range b.StepBodies {
		critical = append(critical, body.StepBottom, body.StepTop)
	}
	for _, body := range b.Nested {
		if body.StepTop > b.NestedFloor {
			critical = append(critical, math.Max(body.StepBottom, b.NestedFloor), body.StepTop)
		}
	}

	h := solver.SolveHeight(solver.Problem{
		Floor:       b.bounds.MinY,
		Target:      b.FluidVolume,
		Critical:    critical,
		Area:        b.bounds.Area(),
		EmptyVolume: b.EmptyVolume,
		EmptyArea:   b.EmptyArea,
	})
	b.Height.Set(h)
	return h
}
