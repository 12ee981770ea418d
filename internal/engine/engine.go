// Package engine is the boundary to the rigid-body physics engine.
//
// The fluid code only needs position and velocity queries, force
// application, contact-force readouts and fixed-step advancement with a
// leftover-time ratio. [Engine] captures exactly that; [Chipmunk] satisfies
// it on top of github.com/jakecoffman/cp.
package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BodyID int

// Rect is a collider rectangle in body-local coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// BodyDef describes a body at creation time.
type BodyDef struct {
	Mass      float64
	Position  mgl64.Vec2
	Velocity  mgl64.Vec2
	Colliders []Rect
	// Static bodies never move and do not respond to forces.
	Static bool
}

// Engine is a synchronous rigid-body engine. ApplyForce is only meaningful
// from a post-step listener: forces accumulate into the next sub-step.
type Engine interface {
	AddBody(id BodyID, def BodyDef) error
	RemoveBody(id BodyID) error
	SetMass(id BodyID, mass float64)
	ApplyForce(id BodyID, force mgl64.Vec2)
	Position(id BodyID) mgl64.Vec2
	SetPosition(id BodyID, p mgl64.Vec2)
	Velocity(id BodyID) mgl64.Vec2
	SetVelocity(id BodyID, v mgl64.Vec2)
	// ContactForce is the total contact force on id since the last reset.
	ContactForce(id BodyID) mgl64.Vec2
	// ContactForceBetween is the contact force exerted on a by b.
	ContactForceBetween(a, b BodyID) mgl64.Vec2
	ResetContactForces()
	// OnPostStep registers fn to run once after every internal sub-step.
	OnPostStep(fn func(dt float64))
	// Step advances by up to MaxSubSteps fixed sub-steps covering dt and
	// returns the leftover fraction of a sub-step, in [0, 1).
	Step(dt float64) float64
	FixedStep() float64
}

// Finite replaces a vector containing NaN or Inf with the zero vector.
// Static and sleeping bodies occasionally report such contact forces.
func Finite(v mgl64.Vec2) mgl64.Vec2 {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return mgl64.Vec2{}
		}
	}
	return v
}
