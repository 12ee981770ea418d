package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
)

// Integrator runs once after every engine sub-step. It refreshes the fluid
// system, applies gravity, buoyancy and drag for the next sub-step and
// records the forces it applied.
type Integrator struct {
	eng    engine.Engine
	sys    *fluid.System
	params Params

	// boat vertical velocity at the previous sub-step, for the carrier
	// acceleration felt by bodies riding in the boat.
	boatVel  float64
	boatSeen bool
}

// NewIntegrator wires an Integrator into eng's post-step listeners.
func NewIntegrator(eng engine.Engine, sys *fluid.System, params Params) *Integrator {
	i := &Integrator{eng: eng, sys: sys, params: params}
	eng.OnPostStep(i.Step)
	return i
}

func (i *Integrator) Params() Params { return i.params }

func (i *Integrator) Step(dt float64) {
	if dt <= 0 {
		return
	}

	i.clampVelocities()
	i.sys.Update(i.eng.Position)

	carrier := i.carrierAcceleration(dt)
	underwater := i.sys.BoatUnderwater()
	for _, b := range i.sys.Bodies {
		i.applyForces(b, dt, carrier, underwater)
	}
	for _, b := range i.sys.Bodies {
		if b.Kind() == geometry.KindScale {
			b.Forces.ScaleWeight.Set(i.scaleWeight(b))
		}
	}

	i.eng.ResetContactForces()
}

func (i *Integrator) clampVelocities() {
	limit := i.params.MaxVelocity
	if limit <= 0 {
		return
	}
	for _, b := range i.sys.Bodies {
		v := i.eng.Velocity(b.ID)
		if speed := v.Len(); speed > limit {
			i.eng.SetVelocity(b.ID, v.Mul(limit/speed))
		}
	}
}

// carrierAcceleration is the boat's vertical acceleration over the last
// sub-step; zero without a boat or on the first sub-step.
func (i *Integrator) carrierAcceleration(dt float64) float64 {
	boat := i.sys.Boat()
	if boat == nil {
		i.boatSeen = false
		return 0
	}
	v := i.eng.Velocity(boat.ID).Y()
	a := 0.0
	if i.boatSeen {
		a = (v - i.boatVel) / dt
	}
	i.boatVel, i.boatSeen = v, true
	return a
}

func (i *Integrator) applyForces(b *fluid.Body, dt, carrier float64, underwater bool) {
	p := i.params
	mass := b.Mass()
	submerged := i.submergedVolume(b)

	// A boat under the surface counts as a solid block of its hull
	// material; otherwise it carries the fluid it holds.
	if b == i.sys.Boat() {
		if underwater {
			mass = b.Shape.DisplacedVolume(b.Shape.Height()) * b.Density
		} else {
			mass += i.sys.Child.FluidVolume * p.FluidDensity
		}
		i.eng.SetMass(b.ID, mass)
	}

	g := p.Gravity
	var carrierVel mgl64.Vec2
	if b.Containing == dynamo.ContainmentChild {
		g = math.Max(0, g+carrier)
		carrierVel = i.eng.Velocity(i.sys.Boat().ID)
	}

	gravity := mgl64.Vec2{0, -mass * p.Gravity}
	buoyancy := mgl64.Vec2{0, submerged * p.FluidDensity * g}
	drag := i.drag(b, mass, submerged, i.eng.Velocity(b.ID).Sub(carrierVel), dt)

	i.eng.ApplyForce(b.ID, gravity.Add(buoyancy).Add(drag))

	b.Forces.Gravity.Set(gravity)
	b.Forces.Buoyancy.Set(buoyancy)
	b.Forces.Viscosity.Set(drag)
	b.Forces.Contact.Set(i.eng.ContactForce(b.ID))
}

// submergedVolume is the body volume below the surface of the basin holding
// it, never more than that basin's fluid.
func (i *Integrator) submergedVolume(b *fluid.Body) float64 {
	basin := i.sys.Basin(b.Containing)
	if basin == nil {
		return 0
	}
	v := b.DisplacedVolume(basin.Height.Current())
	return math.Max(0, math.Min(v, basin.FluidVolume))
}

// drag opposes the velocity relative to the surrounding fluid in proportion
// to how much of the body is submerged. It never exceeds the force that
// would stop the body within one sub-step.
func (i *Integrator) drag(b *fluid.Body, mass, submerged float64, v mgl64.Vec2, dt float64) mgl64.Vec2 {
	full := b.Shape.DisplacedVolume(b.Shape.Height())
	speed := v.Len()
	if submerged <= 0 || full <= 0 || speed == 0 || i.params.Viscosity <= 0 {
		return mgl64.Vec2{}
	}

	ratio := math.Min(1, submerged/full)
	m := math.Max(mass, i.params.ViscosityMassCutoff)
	magnitude := i.params.Viscosity * m * ratio * speed
	magnitude = math.Min(magnitude, mass*speed/dt)
	return v.Mul(-magnitude / speed)
}

// scaleWeight sums the downward push of every body resting on the scale,
// read as the upward contact force the scale exerts on each of them.
func (i *Integrator) scaleWeight(scale *fluid.Body) float64 {
	w := 0.0
	for _, other := range i.sys.Bodies {
		if other == scale {
			continue
		}
		w += math.Max(0, i.eng.ContactForceBetween(other.ID, scale.ID).Y())
	}
	return w
}
