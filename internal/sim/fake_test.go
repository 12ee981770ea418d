package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
)

type pairKey struct{ on, by engine.BodyID }

// fakeEngine never integrates: positions and velocities change only when a
// test sets them, which keeps force expectations exact.
type fakeEngine struct {
	h         float64
	ratio     float64
	steps     int
	pos       map[engine.BodyID]mgl64.Vec2
	vel       map[engine.BodyID]mgl64.Vec2
	mass      map[engine.BodyID]float64
	force     map[engine.BodyID]mgl64.Vec2
	contacts  map[engine.BodyID]mgl64.Vec2
	pairs     map[pairKey]mgl64.Vec2
	listeners []func(float64)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		h:        0.01,
		pos:      make(map[engine.BodyID]mgl64.Vec2),
		vel:      make(map[engine.BodyID]mgl64.Vec2),
		mass:     make(map[engine.BodyID]float64),
		force:    make(map[engine.BodyID]mgl64.Vec2),
		contacts: make(map[engine.BodyID]mgl64.Vec2),
		pairs:    make(map[pairKey]mgl64.Vec2),
	}
}

func (f *fakeEngine) AddBody(id engine.BodyID, def engine.BodyDef) error {
	if _, ok := f.pos[id]; ok {
		return dynamo.ErrBodyExists
	}
	f.pos[id] = def.Position
	f.vel[id] = def.Velocity
	f.mass[id] = def.Mass
	return nil
}

func (f *fakeEngine) RemoveBody(id engine.BodyID) error {
	if _, ok := f.pos[id]; !ok {
		return dynamo.ErrBodyNotFound
	}
	delete(f.pos, id)
	delete(f.vel, id)
	return nil
}

func (f *fakeEngine) SetMass(id engine.BodyID, m float64)        { f.mass[id] = m }
func (f *fakeEngine) ApplyForce(id engine.BodyID, v mgl64.Vec2)  { f.force[id] = v }
func (f *fakeEngine) Position(id engine.BodyID) mgl64.Vec2       { return f.pos[id] }
func (f *fakeEngine) SetPosition(id engine.BodyID, p mgl64.Vec2) { f.pos[id] = p }
func (f *fakeEngine) Velocity(id engine.BodyID) mgl64.Vec2       { return f.vel[id] }
func (f *fakeEngine) SetVelocity(id engine.BodyID, v mgl64.Vec2) { f.vel[id] = v }
func (f *fakeEngine) ContactForce(id engine.BodyID) mgl64.Vec2   { return f.contacts[id] }
func (f *fakeEngine) ContactForceBetween(a, b engine.BodyID) mgl64.Vec2 {
	return f.pairs[pairKey{a, b}]
}
func (f *fakeEngine) OnPostStep(fn func(float64)) { f.listeners = append(f.listeners, fn) }
func (f *fakeEngine) FixedStep() float64          { return f.h }

func (f *fakeEngine) ResetContactForces() {
	clear(f.contacts)
	clear(f.pairs)
}

func (f *fakeEngine) Step(dt float64) float64 {
	n := int(dt/f.h + 1e-9)
	for i := 0; i < n; i++ {
		f.steps++
		for _, fn := range f.listeners {
			fn(f.h)
		}
	}
	return f.ratio
}
