package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/buoysim/internal/dynamo"
)

const (
	DefaultFixedStep   = 1.0 / 60
	DefaultMaxSubSteps = 30
	DefaultIterations  = 20

	stepEpsilon = 1e-9

	minMass     = 1e-6
	wallRadius  = 0.05
	wallOverrun = 4.0
)

type Config struct {
	FixedStep   float64
	MaxSubSteps int
	Iterations  int
	Friction    float64
	// Container, when valid, is walled with static segments: a floor at
	// MinY and walls at MinX/MaxX rising past MaxY.
	Container dynamo.Bounds
}

func DefaultConfig() Config {
	return Config{
		FixedStep:   DefaultFixedStep,
		MaxSubSteps: DefaultMaxSubSteps,
		Iterations:  DefaultIterations,
		Friction:    0.8,
	}
}

type pair struct {
	on, by BodyID
}

// Chipmunk adapts a cp.Space to Engine.
type Chipmunk struct {
	cfg         Config
	space       *cp.Space
	bodies      map[BodyID]*cp.Body
	ids         map[*cp.Body]BodyID
	contacts    map[BodyID]cp.Vector
	pairs       map[pair]cp.Vector
	listeners   []func(dt float64)
	accumulator float64
}

func NewChipmunk(cfg Config) *Chipmunk {
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultFixedStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = DefaultMaxSubSteps
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{})

	c := &Chipmunk{
		cfg:      cfg,
		space:    space,
		bodies:   make(map[BodyID]*cp.Body),
		ids:      make(map[*cp.Body]BodyID),
		contacts: make(map[BodyID]cp.Vector),
		pairs:    make(map[pair]cp.Vector),
	}

	if cfg.Container.Validate() == nil {
		c.addWalls(cfg.Container)
	}
	return c
}

func (c *Chipmunk) addWalls(b dynamo.Bounds) {
	top := b.MaxY + wallOverrun*b.Height()
	r := wallRadius
	segments := [][2]cp.Vector{
		{{X: b.MinX - r, Y: b.MinY - r}, {X: b.MaxX + r, Y: b.MinY - r}},
		{{X: b.MinX - r, Y: b.MinY - r}, {X: b.MinX - r, Y: top}},
		{{X: b.MaxX + r, Y: b.MinY - r}, {X: b.MaxX + r, Y: top}},
	}
	for _, s := range segments {
		shape := c.space.AddShape(cp.NewSegment(c.space.StaticBody, s[0], s[1], r))
		shape.SetFriction(c.cfg.Friction)
		shape.SetElasticity(0)
	}
}

func (c *Chipmunk) FixedStep() float64 { return c.cfg.FixedStep }

func (c *Chipmunk) AddBody(id BodyID, def BodyDef) error {
	if _, ok := c.bodies[id]; ok {
		return fmt.Errorf("add body %d: %w", id, dynamo.ErrBodyExists)
	}

	var body *cp.Body
	if def.Static {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(math.Max(def.Mass, minMass), math.Inf(1))
	}
	body.SetPosition(toCP(def.Position))
	c.space.AddBody(body)
	if !def.Static {
		body.SetVelocityVector(toCP(def.Velocity))
	}

	for _, r := range def.Colliders {
		shape := c.space.AddShape(cp.NewBox2(body, cp.BB{L: r.MinX, B: r.MinY, R: r.MaxX, T: r.MaxY}, 0))
		shape.SetFriction(c.cfg.Friction)
		shape.SetElasticity(0)
	}

	c.bodies[id] = body
	c.ids[body] = id
	dynamo.Logger().Debug("engine body added", slog.Int("id", int(id)), slog.Float64("mass", def.Mass))
	return nil
}

func (c *Chipmunk) RemoveBody(id BodyID) error {
	body, ok := c.bodies[id]
	if !ok {
		return fmt.Errorf("remove body %d: %w", id, dynamo.ErrBodyNotFound)
	}

	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) { shapes = append(shapes, s) })
	for _, s := range shapes {
		c.space.RemoveShape(s)
	}
	c.space.RemoveBody(body)

	delete(c.bodies, id)
	delete(c.ids, body)
	delete(c.contacts, id)
	for k := range c.pairs {
		if k.on == id || k.by == id {
			delete(c.pairs, k)
		}
	}
	dynamo.Logger().Debug("engine body removed", slog.Int("id", int(id)))
	return nil
}

func (c *Chipmunk) SetMass(id BodyID, mass float64) {
	if body, ok := c.dynamic(id); ok {
		body.SetMass(math.Max(mass, minMass))
	}
}

func (c *Chipmunk) ApplyForce(id BodyID, force mgl64.Vec2) {
	if body, ok := c.dynamic(id); ok {
		body.ApplyForceAtWorldPoint(toCP(Finite(force)), body.Position())
	}
}

func (c *Chipmunk) Position(id BodyID) mgl64.Vec2 {
	if body, ok := c.bodies[id]; ok {
		return fromCP(body.Position())
	}
	return mgl64.Vec2{}
}

func (c *Chipmunk) SetPosition(id BodyID, p mgl64.Vec2) {
	if body, ok := c.bodies[id]; ok {
		body.SetPosition(toCP(p))
	}
}

func (c *Chipmunk) Velocity(id BodyID) mgl64.Vec2 {
	if body, ok := c.bodies[id]; ok {
		return fromCP(body.Velocity())
	}
	return mgl64.Vec2{}
}

func (c *Chipmunk) SetVelocity(id BodyID, v mgl64.Vec2) {
	if body, ok := c.dynamic(id); ok {
		body.SetVelocityVector(toCP(Finite(v)))
	}
}

func (c *Chipmunk) ContactForce(id BodyID) mgl64.Vec2 {
	return Finite(fromCP(c.contacts[id]))
}

func (c *Chipmunk) ContactForceBetween(a, b BodyID) mgl64.Vec2 {
	return Finite(fromCP(c.pairs[pair{on: a, by: b}]))
}

func (c *Chipmunk) ResetContactForces() {
	clear(c.contacts)
	clear(c.pairs)
}

func (c *Chipmunk) OnPostStep(fn func(dt float64)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Chipmunk) Step(dt float64) float64 {
	if dt > 0 && !math.IsInf(dt, 0) {
		c.accumulator += dt
	}

	h := c.cfg.FixedStep
	// Repeated subtraction leaves rounding error; a remainder within eps
	// of a whole step counts as one.
	eps := h * stepEpsilon
	for steps := 0; c.accumulator >= h-eps && steps < c.cfg.MaxSubSteps; steps++ {
		c.space.Step(h)
		c.collectContacts(h)
		for _, fn := range c.listeners {
			fn(h)
		}
		c.accumulator -= h
	}

	// Time beyond MaxSubSteps is dropped rather than replayed later.
	if c.accumulator >= h-eps {
		c.accumulator -= math.Floor((c.accumulator+eps)/h) * h
	}
	if c.accumulator < eps {
		c.accumulator = 0
	}
	return math.Min(c.accumulator/h, math.Nextafter(1, 0))
}

// collectContacts converts the impulses of the sub-step that just ran into
// forces, summed per body and per body pair.
func (c *Chipmunk) collectContacts(h float64) {
	for id, body := range c.bodies {
		body.EachArbiter(func(arb *cp.Arbiter) {
			f := arb.TotalImpulse().Mult(1 / h)
			if math.IsNaN(f.X) || math.IsNaN(f.Y) || math.IsInf(f.X, 0) || math.IsInf(f.Y, 0) {
				return
			}
			c.contacts[id] = c.contacts[id].Add(f)

			_, other := arb.Bodies()
			if by, ok := c.ids[other]; ok {
				k := pair{on: id, by: by}
				c.pairs[k] = c.pairs[k].Add(f)
			}
		})
	}
}

func (c *Chipmunk) dynamic(id BodyID) (*cp.Body, bool) {
	body, ok := c.bodies[id]
	if !ok || body.GetType() != cp.BODY_DYNAMIC {
		return nil, false
	}
	return body, true
}

func toCP(v mgl64.Vec2) cp.Vector   { return cp.Vector{X: v[0], Y: v[1]} }
func fromCP(v cp.Vector) mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }
