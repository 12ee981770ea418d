package sim

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
)

// Scene ties an engine to a fluid system. Frame is the only entry point
// that advances time; bodies may be added or removed between frames.
type Scene struct {
	Engine     engine.Engine
	System     *fluid.System
	Integrator *Integrator

	time  float64
	frame int
}

func NewScene(eng engine.Engine, sys *fluid.System, params Params) *Scene {
	return &Scene{
		Engine:     eng,
		System:     sys,
		Integrator: NewIntegrator(eng, sys, params),
	}
}

func (s *Scene) Time() float64 { return s.time }
func (s *Scene) Frames() int   { return s.frame }

// AddBody registers body with both the fluid system and the engine. A boat
// starts with boatVolume of fluid inside.
func (s *Scene) AddBody(body *fluid.Body, pos, vel mgl64.Vec2, boatVolume float64) error {
	if err := s.System.Add(body, boatVolume); err != nil {
		return fmt.Errorf("add %s: %w", body.Name, err)
	}

	mass := body.Mass()
	if body.Kind() == geometry.KindBoat {
		mass += boatVolume * s.Integrator.params.FluidDensity
	}
	err := s.Engine.AddBody(body.ID, engine.BodyDef{
		Mass:      mass,
		Position:  pos,
		Velocity:  vel,
		Colliders: body.Colliders(),
	})
	if err != nil {
		_ = s.System.Remove(body.ID)
		return fmt.Errorf("add %s: %w", body.Name, err)
	}

	s.System.Prime(s.Engine.Position)
	dynamo.Logger().Info("body added",
		slog.String("name", body.Name),
		slog.String("kind", body.Kind().String()),
		slog.Float64("mass", mass),
		slog.Any("position", pos))
	return nil
}

func (s *Scene) RemoveBody(id engine.BodyID) error {
	if err := s.System.Remove(id); err != nil {
		return err
	}
	if err := s.Engine.RemoveBody(id); err != nil {
		return err
	}
	s.System.Prime(s.Engine.Position)
	return nil
}

// Frame advances the engine by dt and publishes the leftover sub-step
// fraction for interpolation. It returns that fraction.
func (s *Scene) Frame(dt float64) float64 {
	ratio := s.Engine.Step(dt)
	s.System.Ratio().Set(ratio)
	s.time += dt
	s.frame++
	return ratio
}

// Sample reads the interpolated state for rendering.
func (s *Scene) Sample() Sample {
	sys := s.System
	out := Sample{
		Time:       s.time,
		Frame:      s.frame,
		PoolHeight: sys.Pool.Height.Value(),
		PoolVolume: sys.Pool.FluidVolume,
		Spilled:    sys.Spilled,
		Draining:   sys.Draining(),
		Bodies:     make([]BodySample, 0, len(sys.Bodies)),
	}
	if sys.Child != nil {
		out.BoatHeight = sys.Child.Height.Value()
		out.BoatVolume = sys.Child.FluidVolume
		out.BoatY = s.Engine.Position(sys.Boat().ID).Y()
		out.BoatVY = s.Engine.Velocity(sys.Boat().ID).Y()
	}

	for _, b := range sys.Bodies {
		bs := BodySample{
			ID:          b.ID,
			Name:        b.Name,
			Position:    s.Engine.Position(b.ID),
			Velocity:    s.Engine.Velocity(b.ID),
			Gravity:     b.Forces.Gravity.Value(),
			Buoyancy:    b.Forces.Buoyancy.Value(),
			Viscosity:   b.Forces.Viscosity.Value(),
			Contact:     b.Forces.Contact.Value(),
			ScaleWeight: b.Forces.ScaleWeight.Value(),
			Containing:  b.Containing,
		}
		if b.Kind() == geometry.KindScale {
			out.Scale += bs.ScaleWeight
		}
		out.Bodies = append(out.Bodies, bs)
	}
	return out
}

func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		PoolVolume: s.System.Pool.FluidVolume,
		Spilled:    s.System.Spilled,
		Bodies:     make([]BodyState, 0, len(s.System.Bodies)),
	}
	if s.System.Child != nil {
		snap.BoatVolume = s.System.Child.FluidVolume
	}
	for _, b := range s.System.Bodies {
		snap.Bodies = append(snap.Bodies, BodyState{
			ID:       b.ID,
			Position: s.Engine.Position(b.ID),
			Velocity: s.Engine.Velocity(b.ID),
		})
	}
	return snap
}

// Restore applies a snapshot taken from a scene with the same bodies.
func (s *Scene) Restore(snap Snapshot) error {
	known := make(map[engine.BodyID]bool, len(s.System.Bodies))
	for _, b := range s.System.Bodies {
		known[b.ID] = true
	}
	for _, bs := range snap.Bodies {
		if !known[bs.ID] {
			return fmt.Errorf("restore body %d: %w", bs.ID, dynamo.ErrBodyNotFound)
		}
	}

	for _, bs := range snap.Bodies {
		s.Engine.SetPosition(bs.ID, bs.Position)
		s.Engine.SetVelocity(bs.ID, bs.Velocity)
	}
	s.System.Pool.FluidVolume = snap.PoolVolume
	s.System.Spilled = snap.Spilled
	if s.System.Child != nil {
		s.System.Child.FluidVolume = snap.BoatVolume
	}
	s.System.Prime(s.Engine.Position)
	return nil
}
