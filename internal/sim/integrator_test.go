package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
)

var unitPool = dynamo.Bounds{MinX: -1, MaxX: 1, MinY: 0, MaxY: 2, Depth: 1}

func newFakeScene(t *testing.T, bounds dynamo.Bounds, volume float64, params Params) (*Scene, *fakeEngine) {
	t.Helper()
	sys, err := fluid.NewSystem(bounds, volume, fluid.DefaultTuning(), &dynamo.Ratio{})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	eng := newFakeEngine()
	return NewScene(eng, sys, params), eng
}

func mustAdd(t *testing.T, s *Scene, id engine.BodyID, shape geometry.Shape, density float64, pos mgl64.Vec2, boatVolume float64) *fluid.Body {
	t.Helper()
	b := fluid.NewBody(id, shape.Kind().String(), shape, density, s.System.Ratio())
	if err := s.AddBody(b, pos, mgl64.Vec2{}, boatVolume); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return b
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestIntegrator_FloatingBlockBalances(t *testing.T) {
	scene, eng := newFakeScene(t, unitPool, 0.5, DefaultParams())
	b := mustAdd(t, scene, 1, geometry.Box{W: 1, H: 1, D: 1}, 500, mgl64.Vec2{0, 0.5}, 0)

	scene.Integrator.Step(eng.h)

	if got := scene.System.Pool.Height.Current(); !near(got, 0.5, 1e-9) {
		t.Errorf("pool height = %v, want 0.5", got)
	}
	if got := b.Forces.Buoyancy.Current().Y(); !near(got, 0.5*1000*9.8, 1e-6) {
		t.Errorf("buoyancy = %v, want 4900", got)
	}
	if got := b.Forces.Gravity.Current().Y(); !near(got, -500*9.8, 1e-9) {
		t.Errorf("gravity = %v, want -4900", got)
	}
	if f := eng.force[1]; f.Len() > 1e-6 {
		t.Errorf("net applied force = %v, want zero", f)
	}
}

func TestIntegrator_SubmergedVolumeClampedToFluid(t *testing.T) {
	// The box fills the whole footprint, so only 0.3 of fluid can surround it.
	scene, eng := newFakeScene(t, unitPool, 0.3, DefaultParams())
	b := mustAdd(t, scene, 1, geometry.Box{W: 2, H: 1, D: 1}, 500, mgl64.Vec2{0, 0.5}, 0)

	scene.Integrator.Step(eng.h)

	if got := scene.System.Pool.Height.Current(); !near(got, 1.15, 1e-9) {
		t.Errorf("pool height = %v, want 1.15", got)
	}
	if got := b.Forces.Buoyancy.Current().Y(); !near(got, 0.3*1000*9.8, 1e-6) {
		t.Errorf("buoyancy = %v, want %v", got, 0.3*1000*9.8)
	}
}

func TestIntegrator_ClampsVelocity(t *testing.T) {
	params := DefaultParams()
	params.MaxVelocity = 10

	tests := []struct {
		name string
		v    mgl64.Vec2
		want mgl64.Vec2
	}{
		{"too fast", mgl64.Vec2{30, 40}, mgl64.Vec2{6, 8}},
		{"within limit", mgl64.Vec2{3, -4}, mgl64.Vec2{3, -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, eng := newFakeScene(t, unitPool, 0, params)
			mustAdd(t, scene, 1, geometry.Box{W: 0.5, H: 0.5, D: 0.5}, 500, mgl64.Vec2{0, 1}, 0)
			eng.vel[1] = tt.v

			scene.Integrator.Step(eng.h)

			if got := eng.vel[1]; !got.ApproxEqualThreshold(tt.want, 1e-12) {
				t.Errorf("velocity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegrator_DragOpposesMotion(t *testing.T) {
	scene, eng := newFakeScene(t, unitPool, 1.5, DefaultParams())
	b := mustAdd(t, scene, 1, geometry.Box{W: 0.5, H: 0.5, D: 0.5}, 500, mgl64.Vec2{0, 0.5}, 0)
	eng.vel[1] = mgl64.Vec2{0, -2}

	scene.Integrator.Step(eng.h)

	drag := b.Forces.Viscosity.Current()
	if drag.Y() <= 0 || drag.X() != 0 {
		t.Fatalf("drag = %v, want straight up", drag)
	}
	if limit := b.Mass() * 2 / eng.h; drag.Len() > limit {
		t.Errorf("drag %v exceeds stopping force %v", drag.Len(), limit)
	}
}

func TestIntegrator_ScaleReadsBodiesOnTop(t *testing.T) {
	scene, eng := newFakeScene(t, unitPool, 0, DefaultParams())
	scale := mustAdd(t, scene, 1, geometry.Scale{Box: geometry.Box{W: 1, H: 0.2, D: 1}}, 1000, mgl64.Vec2{0, 0.1}, 0)
	mustAdd(t, scene, 2, geometry.Box{W: 0.5, H: 0.5, D: 0.5}, 400, mgl64.Vec2{0, 0.45}, 0)
	mustAdd(t, scene, 3, geometry.Box{W: 0.5, H: 0.5, D: 0.5}, 400, mgl64.Vec2{0.6, 0.45}, 0)

	eng.pairs[pairKey{2, 1}] = mgl64.Vec2{0.5, 49}
	eng.pairs[pairKey{1, 2}] = mgl64.Vec2{-0.5, -49}
	// A body pulled down by the scale does not lower the reading.
	eng.pairs[pairKey{3, 1}] = mgl64.Vec2{0, -5}

	scene.Integrator.Step(eng.h)

	if got := scale.Forces.ScaleWeight.Current(); !near(got, 49, 1e-12) {
		t.Errorf("scale weight = %v, want 49", got)
	}
	if len(eng.pairs) != 0 {
		t.Error("contact forces should be reset after the force pass")
	}
}

func TestIntegrator_CarrierAcceleration(t *testing.T) {
	bounds := dynamo.Bounds{MinX: -5, MaxX: 5, MinY: 0, MaxY: 4, Depth: 2}
	scene, eng := newFakeScene(t, bounds, 29, DefaultParams())
	boat := mustAdd(t, scene, 1, geometry.Boat{W: 2, H: 1, D: 1, Wall: 0.1}, 300, mgl64.Vec2{0, 1.5}, 0.5)
	cargo := mustAdd(t, scene, 2, geometry.Box{W: 0.2, H: 0.2, D: 0.2}, 800, mgl64.Vec2{0.3, 1.2}, 0)

	scene.Integrator.Step(eng.h)
	if cargo.Containing != dynamo.ContainmentChild {
		t.Fatalf("cargo containment = %v, want child", cargo.Containing)
	}
	if got := cargo.Forces.Buoyancy.Current().Y(); !near(got, 0.008*1000*9.8, 1e-9) {
		t.Errorf("resting buoyancy = %v, want %v", got, 0.008*1000*9.8)
	}
	if want := boat.Mass() + scene.System.Child.FluidVolume*1000; !near(eng.mass[1], want, 1e-9) {
		t.Errorf("boat mass = %v, want hull plus fluid %v", eng.mass[1], want)
	}

	// The boat drops at g: its cargo is weightless relative to it.
	eng.vel[1] = mgl64.Vec2{0, -9.8 * eng.h}
	eng.vel[2] = eng.vel[1]
	scene.Integrator.Step(eng.h)
	if got := cargo.Forces.Buoyancy.Current().Y(); !near(got, 0, 1e-9) {
		t.Errorf("free-fall buoyancy = %v, want 0", got)
	}
	if got := cargo.Forces.Viscosity.Current(); got.Len() > 1e-12 {
		t.Errorf("cargo moving with the boat feels drag %v", got)
	}
}

func TestIntegrator_UnderwaterBoatIsSolid(t *testing.T) {
	bounds := dynamo.Bounds{MinX: -5, MaxX: 5, MinY: 0, MaxY: 4, Depth: 2}
	scene, eng := newFakeScene(t, bounds, 48, DefaultParams())
	hull := geometry.Boat{W: 2, H: 1, D: 1, Wall: 0.1}
	boat := mustAdd(t, scene, 1, hull, 300, mgl64.Vec2{0, 1.5}, 0)

	scene.Integrator.Step(eng.h)

	if !scene.System.BoatUnderwater() {
		t.Fatal("boat should be underwater")
	}
	// The overtopped boat fills, yet its mass ignores the 1.296 it holds:
	// a solid 2 m³ block at the hull density.
	if scene.System.Child.FluidVolume <= 0 {
		t.Fatal("overtopped boat should have filled")
	}
	if got := boat.Forces.Buoyancy.Current().Y(); !near(got, 2*1000*9.8, 1e-6) {
		t.Errorf("buoyancy = %v, want hull displacement %v", got, 2*1000*9.8)
	}
	if !near(eng.mass[1], 2*300, 1e-9) {
		t.Errorf("boat mass = %v, want displaced volume times density %v", eng.mass[1], 2*300)
	}
	if got := boat.Forces.Gravity.Current().Y(); !near(got, -600*9.8, 1e-6) {
		t.Errorf("gravity = %v, want %v", got, -600*9.8)
	}
}
