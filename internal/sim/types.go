package sim

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
)

// Params are the physical constants of the force pass.
type Params struct {
	Gravity      float64
	FluidDensity float64
	// Viscosity scales the drag opposing motion relative to the fluid.
	Viscosity float64
	// ViscosityMassCutoff keeps very light bodies from being stopped dead
	// by drag proportional to their mass.
	ViscosityMassCutoff float64
	// MaxVelocity bounds body speed before every sub-step.
	MaxVelocity float64
}

func DefaultParams() Params {
	return Params{
		Gravity:             9.8,
		FluidDensity:        1000,
		Viscosity:           0.1,
		ViscosityMassCutoff: 0.05,
		MaxVelocity:         10,
	}
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

// Sample is the interpolated scene state seen by a renderer after a frame.
type Sample struct {
	Time       float64 `csv:"time" json:"time"`
	Frame      int     `csv:"frame" json:"frame"`
	PoolHeight float64 `csv:"pool_height" json:"pool_height"`
	PoolVolume float64 `csv:"pool_volume" json:"pool_volume"`
	BoatHeight float64 `csv:"boat_height" json:"boat_height"`
	BoatVolume float64 `csv:"boat_volume" json:"boat_volume"`
	BoatY      float64 `csv:"boat_y" json:"boat_y"`
	BoatVY     float64 `csv:"boat_vy" json:"boat_vy"`
	Spilled    float64 `csv:"spilled" json:"spilled"`
	Draining   bool    `csv:"draining" json:"draining"`
	Scale      float64 `csv:"scale" json:"scale"`

	Bodies []BodySample `csv:"-" json:"bodies,omitempty"`
}

func (s Sample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("t", s.Time),
		slog.Int("frame", s.Frame),
		slog.Float64("pool_height", s.PoolHeight),
		slog.Float64("pool_volume", s.PoolVolume),
		slog.Float64("boat_volume", s.BoatVolume),
		slog.Float64("spilled", s.Spilled),
		slog.Bool("draining", s.Draining),
		slog.Int("bodies", len(s.Bodies)),
	)
}

type BodySample struct {
	ID          engine.BodyID
	Name        string
	Position    mgl64.Vec2
	Velocity    mgl64.Vec2
	Gravity     mgl64.Vec2
	Buoyancy    mgl64.Vec2
	Viscosity   mgl64.Vec2
	Contact     mgl64.Vec2
	ScaleWeight float64
	Containing  dynamo.Containment
}

// Snapshot is enough to rebuild a scene's dynamic state: the fluid in each
// basin plus each body's position and velocity.
type Snapshot struct {
	PoolVolume float64     `json:"pool_volume"`
	BoatVolume float64     `json:"boat_volume"`
	Spilled    float64     `json:"spilled"`
	Bodies     []BodyState `json:"bodies"`
}

type BodyState struct {
	ID       engine.BodyID `json:"id"`
	Position mgl64.Vec2    `json:"position"`
	Velocity mgl64.Vec2    `json:"velocity"`
}
