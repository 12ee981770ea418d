package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
	"github.com/san-kum/buoysim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultVolume   = 1.0
	DefaultDensity  = 1000.0
)

type Config struct {
	Name     string        `yaml:"name"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Physics  PhysicsConfig `yaml:"physics"`
	Fluid    FluidConfig   `yaml:"fluid"`
	Pool     PoolConfig    `yaml:"pool"`
	Bodies   []BodyConfig  `yaml:"bodies"`
}

type PhysicsConfig struct {
	Gravity             float64 `yaml:"gravity"`
	FixedStep           float64 `yaml:"fixed_step"`
	MaxSubSteps         int     `yaml:"max_substeps"`
	Iterations          int     `yaml:"iterations"`
	Friction            float64 `yaml:"friction"`
	MaxVelocity         float64 `yaml:"max_velocity"`
	Viscosity           float64 `yaml:"viscosity"`
	ViscosityMassCutoff float64 `yaml:"viscosity_mass_cutoff"`
}

type FluidConfig struct {
	Density           float64 `yaml:"density"`
	Volume            float64 `yaml:"volume"`
	EmergenceFraction float64 `yaml:"emergence_fraction"`
	TransferFraction  float64 `yaml:"transfer_fraction"`
	FillTolerance     float64 `yaml:"fill_tolerance"`
	BoatFullThreshold float64 `yaml:"boat_full_threshold"`
}

type PoolConfig struct {
	MinX  float64 `yaml:"min_x"`
	MaxX  float64 `yaml:"max_x"`
	MinY  float64 `yaml:"min_y"`
	MaxY  float64 `yaml:"max_y"`
	Depth float64 `yaml:"depth"`
}

type BodyConfig struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Depth    float64 `yaml:"depth,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	Wall     float64 `yaml:"wall,omitempty"`
	Inverted bool    `yaml:"inverted,omitempty"`
	Density  float64 `yaml:"density"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx,omitempty"`
	VY       float64 `yaml:"vy,omitempty"`
	// Fluid is the volume a boat starts with inside it.
	Fluid float64 `yaml:"fluid,omitempty"`
}

func DefaultConfig() *Config {
	params := sim.DefaultParams()
	tuning := fluid.DefaultTuning()
	return &Config{
		Name:     "default",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Physics: PhysicsConfig{
			Gravity:             params.Gravity,
			FixedStep:           engine.DefaultFixedStep,
			MaxSubSteps:         engine.DefaultMaxSubSteps,
			Iterations:          engine.DefaultIterations,
			Friction:            engine.DefaultConfig().Friction,
			MaxVelocity:         params.MaxVelocity,
			Viscosity:           params.Viscosity,
			ViscosityMassCutoff: params.ViscosityMassCutoff,
		},
		Fluid: FluidConfig{
			Density:           DefaultDensity,
			Volume:            DefaultVolume,
			EmergenceFraction: tuning.EmergenceFraction,
			TransferFraction:  tuning.TransferFraction,
			FillTolerance:     tuning.FillTolerance,
			BoatFullThreshold: tuning.BoatFullThreshold,
		},
		Pool: PoolConfig{MinX: -1, MaxX: 1, MinY: 0, MaxY: 1.5, Depth: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p PoolConfig) Bounds() dynamo.Bounds {
	return dynamo.Bounds{MinX: p.MinX, MaxX: p.MaxX, MinY: p.MinY, MaxY: p.MaxY, Depth: p.Depth}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %f", c.Dt))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %f", c.Duration))
	}
	if err := c.Pool.Bounds().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pool: %w", err))
	}
	if c.Fluid.Density <= 0 {
		errs = append(errs, fmt.Errorf("fluid density must be positive, got %f", c.Fluid.Density))
	}
	if c.Fluid.Volume < 0 {
		errs = append(errs, fmt.Errorf("fluid volume must not be negative, got %f", c.Fluid.Volume))
	}

	boats := 0
	for i, b := range c.Bodies {
		shape, err := b.Shape()
		if err != nil {
			errs = append(errs, fmt.Errorf("body %d (%s): %w", i, b.Name, err))
			continue
		}
		if shape.Kind() == geometry.KindBoat {
			boats++
		}
		if b.Density <= 0 {
			errs = append(errs, fmt.Errorf("body %d (%s): density must be positive", i, b.Name))
		}
		if b.X < c.Pool.MinX || b.X > c.Pool.MaxX {
			errs = append(errs, fmt.Errorf("body %d (%s): x=%f outside the pool", i, b.Name, b.X))
		}
	}
	if boats > 1 {
		errs = append(errs, dynamo.ErrMultipleBoats)
	}
	return errors.Join(errs...)
}

// Shape builds the geometry named by Kind.
func (b BodyConfig) Shape() (geometry.Shape, error) {
	kind, err := geometry.ParseKind(b.Kind)
	if err != nil {
		return nil, err
	}

	var s geometry.Shape
	switch kind {
	case geometry.KindBox:
		s = geometry.Box{W: b.Width, H: b.Height, D: b.Depth}
	case geometry.KindScale:
		s = geometry.Scale{Box: geometry.Box{W: b.Width, H: b.Height, D: b.Depth}}
	case geometry.KindCylinder:
		s = geometry.Cylinder{R: b.Radius, H: b.Height}
	case geometry.KindCone:
		s = geometry.Cone{R: b.Radius, H: b.Height, Inverted: b.Inverted}
	case geometry.KindBoat:
		s = geometry.Boat{W: b.Width, H: b.Height, D: b.Depth, Wall: b.Wall}
	}
	if err := geometry.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Config) Tuning() fluid.Tuning {
	return fluid.Tuning{
		EmergenceFraction: c.Fluid.EmergenceFraction,
		TransferFraction:  c.Fluid.TransferFraction,
		FillTolerance:     c.Fluid.FillTolerance,
		BoatFullThreshold: c.Fluid.BoatFullThreshold,
	}
}

func (c *Config) Params() sim.Params {
	return sim.Params{
		Gravity:             c.Physics.Gravity,
		FluidDensity:        c.Fluid.Density,
		Viscosity:           c.Physics.Viscosity,
		ViscosityMassCutoff: c.Physics.ViscosityMassCutoff,
		MaxVelocity:         c.Physics.MaxVelocity,
	}
}

func (c *Config) Engine() engine.Config {
	return engine.Config{
		FixedStep:   c.Physics.FixedStep,
		MaxSubSteps: c.Physics.MaxSubSteps,
		Iterations:  c.Physics.Iterations,
		Friction:    c.Physics.Friction,
		Container:   c.Pool.Bounds(),
	}
}

func (c *Config) Sim() sim.Config {
	return sim.Config{Dt: c.Dt, Duration: c.Duration}
}

// Build validates the config and assembles a Chipmunk-backed scene with
// bodies numbered from 1 in config order.
func (c *Config) Build() (*sim.Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sys, err := fluid.NewSystem(c.Pool.Bounds(), c.Fluid.Volume, c.Tuning(), &dynamo.Ratio{})
	if err != nil {
		return nil, err
	}
	scene := sim.NewScene(engine.NewChipmunk(c.Engine()), sys, c.Params())

	for i, b := range c.Bodies {
		shape, err := b.Shape()
		if err != nil {
			return nil, err
		}
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", b.Kind, i+1)
		}
		body := fluid.NewBody(engine.BodyID(i+1), name, shape, b.Density, sys.Ratio())
		if err := scene.AddBody(body, mgl64.Vec2{b.X, b.Y}, mgl64.Vec2{b.VX, b.VY}, b.Fluid); err != nil {
			return nil, err
		}
	}
	return scene, nil
}
