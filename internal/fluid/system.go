package fluid

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/geometry"
)

// Tuning holds the empirically chosen transfer constants. They exist for
// visual smoothness, not from a physical law, and can be overridden.
type Tuning struct {
	// EmergenceFraction is the share of the boat height by which its rim
	// must stand above the pool surface before a boat holding fluid starts
	// draining into the pool.
	EmergenceFraction float64
	// TransferFraction is the share of the boat hull volume moved per
	// sub-step while draining or filling.
	TransferFraction float64
	// FillTolerance is the gap between the boat's fluid surface and its rim
	// beyond which a partly filled, overtopped boat keeps filling.
	FillTolerance float64
	// BoatFullThreshold is the share of the boat height, measured down
	// from the rim, within which a boat counts as underwater.
	BoatFullThreshold float64
}

func DefaultTuning() Tuning {
	return Tuning{
		EmergenceFraction: 0.9,
		TransferFraction:  0.01,
		FillTolerance:     1e-3,
		BoatFullThreshold: 0.01,
	}
}

// System owns the pool, the optional boat basin and every body, and runs
// the per-sub-step volume accounting.
type System struct {
	Pool   *Basin
	Child  *Basin
	Bodies []*Body
	Tuning Tuning

	// Spilled is the total volume discarded over the pool rim.
	Spilled float64

	ratio    *dynamo.Ratio
	draining bool
}

func NewSystem(pool dynamo.Bounds, volume float64, tuning Tuning, ratio *dynamo.Ratio) (*System, error) {
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	return &System{
		Pool:   NewPool(pool, volume, ratio),
		Tuning: tuning,
		ratio:  ratio,
	}, nil
}

func (s *System) Ratio() *dynamo.Ratio { return s.ratio }

// Boat returns the boat body, or nil.
func (s *System) Boat() *Body {
	if s.Child == nil {
		return nil
	}
	return s.Child.owner
}

// Draining reports whether the boat is currently emptying into the pool.
func (s *System) Draining() bool { return s.draining }

// Add registers a body. A boat also gets an interior basin holding
// boatVolume of fluid; the argument is ignored for other kinds.
func (s *System) Add(body *Body, boatVolume float64) error {
	if err := geometry.Validate(body.Shape); err != nil {
		return err
	}
	for _, b := range s.Bodies {
		if b.ID == body.ID {
			return fmt.Errorf("body %d: %w", body.ID, dynamo.ErrBodyExists)
		}
	}
	if body.Kind() == geometry.KindBoat {
		if s.Child != nil {
			return dynamo.ErrMultipleBoats
		}
		s.Child = NewBoatBasin(body, boatVolume, s.ratio)
		s.draining = false
	}
	s.Bodies = append(s.Bodies, body)
	return nil
}

// Remove unregisters a body. Removing the boat returns its fluid to the pool.
func (s *System) Remove(id engine.BodyID) error {
	for i, b := range s.Bodies {
		if b.ID != id {
			continue
		}
		if s.Child != nil && s.Child.owner == b {
			s.Pool.FluidVolume += s.Child.FluidVolume
			s.Child = nil
			s.draining = false
		}
		s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
		return nil
	}
	return fmt.Errorf("body %d: %w", id, dynamo.ErrBodyNotFound)
}

// Update runs one sub-step of volume accounting: step caches, basin
// membership, nested transfer, height solves and containment, in that order.
func (s *System) Update(position func(engine.BodyID) mgl64.Vec2) {
	for _, b := range s.Bodies {
		b.UpdateStepInformation(position(b.ID))
	}
	if s.Child != nil {
		s.Child.UpdateStepInformation()
	}

	s.assignStepBodies()
	s.transfer()

	s.Pool.ComputeHeight()
	if s.Child != nil {
		s.Child.ComputeHeight()
	}
	s.assignContainment()
}

// Prime solves the initial heights without transferring fluid, so the first
// sub-step starts from a settled surface instead of the basin floors.
func (s *System) Prime(position func(engine.BodyID) mgl64.Vec2) {
	for _, b := range s.Bodies {
		b.UpdateStepInformation(position(b.ID))
	}
	if s.Child != nil {
		s.Child.UpdateStepInformation()
	}

	// Membership depends on the pool height, so settle it twice.
	for i := 0; i < 2; i++ {
		s.assignStepBodies()
		s.Pool.Height.Reset(s.Pool.ComputeHeight())
		if s.Child != nil {
			s.Child.Height.Reset(s.Child.ComputeHeight())
		}
	}
	s.assignContainment()
}

// childActive reports whether the boat basin is above the pool surface and
// therefore holds its own fluid separately.
func (s *System) childActive(poolHeight float64) bool {
	return s.Child != nil && poolHeight < s.Child.bounds.MaxY
}

// assignStepBodies sorts bodies into basins. A body inside the boat
// displaces boat fluid below the rim; the pool sees it only above the rim,
// since the hull displacement already covers the cavity.
func (s *System) assignStepBodies() {
	s.Pool.StepBodies = s.Pool.StepBodies[:0]
	s.Pool.Nested = s.Pool.Nested[:0]
	if s.Child != nil {
		s.Child.StepBodies = s.Child.StepBodies[:0]
		s.Pool.NestedFloor = s.Child.bounds.MaxY
	}
	for _, b := range s.Bodies {
		inPool := s.Pool.Contains(b)
		if s.Child != nil && s.Child.Contains(b) {
			s.Child.StepBodies = append(s.Child.StepBodies, b)
			if inPool {
				s.Pool.Nested = append(s.Pool.Nested, b)
			}
			continue
		}
		if inPool {
			s.Pool.StepBodies = append(s.Pool.StepBodies, b)
		}
	}
}

func (s *System) transfer() {
	pool, child := s.Pool, s.Child
	if child != nil {
		boat := child.owner
		top := boat.StepTop

		poolExcess := pool.FluidVolume - pool.EmptyVolume(math.Min(top, pool.bounds.MaxY))
		boatCapacity := child.EmptyVolume(top)
		boatExcess := child.FluidVolume - boatCapacity
		rate := s.Tuning.TransferFraction * boat.Shape.DisplacedVolume(boat.Shape.Height())

		s.updateDraining(boat)

		full := child.FluidVolume >= (1-s.Tuning.BoatFullThreshold)*boatCapacity
		empty := child.FluidVolume <= 0
		filling := !full && !empty &&
			math.Abs(child.Height.Current()-top) > s.Tuning.FillTolerance

		switch {
		case s.draining:
			s.move(child, pool, math.Min(rate, child.FluidVolume))
		case filling && poolExcess > 0 && boatExcess < 0:
			s.move(pool, child, math.Min(rate, math.Min(poolExcess, -boatExcess)))
		case poolExcess > 0 && boatExcess < 0:
			s.move(pool, child, math.Min(poolExcess, -boatExcess))
		case boatExcess > 0:
			s.move(child, pool, boatExcess)
		}
	}

	if capacity := pool.MaxVolume(); pool.FluidVolume > capacity {
		spill := pool.FluidVolume - capacity
		s.Spilled += spill
		pool.FluidVolume = capacity
		dynamo.Logger().Debug("pool spilled", slog.Float64("volume", spill))
	}
}

// updateDraining toggles the drain flag with hysteresis: draining starts
// when a boat holding fluid lifts its rim EmergenceFraction of its height
// above the surface and stops once it is empty or overtopped again.
func (s *System) updateDraining(boat *Body) {
	level := s.Pool.Height.Current()
	submerged := boat.SubmergedFraction(level)
	emerged := boat.StepTop > level+s.Tuning.EmergenceFraction*(boat.StepTop-boat.StepBottom)
	switch {
	case s.draining && (s.Child.FluidVolume <= 0 || submerged >= 1):
		s.draining = false
		dynamo.Logger().Info("boat drain stopped", slog.Float64("submerged", submerged))
	case !s.draining && s.Child.FluidVolume > 0 && emerged:
		s.draining = true
		dynamo.Logger().Info("boat drain started",
			slog.Float64("submerged", submerged),
			slog.Float64("volume", s.Child.FluidVolume))
	}
}

func (s *System) move(from, to *Basin, volume float64) {
	if volume <= 0 {
		return
	}
	volume = math.Min(volume, from.FluidVolume)
	from.FluidVolume -= volume
	to.FluidVolume += volume
}

func (s *System) assignContainment() {
	active := s.childActive(s.Pool.Height.Current())
	for _, b := range s.Bodies {
		switch {
		case active && s.Child.Contains(b):
			b.Containing = dynamo.ContainmentChild
		case s.Pool.Contains(b):
			b.Containing = dynamo.ContainmentPool
		default:
			b.Containing = dynamo.ContainmentNone
		}
	}
}

// Basin resolves a containment to its basin; nil for ContainmentNone.
func (s *System) Basin(c dynamo.Containment) *Basin {
	switch c {
	case dynamo.ContainmentPool:
		return s.Pool
	case dynamo.ContainmentChild:
		return s.Child
	default:
		return nil
	}
}

// BoatUnderwater reports whether the pool surface is within
// BoatFullThreshold of the boat rim, in which case the boat is treated as
// a solid body for forces.
func (s *System) BoatUnderwater() bool {
	boat := s.Boat()
	if boat == nil {
		return false
	}
	margin := s.Tuning.BoatFullThreshold * (boat.StepTop - boat.StepBottom)
	return s.Pool.Height.Current() >= boat.StepTop-margin
}

// TotalVolume is the fluid held by the pool and the boat.
func (s *System) TotalVolume() float64 {
	v := s.Pool.FluidVolume
	if s.Child != nil {
		v += s.Child.FluidVolume
	}
	return v
}
