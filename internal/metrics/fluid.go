package metrics

import (
	"math"

	"github.com/san-kum/buoysim/internal/sim"
)

// Spill reports the total fluid discarded over the pool rim.
type Spill struct {
	last float64
}

func NewSpill() *Spill { return &Spill{} }

func (s *Spill) Name() string          { return "spill" }
func (s *Spill) Observe(sm sim.Sample) { s.last = sm.Spilled }
func (s *Spill) Value() float64        { return s.last }
func (s *Spill) Reset()                { s.last = 0 }

type MaxHeight struct {
	max  float64
	seen bool
}

func NewMaxHeight() *MaxHeight { return &MaxHeight{} }

func (m *MaxHeight) Name() string { return "max_height" }

func (m *MaxHeight) Observe(s sim.Sample) {
	if !m.seen || s.PoolHeight > m.max {
		m.max = s.PoolHeight
		m.seen = true
	}
}

func (m *MaxHeight) Value() float64 { return m.max }

func (m *MaxHeight) Reset() {
	m.max = 0
	m.seen = false
}

// ScaleReading averages the scale readout in kilograms.
type ScaleReading struct {
	gravity float64
	sum     float64
	samples int
}

func NewScaleReading(gravity float64) *ScaleReading {
	return &ScaleReading{gravity: gravity}
}

func (r *ScaleReading) Name() string { return "scale_kg" }

func (r *ScaleReading) Observe(s sim.Sample) {
	r.sum += s.Scale
	r.samples++
}

func (r *ScaleReading) Value() float64 {
	if r.samples == 0 || r.gravity == 0 {
		return 0
	}
	return r.sum / float64(r.samples) / math.Abs(r.gravity)
}

func (r *ScaleReading) Reset() {
	r.sum = 0
	r.samples = 0
}

// Standard returns the metrics every run records.
func Standard(gravity float64) []sim.Metric {
	return []sim.Metric{
		NewVolumeDrift(),
		NewSpill(),
		NewMaxHeight(),
		NewStability(0.01),
		NewScaleReading(gravity),
	}
}
