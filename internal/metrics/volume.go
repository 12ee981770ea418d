package metrics

import (
	"math"

	"github.com/san-kum/buoysim/internal/sim"
)

// VolumeDrift is the largest relative change in total fluid, counting
// spilled fluid, against the first observed sample. Transfers between
// pool and boat must keep it at rounding level.
type VolumeDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewVolumeDrift() *VolumeDrift {
	return &VolumeDrift{name: "volume_drift"}
}

func (v *VolumeDrift) Name() string { return v.name }

func (v *VolumeDrift) Observe(s sim.Sample) {
	total := s.PoolVolume + s.BoatVolume + s.Spilled
	if v.samples == 0 {
		v.initial = total
	}
	v.samples++
	if v.initial == 0 {
		return
	}
	if d := math.Abs(total-v.initial) / v.initial; d > v.maxDrift {
		v.maxDrift = d
	}
}

func (v *VolumeDrift) Value() float64 { return v.maxDrift }

func (v *VolumeDrift) Reset() {
	v.initial = 0
	v.maxDrift = 0
	v.samples = 0
}
