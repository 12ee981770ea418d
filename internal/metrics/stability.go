package metrics

import (
	"github.com/san-kum/buoysim/internal/sim"
)

// Stability is the share of frames in which every body moves slower than
// threshold: 1 for a scene at rest.
type Stability struct {
	name      string
	threshold float64
	moving    int
	samples   int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample sim.Sample) {
	s.samples++
	for _, b := range sample.Bodies {
		if b.Velocity.Len() > s.threshold {
			s.moving++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.moving)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.moving = 0
	s.samples = 0
}
