package analysis

import (
	"fmt"

	"github.com/san-kum/buoysim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var columns = map[string]func(sim.Sample) float64{
	"pool_height": func(s sim.Sample) float64 { return s.PoolHeight },
	"pool_volume": func(s sim.Sample) float64 { return s.PoolVolume },
	"boat_height": func(s sim.Sample) float64 { return s.BoatHeight },
	"boat_volume": func(s sim.Sample) float64 { return s.BoatVolume },
	"boat_y":      func(s sim.Sample) float64 { return s.BoatY },
	"boat_vy":     func(s sim.Sample) float64 { return s.BoatVY },
	"spilled":     func(s sim.Sample) float64 { return s.Spilled },
	"scale":       func(s sim.Sample) float64 { return s.Scale },
}

// Series extracts the named column from samples.
func Series(samples []sim.Sample, name string) ([]float64, error) {
	get, ok := columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", name)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out, nil
}

type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(xs),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}
