package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/buoysim/internal/sim"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{2}, Summary{Count: 1, Mean: 2, Min: 2, Max: 2}},
		{"pair", []float64{1, 3}, Summary{Count: 2, Mean: 2, StdDev: math.Sqrt2, Min: 1, Max: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.xs)
			if got.Count != tt.want.Count || got.Min != tt.want.Min || got.Max != tt.want.Max ||
				math.Abs(got.Mean-tt.want.Mean) > 1e-12 || math.Abs(got.StdDev-tt.want.StdDev) > 1e-12 {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.xs, got, tt.want)
			}
		})
	}
}

func TestSeries(t *testing.T) {
	samples := []sim.Sample{{PoolHeight: 0.5, BoatY: 1}, {PoolHeight: 0.6, BoatY: 1.1}}

	heights, err := Series(samples, "pool_height")
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(heights) != 2 || heights[1] != 0.6 {
		t.Errorf("pool_height = %v", heights)
	}

	if _, err := Series(samples, "temperature"); err == nil {
		t.Error("expected unknown series error")
	}
}

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	tests := []struct {
		name string
		freq float64
	}{
		{"slow bob", 1.5},
		{"fast bob", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, 1000)
			for i := range data {
				data[i] = 0.7 + 0.05*math.Sin(2*math.Pi*tt.freq*float64(i)*dt)
			}
			// Bin width is 1/(n*dt) = 0.1 Hz.
			if got := DominantFrequency(data, dt); math.Abs(got-tt.freq) > 0.1 {
				t.Errorf("DominantFrequency = %v, want %v", got, tt.freq)
			}
		})
	}
}

func TestDominantFrequency_Flat(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	if got := DominantFrequency(data, 0.1); got != 0 {
		t.Errorf("flat data frequency = %v, want 0", got)
	}
	if got := DominantFrequency([]float64{1}, 0.1); got != 0 {
		t.Errorf("single sample frequency = %v, want 0", got)
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	samples := []sim.Sample{
		{BoatY: 0.5, BoatVY: 0.2},
		{BoatY: 0.6, BoatVY: 0},
		{BoatY: 0.5, BoatVY: -0.2},
		{BoatY: 0.4, BoatVY: 0},
	}
	out := PhasePortraitToASCII(BoatPhasePortrait(samples), 20, 10)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "─") {
		t.Errorf("expected points and a zero axis:\n%s", out)
	}
	if PhasePortraitToASCII(nil, 20, 10) != "" {
		t.Error("empty portrait should render nothing")
	}
}
