package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/buoysim/internal/dynamo"
)

// Simulator drives a Scene at a fixed frame rate, feeding every frame's
// sample to metrics and observers.
type Simulator struct {
	scene     *Scene
	metrics   []Metric
	observers []Observer
}

func New(scene *Scene) *Simulator {
	return &Simulator{
		scene:     scene,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Scene() *Scene { return s.scene }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, frames+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	log := dynamo.Logger()
	log.Info("run started", slog.Float64("dt", cfg.Dt), slog.Int("frames", frames))

	sample := s.scene.Sample()
	result.Samples = append(result.Samples, sample)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("frame %d: %w", i, dynamo.ErrContextCanceled)
		default:
		}

		s.observe(sample)
		s.scene.Frame(cfg.Dt)
		sample = s.scene.Sample()

		if !finite(sample) {
			return result, &dynamo.SimulationError{
				Frame:   s.scene.Frames(),
				Time:    sample.Time,
				Wrapped: fmt.Errorf("non-finite fluid state"),
			}
		}

		result.StepsTaken++
		result.Samples = append(result.Samples, sample)
	}

	s.observe(sample)

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	log.Info("run finished", slog.Any("last", sample), slog.Float64("spilled", sample.Spilled))
	return result, nil
}

func (s *Simulator) observe(sample Sample) {
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps frames until the duration elapses or callback
// returns false. The live view drives the scene through this.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	for t := 0.0; t < cfg.Duration; t += cfg.Dt {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.scene.Sample()) {
			return nil
		}
		s.scene.Frame(cfg.Dt)
	}
	return nil
}

func finite(s Sample) bool {
	for _, v := range []float64{s.PoolHeight, s.PoolVolume, s.BoatHeight, s.BoatVolume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
