package sim

import (
	"context"
	"sync"
)

// Batch runs independent simulators concurrently. Scenes share nothing, so
// each one runs on its own goroutine.
type Batch struct {
	sims []*Simulator
}

func NewBatch(sims ...*Simulator) *Batch {
	return &Batch{sims: sims}
}

func (b *Batch) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(b.sims))
	errs := make([]error, len(b.sims))

	var wg sync.WaitGroup
	for i, s := range b.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
