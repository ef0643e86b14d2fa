package sim

import (
	"context"
	"sync"

	"github.com/san-kum/rigid2d/internal/world"
)

// Build creates a fresh world for one ensemble member.
type Build func(seed int64) (*world.World, error)

// Ensemble runs the same scene with consecutive seeds in parallel. Worlds
// are not shared, so every run gets its own world and its own metrics.
type Ensemble struct {
	build     Build
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Build, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			w, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}
			sim := New()
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, w, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
