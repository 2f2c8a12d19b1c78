package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same configuration under consecutive seeds.
type Ensemble struct {
	numRuns   int
	seedStart int64
}

func NewEnsemble(numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{numRuns: max(numRuns, 1), seedStart: seedStart}
}

// Run executes every member concurrently. Each member owns its animator
// and host, so nothing is shared between goroutines.
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
			results[idx], errs[idx] = Run(ctx, cfgCopy)
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

// Summary averages an ensemble.
type Summary struct {
	Runs    int
	Frames  int
	FPS     float64
	Draws   float64
	Metrics map[string]float64
}

func Summarize(results []*Result) Summary {
	s := Summary{Runs: len(results), Metrics: make(map[string]float64)}
	if len(results) == 0 {
		return s
	}
	for _, r := range results {
		s.Frames += r.Frames
		s.FPS += r.FPS()
		if r.Frames > 0 {
			s.Draws += float64(r.Draws) / float64(r.Frames)
		}
		for k, v := range r.Metrics {
			s.Metrics[k] += v
		}
	}
	n := float64(len(results))
	s.FPS /= n
	s.Draws /= n
	for k := range s.Metrics {
		s.Metrics[k] /= n
	}
	return s
}
