package simulation

import (
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Run validates the input, executes in.Iterations independent trials across
// a worker pool, and aggregates the outcomes. Trials share no mutable
// state: each worker writes into a disjoint slot of the result slice, so no
// locking is needed beyond the final WaitGroup barrier.
func Run(logger *zap.Logger, in Input) (AggregatedResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := in.Validate(); err != nil {
		return AggregatedResult{}, err
	}

	start := time.Now()
	results := runTrials(in)
	agg := aggregate(results)

	logger.Debug("simulation batch complete",
		zap.String("op", "simulation.Run"),
		zap.Int("iterations", in.Iterations),
		zap.Float64("successRate", agg.SuccessRate),
		zap.Duration("duration", time.Since(start)),
	)

	return agg, nil
}

func runTrials(in Input) []TrialResult {
	seed := in.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := runtime.NumCPU()
	if workers > in.Iterations {
		workers = in.Iterations
	}

	results := make([]TrialResult, in.Iterations)
	trials := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range trials {
				sampler := NewNormalSampler(newTrialSource(seed, i))
				results[i] = RunTrial(in, sampler)
			}
		}()
	}

	for i := 0; i < in.Iterations; i++ {
		trials <- i
	}
	close(trials)
	wg.Wait()

	return results
}

// aggregate partitions trials into successes and failures and derives the
// summary statistics. Empty partitions report zeroed stats rather than
// failing.
func aggregate(results []TrialResult) AggregatedResult {
	var endingBalances []float64
	var yearsLasted []int

	for _, r := range results {
		if r.Success {
			endingBalances = append(endingBalances, r.EndingBalance)
		} else {
			yearsLasted = append(yearsLasted, r.YearsLasted)
		}
	}

	agg := AggregatedResult{
		Iterations:  len(results),
		SuccessRate: float64(len(endingBalances)) / float64(len(results)),
	}

	if len(endingBalances) > 0 {
		sort.Float64s(endingBalances)
		agg.Success = SuccessStats{
			Count:               len(endingBalances),
			MedianEndingBalance: medianFloat(endingBalances),
			P10EndingBalance:    percentile(endingBalances, 0.10),
			P90EndingBalance:    percentile(endingBalances, 0.90),
		}
	}

	if len(yearsLasted) > 0 {
		sort.Ints(yearsLasted)
		sum := 0
		for _, y := range yearsLasted {
			sum += y
		}
		agg.Failure = FailureStats{
			Count:              len(yearsLasted),
			AverageYearsLasted: float64(sum) / float64(len(yearsLasted)),
			MedianYearsLasted:  medianInt(yearsLasted),
			WorstCase:          yearsLasted[0],
		}
	}

	return agg
}

// medianFloat expects sorted input and averages the two central values for
// even counts.
func medianFloat(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func medianInt(sorted []int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// percentile expects sorted input and uses the floor(n*p) index, clamped to
// the last element.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * p))
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
