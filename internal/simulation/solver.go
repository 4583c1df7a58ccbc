package simulation

import (
	"math"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"go.uber.org/zap"
)

// SolverConfig bounds the maximum-withdrawal search. Zero values fall back
// to the package defaults.
type SolverConfig struct {
	// TargetSuccessRate is the survival probability the spending level must
	// keep, in (0, 1].
	TargetSuccessRate float64

	// Precision is the currency granularity at which the search stops.
	Precision float64

	// Trials is the reduced per-step trial count. Search steps are
	// sequential, so each step stays cheap while the batch inside a step
	// still parallelizes.
	Trials int
}

func (c SolverConfig) withDefaults() SolverConfig {
	if c.TargetSuccessRate == 0 {
		c.TargetSuccessRate = constants.DefaultTargetSuccessRate
	}
	if c.Precision <= 0 {
		c.Precision = constants.DefaultSolverPrecision
	}
	if c.Trials <= 0 {
		c.Trials = constants.DefaultSolverTrials
	}
	return c
}

// FindMaxWithdrawal binary-searches annual spending for the highest level
// that still meets the target success rate. The spending on the provided
// input is ignored; bounds are the essential floor (or the domain default)
// up to 10% of the starting portfolio. Results are intentionally never
// cached: every step re-runs the simulator.
func FindMaxWithdrawal(logger *zap.Logger, in Input, cfg SolverConfig) (MaxWithdrawalResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	candidate := in
	candidate.AnnualSpending = 0
	candidate.Iterations = cfg.Trials
	if err := candidate.Validate(); err != nil {
		return MaxWithdrawalResult{}, err
	}
	if cfg.TargetSuccessRate < 0 || cfg.TargetSuccessRate > 1 {
		return MaxWithdrawalResult{}, &ValidationError{Fields: []FieldError{
			{Field: "targetSuccessRate", Reason: "must be between 0 and 1"},
		}}
	}

	low := constants.DefaultSolverFloor
	if in.EssentialFloor != nil {
		low = *in.EssentialFloor
	}
	high := constants.SolverHighFraction * in.StartingPortfolio

	start := time.Now()
	evaluate := func(spending float64) (float64, error) {
		candidate.AnnualSpending = spending
		agg, err := Run(logger, candidate)
		if err != nil {
			return 0, err
		}
		return agg.SuccessRate, nil
	}

	best := low
	bestRate := -1.0
	steps := 0

	for high-low > cfg.Precision {
		mid := math.Round((low + high) / 2)
		if mid <= low || mid >= high {
			break
		}
		rate, err := evaluate(mid)
		if err != nil {
			return MaxWithdrawalResult{}, err
		}
		steps++
		if rate >= cfg.TargetSuccessRate {
			best = mid
			bestRate = rate
			low = mid
		} else {
			high = mid
		}
	}

	// Nothing in range met the target (or the range collapsed before the
	// first step); report the floor with its actual rate.
	if bestRate < 0 {
		rate, err := evaluate(best)
		if err != nil {
			return MaxWithdrawalResult{}, err
		}
		bestRate = rate
	}

	logger.Info("max withdrawal search complete",
		zap.String("op", "simulation.FindMaxWithdrawal"),
		zap.Float64("maxWithdrawal", best),
		zap.Float64("successRate", bestRate),
		zap.Int("searchIterations", steps),
		zap.Duration("duration", time.Since(start)),
	)

	return MaxWithdrawalResult{
		MaxWithdrawal:    best,
		SuccessRate:      bestRate,
		SearchIterations: steps,
	}, nil
}
