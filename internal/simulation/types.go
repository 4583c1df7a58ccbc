// Package simulation implements the retirement sustainability core: a
// Monte Carlo trial engine over a multi-decade withdrawal horizon, an
// aggregator producing survival statistics, and a binary-search solver for
// the maximum sustainable annual spending.
package simulation

// GuardrailsPolicy adjusts planned spending based on how the portfolio
// compares to its starting value. Thresholds are ratios of the current
// balance to the starting portfolio; adjustments are fractional.
type GuardrailsPolicy struct {
	UpperThreshold  float64 `json:"upperThreshold"`
	LowerThreshold  float64 `json:"lowerThreshold"`
	IncreasePercent float64 `json:"increasePercent"`
	DecreasePercent float64 `json:"decreasePercent"`
}

// IncomeEvent is a recurring annual income that starts at a fixed year
// offset and continues for the rest of the horizon, e.g. social security.
type IncomeEvent struct {
	StartYear    int     `json:"startYear"`
	AnnualAmount float64 `json:"annualAmount"`
}

// Input carries everything one simulation or solve request needs. All
// monetary values and rates are in real (inflation-adjusted) terms. The
// caller owns the Input for the duration of the request; nil optional
// fields mean the corresponding behavior is disabled.
type Input struct {
	StartingPortfolio float64 `json:"startingPortfolio"`
	AnnualSpending    float64 `json:"annualSpending"`
	Years             int     `json:"years"`
	RealReturn        float64 `json:"realReturn"`
	Volatility        float64 `json:"volatility"`
	Iterations        int     `json:"iterations"`

	// Seed pins the pseudo-random sequence; zero selects a time-based seed.
	Seed int64 `json:"seed,omitempty"`

	SocialSecurity  *IncomeEvent      `json:"socialSecurity,omitempty"`
	EssentialFloor  *float64          `json:"essentialFloor,omitempty"`
	SpendingCeiling *float64          `json:"spendingCeiling,omitempty"`
	Guardrails      *GuardrailsPolicy `json:"guardrails,omitempty"`
}

// TrialResult is the outcome of one simulated withdrawal horizon.
// Immutable after creation.
type TrialResult struct {
	Success           bool
	EndingBalance     float64
	YearsLasted       int
	LowestBalance     float64
	LowestBalanceYear int
}

// SuccessStats summarizes the trials that survived the full horizon.
type SuccessStats struct {
	Count               int     `json:"count"`
	MedianEndingBalance float64 `json:"medianEndingBalance"`
	P10EndingBalance    float64 `json:"p10EndingBalance"`
	P90EndingBalance    float64 `json:"p90EndingBalance"`
}

// FailureStats summarizes the trials that depleted before the horizon ended.
type FailureStats struct {
	Count              int     `json:"count"`
	AverageYearsLasted float64 `json:"averageYearsLasted"`
	MedianYearsLasted  float64 `json:"medianYearsLasted"`
	WorstCase          int     `json:"worstCase"`
}

// AggregatedResult is derived entirely from one batch of trials and is
// recomputed on every run. Consumers must not mutate it.
type AggregatedResult struct {
	SuccessRate float64      `json:"successRate"`
	Iterations  int          `json:"iterations"`
	Success     SuccessStats `json:"success"`
	Failure     FailureStats `json:"failure"`
}

// MaxWithdrawalResult reports the outcome of a maximum-withdrawal search.
type MaxWithdrawalResult struct {
	MaxWithdrawal    float64 `json:"maxWithdrawal"`
	SuccessRate      float64 `json:"successRate"`
	SearchIterations int     `json:"searchIterations"`
}
