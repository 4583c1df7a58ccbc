// Package constants provides shared constants for the retirement-forecast application.
package constants

import "time"

// Simulation defaults
const (
	// DefaultIterations is the trial count used when a plan does not set one
	DefaultIterations = 10000

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Withdrawal solver defaults
const (
	// DefaultSolverFloor is the lower search bound when no essential floor is set
	DefaultSolverFloor = 20000.0

	// SolverHighFraction sets the upper search bound as a fraction of the portfolio
	SolverHighFraction = 0.10

	// DefaultSolverPrecision is the currency granularity at which the search stops
	DefaultSolverPrecision = 500.0

	// DefaultSolverTrials is the reduced trial count used per search step
	DefaultSolverTrials = 1000

	// DefaultTargetSuccessRate is the survival probability the solver aims for
	DefaultTargetSuccessRate = 0.90
)

// Result cache defaults
const (
	// DefaultCacheTTL is how long a cached aggregate stays valid
	DefaultCacheTTL = 24 * time.Hour

	// PortfolioGranularity rounds portfolio values for cache fingerprints
	PortfolioGranularity = 1000.0

	// SpendingGranularity rounds spending-derived values for cache fingerprints
	SpendingGranularity = 100.0

	// RateScale scales rates to three decimal places for cache fingerprints
	RateScale = 1000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
