// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for retirement-forecast.
type Configuration struct {
	Plans   []Plan
	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Solver  SolverConfig  `yaml:"solver,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// CacheConfig controls the durable result cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Path     string `yaml:"path,omitempty"`     // sqlite database file
	TTLHours int    `yaml:"ttlHours,omitempty"` // 0 selects the 24h default
}

// SolverConfig controls the maximum-withdrawal search.
type SolverConfig struct {
	TargetSuccessRate float64 `yaml:"targetSuccessRate,omitempty"`
	Precision         float64 `yaml:"precision,omitempty"`
	Trials            int     `yaml:"trials,omitempty"`
}

// Plan is one named retirement scenario: a starting portfolio, a spending
// plan, and market-return assumptions.
type Plan struct {
	Name   string
	Active bool

	StartingPortfolio float64
	AnnualSpending    float64 // base living expense
	Goals             []SpendingGoal
	Years             int
	RealReturn        float64 // annual return net of inflation
	Volatility        float64 // standard deviation of RealReturn
	Iterations        int     // 0 selects the default trial count
	Seed              int64   // 0 selects a time-based seed

	SocialSecurity  *SocialSecurity
	EssentialFloor  *float64
	SpendingCeiling *float64
	Guardrails      *Guardrails
}

// SpendingGoal is an itemized annual expense on top of the base living
// expense.
type SpendingGoal struct {
	Name   string
	Amount float64
}

// SocialSecurity is a pension-like benefit claimed at a year offset into
// the horizon.
type SocialSecurity struct {
	StartYear    int
	AnnualAmount float64
}

// Guardrails configures the dynamic spending-adjustment policy.
type Guardrails struct {
	Enabled         bool
	UpperThreshold  float64
	LowerThreshold  float64
	IncreasePercent float64
	DecreasePercent float64
}

// TotalAnnualSpending is the base living expense plus all itemized goals.
func (p Plan) TotalAnnualSpending() float64 {
	total := p.AnnualSpending
	for _, goal := range p.Goals {
		total += goal.Amount
	}
	return total
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory source, e.g. an HTTP upload.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActivePlans returns the plans selected to run. Plans default to inactive,
// matching scenario handling in config files.
func (c *Configuration) ActivePlans() []Plan {
	var active []Plan
	for _, plan := range c.Plans {
		if plan.Active {
			active = append(active, plan)
		}
	}
	return active
}

// TTL returns the configured row lifetime, falling back to the default
// when unset.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLHours > 0 {
		return time.Duration(c.TTLHours) * time.Hour
	}
	return constants.DefaultCacheTTL
}
