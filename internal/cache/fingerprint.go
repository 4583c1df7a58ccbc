// Package cache persists aggregated simulation results keyed by a rounded
// fingerprint of the inputs, with time-based expiry. Solver results are a
// what-if query and are never cached.
package cache

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/retirement-forecast/internal/simulation"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
)

// Fingerprint encodes an input as an order-stable cache key. Each quantity
// is rounded to a fixed granularity (portfolio to the nearest 1,000,
// spending-derived values to the nearest 100, rates to three decimals) so
// immaterial drift in the inputs maps to the same key.
func Fingerprint(in simulation.Input) string {
	parts := []string{
		currency(in.StartingPortfolio, constants.PortfolioGranularity),
		currency(in.AnnualSpending, constants.SpendingGranularity),
		strconv.Itoa(in.Years),
		rate(in.RealReturn),
		rate(in.Volatility),
		strconv.Itoa(in.Iterations),
		strconv.FormatInt(in.Seed, 10),
		incomePart(in.SocialSecurity),
		optionalCurrency(in.EssentialFloor),
		optionalCurrency(in.SpendingCeiling),
		guardrailsPart(in.Guardrails),
	}
	return strings.Join(parts, "|")
}

func currency(val, granularity float64) string {
	return strconv.FormatInt(int64(mathutil.RoundToNearest(val, granularity)), 10)
}

func optionalCurrency(val *float64) string {
	if val == nil {
		return "-"
	}
	return currency(*val, constants.SpendingGranularity)
}

// rate scales to three decimal places, e.g. 0.0504 -> "50".
func rate(val float64) string {
	return strconv.FormatInt(int64(math.Round(val*constants.RateScale)), 10)
}

func incomePart(ev *simulation.IncomeEvent) string {
	if ev == nil {
		return "0"
	}
	return "1:" + strconv.Itoa(ev.StartYear) + ":" + currency(ev.AnnualAmount, constants.SpendingGranularity)
}

func guardrailsPart(g *simulation.GuardrailsPolicy) string {
	if g == nil {
		return "0"
	}
	return strings.Join([]string{
		"1",
		rate(g.UpperThreshold),
		rate(g.LowerThreshold),
		rate(g.IncreasePercent),
		rate(g.DecreasePercent),
	}, ":")
}
