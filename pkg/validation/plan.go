package validation

import "fmt"

// PlanInfo carries the plan fields the advisory checks need, decoupled from
// the config package.
type PlanInfo struct {
	Name              string
	Active            bool
	StartingPortfolio float64
	AnnualSpending    float64
	Years             int
	Volatility        float64
}

// PlanWarnings returns non-fatal advisories about a plan. These never block
// a run; hard requirements are enforced by the simulation input validation.
func PlanWarnings(plan PlanInfo) []string {
	var warnings []string

	if plan.StartingPortfolio > 0 && plan.AnnualSpending > 0 {
		rate := plan.AnnualSpending / plan.StartingPortfolio
		if rate > 0.10 {
			warnings = append(warnings,
				fmt.Sprintf("Plan '%s' withdraws %.1f%% of the portfolio per year; depletion is near certain", plan.Name, rate*100))
		}
	}

	if plan.Volatility == 0 {
		warnings = append(warnings,
			fmt.Sprintf("Plan '%s' has zero volatility; every trial will be identical", plan.Name))
	}

	if plan.Years > 70 {
		warnings = append(warnings,
			fmt.Sprintf("Plan '%s' simulates %d years, beyond typical planning horizons", plan.Name, plan.Years))
	}

	return warnings
}

// ConfigWarnings validates a set of plans and reports advisories, including
// when no plan is active.
func ConfigWarnings(plans []PlanInfo) []string {
	var warnings []string

	anyActive := false
	for _, plan := range plans {
		if !plan.Active {
			continue
		}
		anyActive = true
		warnings = append(warnings, PlanWarnings(plan)...)
	}

	if !anyActive {
		warnings = append(warnings, "No active plans are configured; nothing will run")
	}

	return warnings
}
