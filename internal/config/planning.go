package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/retirement-forecast/internal/simulation"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
)

// PlanningContext flattens one plan into the inputs the simulation core
// consumes: portfolio valuation, spending breakdown, the social-security
// claiming schedule, and the guardrails configuration. The core refuses to
// run while required inputs are missing and surfaces their names instead of
// guessing defaults.
type PlanningContext struct {
	plan    Plan
	missing []string
}

// NewPlanningContext inspects the plan and records any missing required
// inputs.
func NewPlanningContext(plan Plan) *PlanningContext {
	var missing []string

	if plan.StartingPortfolio <= 0 {
		missing = append(missing, "startingPortfolio")
	}
	if plan.Years <= 0 {
		missing = append(missing, "years")
	}
	if plan.Guardrails != nil && plan.Guardrails.Enabled {
		if plan.Guardrails.UpperThreshold == 0 {
			missing = append(missing, "guardrails.upperThreshold")
		}
		if plan.Guardrails.LowerThreshold == 0 {
			missing = append(missing, "guardrails.lowerThreshold")
		}
	}
	if plan.SocialSecurity != nil && plan.SocialSecurity.AnnualAmount == 0 {
		missing = append(missing, "socialSecurity.annualAmount")
	}

	return &PlanningContext{plan: plan, missing: missing}
}

// IsReady reports whether every required input is present.
func (p *PlanningContext) IsReady() bool {
	return len(p.missing) == 0
}

// MissingInputs lists the names of required inputs that are absent.
func (p *PlanningContext) MissingInputs() []string {
	return append([]string(nil), p.missing...)
}

// SimulationInput assembles the flattened plan into a simulation input.
// The spending plan is the base living expense plus all itemized goals.
// It fails with the missing-input list when the context is not ready.
func (p *PlanningContext) SimulationInput() (simulation.Input, error) {
	if !p.IsReady() {
		return simulation.Input{}, fmt.Errorf("plan %q is not ready: missing %s",
			p.plan.Name, strings.Join(p.missing, ", "))
	}

	plan := p.plan
	iterations := plan.Iterations
	if iterations <= 0 {
		iterations = constants.DefaultIterations
	}

	in := simulation.Input{
		StartingPortfolio: plan.StartingPortfolio,
		AnnualSpending:    plan.TotalAnnualSpending(),
		Years:             plan.Years,
		RealReturn:        plan.RealReturn,
		Volatility:        plan.Volatility,
		Iterations:        iterations,
		Seed:              plan.Seed,
		EssentialFloor:    plan.EssentialFloor,
		SpendingCeiling:   plan.SpendingCeiling,
	}

	if ss := plan.SocialSecurity; ss != nil {
		in.SocialSecurity = &simulation.IncomeEvent{
			StartYear:    ss.StartYear,
			AnnualAmount: ss.AnnualAmount,
		}
	}

	if g := plan.Guardrails; g != nil && g.Enabled {
		in.Guardrails = &simulation.GuardrailsPolicy{
			UpperThreshold:  g.UpperThreshold,
			LowerThreshold:  g.LowerThreshold,
			IncreasePercent: g.IncreasePercent,
			DecreasePercent: g.DecreasePercent,
		}
	}

	return in, nil
}
