package config

import "github.com/iwvelando/retirement-forecast/pkg/validation"

// ValidateConfiguration performs general validation of the configuration
// and returns warnings. Hard input requirements are enforced separately by
// the planning context and the simulation core.
func (c *Configuration) ValidateConfiguration() []string {
	plans := make([]validation.PlanInfo, 0, len(c.Plans))
	for _, plan := range c.Plans {
		plans = append(plans, validation.PlanInfo{
			Name:              plan.Name,
			Active:            plan.Active,
			StartingPortfolio: plan.StartingPortfolio,
			AnnualSpending:    plan.TotalAnnualSpending(),
			Years:             plan.Years,
			Volatility:        plan.Volatility,
		})
	}
	return validation.ConfigWarnings(plans)
}
