package simulation

import "math"

// RunTrial walks one simulated withdrawal horizon year by year and reports
// whether the portfolio survived. The walk operates entirely on real
// (inflation-adjusted) values; spending is never separately inflated.
//
// Each year: apply the sampled return, add any income stream, adjust
// spending per the guardrails policy, withdraw, then check depletion.
// Guardrail adjustments compound every year the balance stays beyond a
// threshold, and the essential floor is compared against the already
// decreased spending. Both behaviors are pinned by tests.
func RunTrial(in Input, sampler *NormalSampler) TrialResult {
	balance := in.StartingPortfolio
	spending := in.AnnualSpending

	lowest := math.MaxFloat64
	lowestYear := 0

	for year := 0; year < in.Years; year++ {
		ret := sampler.Sample(in.RealReturn, in.Volatility)
		balance *= 1 + ret

		if in.SocialSecurity != nil && year >= in.SocialSecurity.StartYear {
			balance += in.SocialSecurity.AnnualAmount
		}

		if g := in.Guardrails; g != nil {
			ratio := balance / in.StartingPortfolio
			if ratio >= g.UpperThreshold {
				spending *= 1 + g.IncreasePercent
				if in.SpendingCeiling != nil && spending > *in.SpendingCeiling {
					spending = *in.SpendingCeiling
				}
			} else if ratio <= g.LowerThreshold {
				spending *= 1 - g.DecreasePercent
				if in.EssentialFloor != nil && spending < *in.EssentialFloor {
					spending = *in.EssentialFloor
				}
			}
		}

		balance -= spending

		if balance <= 0 {
			return TrialResult{
				Success:           false,
				EndingBalance:     0,
				YearsLasted:       year + 1,
				LowestBalance:     0,
				LowestBalanceYear: year,
			}
		}

		if balance < lowest {
			lowest = balance
			lowestYear = year
		}
	}

	return TrialResult{
		Success:           true,
		EndingBalance:     balance,
		YearsLasted:       in.Years,
		LowestBalance:     lowest,
		LowestBalanceYear: lowestYear,
	}
}
