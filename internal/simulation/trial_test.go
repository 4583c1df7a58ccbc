package simulation

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

// deterministicSampler returns a sampler whose draws always equal the mean,
// which is what any source produces when volatility is zero.
func deterministicSampler() *NormalSampler {
	return NewNormalSampler(newTrialSource(1, 0))
}

func TestRunTrialDeterministicSuccess(t *testing.T) {
	in := Input{
		StartingPortfolio: 100,
		AnnualSpending:    50,
		Years:             3,
		RealReturn:        0,
		Volatility:        0,
		Iterations:        1,
		SocialSecurity:    &IncomeEvent{StartYear: 1, AnnualAmount: 60},
	}

	result := RunTrial(in, deterministicSampler())

	// Year 0: 100-50=50; year 1: 50+60-50=60; year 2: 60+60-50=70.
	if !result.Success {
		t.Fatalf("expected success, got failure after %d years", result.YearsLasted)
	}
	if result.YearsLasted != 3 {
		t.Errorf("YearsLasted = %d, expected 3", result.YearsLasted)
	}
	if math.Abs(result.EndingBalance-70) > 1e-9 {
		t.Errorf("EndingBalance = %v, expected 70", result.EndingBalance)
	}
	if math.Abs(result.LowestBalance-50) > 1e-9 || result.LowestBalanceYear != 0 {
		t.Errorf("lowest = %v at year %d, expected 50 at year 0",
			result.LowestBalance, result.LowestBalanceYear)
	}
}

func TestRunTrialDeterministicFailure(t *testing.T) {
	in := Input{
		StartingPortfolio: 100,
		AnnualSpending:    60,
		Years:             30,
		RealReturn:        0,
		Volatility:        0,
		Iterations:        1,
	}

	result := RunTrial(in, deterministicSampler())

	// Year 0: 100-60=40; year 1: 40-60=-20, depleted.
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.YearsLasted != 2 {
		t.Errorf("YearsLasted = %d, expected 2", result.YearsLasted)
	}
	if result.EndingBalance != 0 {
		t.Errorf("EndingBalance = %v, expected 0 on failure", result.EndingBalance)
	}
}

// The upper-guardrail increase applies every year the ratio stays above the
// threshold, compounding the spending repeatedly. This is deliberate; see
// the design notes before changing it.
func TestGuardrailIncreaseCompoundsEachYearAboveThreshold(t *testing.T) {
	in := Input{
		StartingPortfolio: 1000,
		AnnualSpending:    10,
		Years:             3,
		RealReturn:        1.0, // doubles every year, pinning the ratio above threshold
		Volatility:        0,
		Iterations:        1,
		Guardrails: &GuardrailsPolicy{
			UpperThreshold:  1.5,
			LowerThreshold:  0.5,
			IncreasePercent: 0.10,
			DecreasePercent: 0.10,
		},
	}

	result := RunTrial(in, deterministicSampler())

	// Year 0: 2000, spend 11 -> 1989
	// Year 1: 3978, spend 12.1 -> 3965.9
	// Year 2: 7931.8, spend 13.31 -> 7918.49
	if !result.Success {
		t.Fatal("expected success")
	}
	if math.Abs(result.EndingBalance-7918.49) > 1e-6 {
		t.Errorf("EndingBalance = %v, expected 7918.49 (compounding increase)", result.EndingBalance)
	}
}

// The essential floor is compared against the already-decreased spending,
// not the pre-decrease value. Pinned deliberately; see the design notes.
func TestGuardrailFloorAppliesToDecreasedSpending(t *testing.T) {
	in := Input{
		StartingPortfolio: 1000,
		AnnualSpending:    100,
		Years:             3,
		RealReturn:        0,
		Volatility:        0,
		Iterations:        1,
		EssentialFloor:    floatPtr(90),
		Guardrails: &GuardrailsPolicy{
			UpperThreshold:  1.05,
			LowerThreshold:  0.95,
			IncreasePercent: 0,
			DecreasePercent: 0.5,
		},
	}

	result := RunTrial(in, deterministicSampler())

	// Year 0: ratio 1.0, no trigger, 1000-100=900
	// Year 1: ratio 0.9, decrease to max(50, 90)=90 -> 810
	// Year 2: ratio 0.81, decrease to max(45, 90)=90 -> 720
	if math.Abs(result.EndingBalance-720) > 1e-9 {
		t.Errorf("EndingBalance = %v, expected 720 (floor on decreased spending)", result.EndingBalance)
	}
}

func TestGuardrailDecreaseWithoutFloor(t *testing.T) {
	in := Input{
		StartingPortfolio: 1000,
		AnnualSpending:    100,
		Years:             3,
		RealReturn:        0,
		Volatility:        0,
		Iterations:        1,
		Guardrails: &GuardrailsPolicy{
			UpperThreshold:  1.05,
			LowerThreshold:  0.95,
			IncreasePercent: 0,
			DecreasePercent: 0.5,
		},
	}

	result := RunTrial(in, deterministicSampler())

	// Year 0: 900; year 1: spend 50 -> 850; year 2: ratio 0.85, spend 25 -> 825
	if math.Abs(result.EndingBalance-825) > 1e-9 {
		t.Errorf("EndingBalance = %v, expected 825 (unfloored decrease)", result.EndingBalance)
	}
}

func TestSpendingCeilingClampsIncrease(t *testing.T) {
	in := Input{
		StartingPortfolio: 1000,
		AnnualSpending:    10,
		Years:             3,
		RealReturn:        1.0,
		Volatility:        0,
		Iterations:        1,
		SpendingCeiling:   floatPtr(11),
		Guardrails: &GuardrailsPolicy{
			UpperThreshold:  1.5,
			LowerThreshold:  0.5,
			IncreasePercent: 0.10,
			DecreasePercent: 0.10,
		},
	}

	result := RunTrial(in, deterministicSampler())

	// Spending rises to 11 in year 0 and stays clamped there:
	// Year 0: 2000-11=1989; year 1: 3978-11=3967; year 2: 7934-11=7923
	if math.Abs(result.EndingBalance-7923) > 1e-6 {
		t.Errorf("EndingBalance = %v, expected 7923 (ceiling clamps increases)", result.EndingBalance)
	}
}

func TestSocialSecurityBeforeStartYearIsNotPaid(t *testing.T) {
	in := Input{
		StartingPortfolio: 100,
		AnnualSpending:    60,
		Years:             5,
		RealReturn:        0,
		Volatility:        0,
		Iterations:        1,
		SocialSecurity:    &IncomeEvent{StartYear: 3, AnnualAmount: 1000},
	}

	result := RunTrial(in, deterministicSampler())

	// The benefit starts too late: year 0 leaves 40, year 1 depletes.
	if result.Success {
		t.Fatal("expected failure before the income stream starts")
	}
	if result.YearsLasted != 2 {
		t.Errorf("YearsLasted = %d, expected 2", result.YearsLasted)
	}
}
