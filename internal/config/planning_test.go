package config

import (
	"reflect"
	"sort"
	"testing"

	"github.com/iwvelando/retirement-forecast/internal/simulation"
)

func floatPtr(v float64) *float64 {
	return &v
}

func readyPlan() Plan {
	return Plan{
		Name:              "Base retirement",
		Active:            true,
		StartingPortfolio: 1000000,
		AnnualSpending:    40000,
		Years:             30,
		RealReturn:        0.05,
		Volatility:        0.12,
	}
}

func TestNewPlanningContextRecordsMissingInputs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Plan)
		missing []string
	}{
		{
			name:    "Complete plan",
			mutate:  func(*Plan) {},
			missing: nil,
		},
		{
			name:    "No portfolio",
			mutate:  func(p *Plan) { p.StartingPortfolio = 0 },
			missing: []string{"startingPortfolio"},
		},
		{
			name:    "No horizon",
			mutate:  func(p *Plan) { p.Years = 0 },
			missing: []string{"years"},
		},
		{
			name: "Enabled guardrails without thresholds",
			mutate: func(p *Plan) {
				p.Guardrails = &Guardrails{Enabled: true, IncreasePercent: 0.1, DecreasePercent: 0.1}
			},
			missing: []string{"guardrails.lowerThreshold", "guardrails.upperThreshold"},
		},
		{
			name: "Disabled guardrails need no thresholds",
			mutate: func(p *Plan) {
				p.Guardrails = &Guardrails{Enabled: false}
			},
			missing: nil,
		},
		{
			name: "Social security without amount",
			mutate: func(p *Plan) {
				p.SocialSecurity = &SocialSecurity{StartYear: 8}
			},
			missing: []string{"socialSecurity.annualAmount"},
		},
		{
			name: "Several inputs absent",
			mutate: func(p *Plan) {
				p.StartingPortfolio = 0
				p.Years = 0
			},
			missing: []string{"startingPortfolio", "years"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := readyPlan()
			tt.mutate(&plan)

			ctx := NewPlanningContext(plan)
			if got, want := ctx.IsReady(), len(tt.missing) == 0; got != want {
				t.Errorf("IsReady() = %v, want %v", got, want)
			}

			got := ctx.MissingInputs()
			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.missing) {
				t.Errorf("MissingInputs() = %v, want %v", got, tt.missing)
			}
		})
	}
}

func TestSimulationInputFlattensPlan(t *testing.T) {
	plan := readyPlan()
	plan.Goals = []SpendingGoal{
		{Name: "Travel", Amount: 5000},
		{Name: "Grandkids", Amount: 2500},
	}
	plan.Iterations = 5000
	plan.Seed = 42
	plan.SocialSecurity = &SocialSecurity{StartYear: 8, AnnualAmount: 24000}
	plan.EssentialFloor = floatPtr(30000)
	plan.SpendingCeiling = floatPtr(60000)
	plan.Guardrails = &Guardrails{
		Enabled:         true,
		UpperThreshold:  1.2,
		LowerThreshold:  0.8,
		IncreasePercent: 0.10,
		DecreasePercent: 0.10,
	}

	in, err := NewPlanningContext(plan).SimulationInput()
	if err != nil {
		t.Fatalf("SimulationInput failed: %v", err)
	}

	if in.AnnualSpending != 47500 {
		t.Errorf("AnnualSpending = %v, want base plus goals 47500", in.AnnualSpending)
	}
	if in.StartingPortfolio != 1000000 || in.Years != 30 || in.Iterations != 5000 || in.Seed != 42 {
		t.Errorf("core inputs = %+v, want portfolio 1000000 years 30 iterations 5000 seed 42", in)
	}
	if in.SocialSecurity == nil || in.SocialSecurity.StartYear != 8 || in.SocialSecurity.AnnualAmount != 24000 {
		t.Errorf("SocialSecurity = %+v, want start 8 amount 24000", in.SocialSecurity)
	}
	if in.EssentialFloor == nil || *in.EssentialFloor != 30000 {
		t.Errorf("EssentialFloor = %v, want 30000", in.EssentialFloor)
	}
	if in.SpendingCeiling == nil || *in.SpendingCeiling != 60000 {
		t.Errorf("SpendingCeiling = %v, want 60000", in.SpendingCeiling)
	}
	want := &simulation.GuardrailsPolicy{
		UpperThreshold:  1.2,
		LowerThreshold:  0.8,
		IncreasePercent: 0.10,
		DecreasePercent: 0.10,
	}
	if !reflect.DeepEqual(in.Guardrails, want) {
		t.Errorf("Guardrails = %+v, want %+v", in.Guardrails, want)
	}
}

func TestSimulationInputDefaultsIterations(t *testing.T) {
	in, err := NewPlanningContext(readyPlan()).SimulationInput()
	if err != nil {
		t.Fatalf("SimulationInput failed: %v", err)
	}
	if in.Iterations != 10000 {
		t.Errorf("Iterations = %v, want default 10000", in.Iterations)
	}
}

func TestSimulationInputOmitsDisabledGuardrails(t *testing.T) {
	plan := readyPlan()
	plan.Guardrails = &Guardrails{
		Enabled:        false,
		UpperThreshold: 1.2,
		LowerThreshold: 0.8,
	}

	in, err := NewPlanningContext(plan).SimulationInput()
	if err != nil {
		t.Fatalf("SimulationInput failed: %v", err)
	}
	if in.Guardrails != nil {
		t.Errorf("Guardrails = %+v, want nil for a disabled policy", in.Guardrails)
	}
}

func TestSimulationInputFailsWhenNotReady(t *testing.T) {
	plan := readyPlan()
	plan.StartingPortfolio = 0

	if _, err := NewPlanningContext(plan).SimulationInput(); err == nil {
		t.Error("SimulationInput succeeded on an incomplete plan")
	}
}
