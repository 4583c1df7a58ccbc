package simulation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
)

// FieldError names one invalid or missing input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every invalid field so callers can surface the
// full list instead of fixing inputs one rejection at a time.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "invalid simulation input: " + strings.Join(parts, "; ")
}

// Validate rejects malformed inputs before any trial runs. Degenerate
// numeric inputs (non-positive portfolio, NaN rates) are validation errors
// here so they never propagate as NaN or Inf through the balance walk.
func (in Input) Validate() error {
	var fields []FieldError

	add := func(field, reason string) {
		fields = append(fields, FieldError{Field: field, Reason: reason})
	}

	if !mathutil.IsFinite(in.StartingPortfolio) {
		add("startingPortfolio", "must be a finite number")
	} else if in.StartingPortfolio <= 0 {
		add("startingPortfolio", "must be greater than zero")
	}

	if !mathutil.IsFinite(in.AnnualSpending) {
		add("annualSpending", "must be a finite number")
	} else if in.AnnualSpending < 0 {
		add("annualSpending", "must not be negative")
	}

	if in.Years <= 0 {
		add("years", "must be greater than zero")
	}

	if in.Iterations <= 0 {
		add("iterations", "must be greater than zero")
	}

	if !mathutil.IsFinite(in.RealReturn) {
		add("realReturn", "must be a finite number")
	}

	if !mathutil.IsFinite(in.Volatility) {
		add("volatility", "must be a finite number")
	} else if in.Volatility < 0 {
		add("volatility", "must not be negative")
	}

	if ss := in.SocialSecurity; ss != nil {
		if ss.StartYear < 0 {
			add("socialSecurity.startYear", "must not be negative")
		}
		if !mathutil.IsFinite(ss.AnnualAmount) || ss.AnnualAmount < 0 {
			add("socialSecurity.annualAmount", "must be zero or greater")
		}
	}

	if in.EssentialFloor != nil && (!mathutil.IsFinite(*in.EssentialFloor) || *in.EssentialFloor < 0) {
		add("essentialFloor", "must be zero or greater")
	}

	if in.SpendingCeiling != nil {
		if !mathutil.IsFinite(*in.SpendingCeiling) || *in.SpendingCeiling < 0 {
			add("spendingCeiling", "must be zero or greater")
		} else if in.EssentialFloor != nil && *in.SpendingCeiling < *in.EssentialFloor {
			add("spendingCeiling", "must not be below essentialFloor")
		}
	}

	if g := in.Guardrails; g != nil {
		if g.UpperThreshold <= 1 {
			add("guardrails.upperThreshold", "must be greater than 1")
		}
		if g.LowerThreshold >= 1 {
			add("guardrails.lowerThreshold", "must be less than 1")
		}
		if g.LowerThreshold < 0 {
			add("guardrails.lowerThreshold", "must not be negative")
		}
		if g.IncreasePercent < 0 {
			add("guardrails.increasePercent", "must not be negative")
		}
		if g.DecreasePercent < 0 {
			add("guardrails.decreasePercent", "must not be negative")
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
