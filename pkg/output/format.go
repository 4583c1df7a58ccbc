// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iwvelando/retirement-forecast/internal/simulation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report pairs one plan's aggregate with optional solver output and cache
// metadata for display.
type Report struct {
	Name          string                          `json:"name"`
	Cached        bool                            `json:"cached"`
	Results       simulation.AggregatedResult     `json:"results"`
	MaxWithdrawal *simulation.MaxWithdrawalResult `json:"maxWithdrawal,omitempty"`
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(reports []Report) {
	p := message.NewPrinter(language.English)
	for i, report := range reports {
		fmt.Printf("--- Results for plan %s ---\n", report.Name)
		if report.Cached {
			fmt.Printf("(cached result)\n")
		}
		r := report.Results
		_, _ = p.Printf("Success rate: %.1f%% over %d trials\n", r.SuccessRate*100, r.Iterations)
		if r.Success.Count > 0 {
			_, _ = p.Printf("Successes: %d | median ending $%.2f | p10 $%.2f | p90 $%.2f\n",
				r.Success.Count, r.Success.MedianEndingBalance, r.Success.P10EndingBalance, r.Success.P90EndingBalance)
		}
		if r.Failure.Count > 0 {
			_, _ = p.Printf("Failures: %d | avg %.1f years | median %.1f years | worst case %d years\n",
				r.Failure.Count, r.Failure.AverageYearsLasted, r.Failure.MedianYearsLasted, r.Failure.WorstCase)
		}
		if mw := report.MaxWithdrawal; mw != nil {
			_, _ = p.Printf("Max sustainable withdrawal: $%.2f at %.1f%% success (%d search steps)\n",
				mw.MaxWithdrawal, mw.SuccessRate*100, mw.SearchIterations)
		}
		if i < len(reports)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(reports []Report) {
	fmt.Printf(`"plan","successRate","iterations","successCount","medianEndingBalance","p10EndingBalance","p90EndingBalance","failureCount","averageYearsLasted","medianYearsLasted","worstCase","maxWithdrawal"`)
	fmt.Printf("\n")
	for _, report := range reports {
		r := report.Results
		maxWithdrawal := ""
		if report.MaxWithdrawal != nil {
			maxWithdrawal = fmt.Sprintf("%.2f", report.MaxWithdrawal.MaxWithdrawal)
		}
		fmt.Printf(`"%s","%.4f","%d","%d","%.2f","%.2f","%.2f","%d","%.2f","%.2f","%d","%s"`,
			report.Name, r.SuccessRate, r.Iterations,
			r.Success.Count, r.Success.MedianEndingBalance, r.Success.P10EndingBalance, r.Success.P90EndingBalance,
			r.Failure.Count, r.Failure.AverageYearsLasted, r.Failure.MedianYearsLasted, r.Failure.WorstCase,
			maxWithdrawal)
		fmt.Printf("\n")
	}
}

// JSONFormat outputs machine-readable JSON for scripting.
func JSONFormat(reports []Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
