package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name string
		val  float64
		want float64
	}{
		{name: "Round down", val: 10.114, want: 10.11},
		{name: "Round up", val: 10.115, want: 10.12},
		{name: "Negative rounds away from zero", val: -10.115, want: -10.12},
		{name: "Already rounded", val: 10.10, want: 10.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.val); got != tt.want {
				t.Errorf("Round(%v) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

func TestRoundToNearest(t *testing.T) {
	tests := []struct {
		name        string
		val         float64
		granularity float64
		want        float64
	}{
		{name: "Portfolio to nearest thousand", val: 1000400, granularity: 1000, want: 1000000},
		{name: "Portfolio rounds up", val: 1000500, granularity: 1000, want: 1001000},
		{name: "Spending to nearest hundred", val: 40049, granularity: 100, want: 40000},
		{name: "Exact multiple unchanged", val: 40000, granularity: 100, want: 40000},
		{name: "Zero granularity is identity", val: 123.45, granularity: 0, want: 123.45},
		{name: "Negative granularity is identity", val: 123.45, granularity: -1, want: 123.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundToNearest(tt.val, tt.granularity); got != tt.want {
				t.Errorf("RoundToNearest(%v, %v) = %v, want %v", tt.val, tt.granularity, got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name string
		val  float64
		want bool
	}{
		{name: "Ordinary value", val: 42.5, want: true},
		{name: "Zero", val: 0, want: true},
		{name: "Positive infinity", val: math.Inf(1), want: false},
		{name: "Negative infinity", val: math.Inf(-1), want: false},
		{name: "NaN", val: math.NaN(), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.val); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

func TestToleranceHelpers(t *testing.T) {
	if !IsZero(0.005) {
		t.Error("IsZero(0.005) = false, want true within currency tolerance")
	}
	if IsZero(0.02) {
		t.Error("IsZero(0.02) = true, want false")
	}
	if !IsPositive(0.02) {
		t.Error("IsPositive(0.02) = false, want true")
	}
	if IsPositive(0.005) {
		t.Error("IsPositive(0.005) = true, want false within currency tolerance")
	}
	if !WithinTolerance(100.00, 100.004, 0.005) {
		t.Error("WithinTolerance(100.00, 100.004, 0.005) = false, want true")
	}
	if WithinTolerance(100.00, 100.01, 0.005) {
		t.Error("WithinTolerance(100.00, 100.01, 0.005) = true, want false")
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3, 5); got != 3 {
		t.Errorf("Min(3, 5) = %v, want 3", got)
	}
	if got := Max(3, 5); got != 5 {
		t.Errorf("Max(3, 5) = %v, want 5", got)
	}
}
