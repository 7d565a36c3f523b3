package probability

import (
	"testing"

	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

func TestRuleBasedEstimate(t *testing.T) {
	estimator := NewRuleBasedEstimator()

	tests := []struct {
		name     string
		features Features
		expected float64
	}{
		{
			name:     "recent small clean debt",
			features: Features{Amount: decimal.NewFromInt(50), DaysOverdue: 10},
			expected: 0.8, // 0.5 + 0.2 recent + 0.1 small
		},
		{
			name:     "moderately overdue medium amount",
			features: Features{Amount: decimal.NewFromInt(500), DaysOverdue: 20},
			expected: 0.6, // 0.5 + 0.1 under 30 days
		},
		{
			name:     "middle band no adjustments",
			features: Features{Amount: decimal.NewFromInt(500), DaysOverdue: 45},
			expected: 0.5,
		},
		{
			name:     "old large disputed debt clamps to floor",
			features: Features{Amount: decimal.NewFromInt(2000), DaysOverdue: 70, Disputed: true},
			expected: 0.1, // 0.5 - 0.3 - 0.1 - 0.2 = -0.1, clamped
		},
		{
			name:     "dispute alone",
			features: Features{Amount: decimal.NewFromInt(500), DaysOverdue: 45, Disputed: true},
			expected: 0.3,
		},
		{
			name:     "boundary day 15 falls in the second band",
			features: Features{Amount: decimal.NewFromInt(500), DaysOverdue: 15},
			expected: 0.6,
		},
		{
			name:     "boundary day 30 has no days adjustment",
			features: Features{Amount: decimal.NewFromInt(500), DaysOverdue: 30},
			expected: 0.5,
		},
		{
			name:     "boundary day 60 has no days adjustment",
			features: Features{Amount: decimal.NewFromInt(500), DaysOverdue: 60},
			expected: 0.5,
		},
		{
			name:     "boundary amount 100 has no amount adjustment",
			features: Features{Amount: decimal.NewFromInt(100), DaysOverdue: 45},
			expected: 0.5,
		},
		{
			name:     "boundary amount 1000 has no amount adjustment",
			features: Features{Amount: decimal.NewFromInt(1000), DaysOverdue: 45},
			expected: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prob, err := estimator.Estimate(tt.features)
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			if prob != tt.expected {
				t.Errorf("Estimate = %v, expected %v", prob, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		score    float64
		expected float64
	}{
		{-0.5, 0.1},
		{0.05, 0.1},
		{0.1, 0.1},
		{0.5, 0.5},
		{0.9, 0.9},
		{0.95, 0.9},
		{1.5, 0.9},
	}

	for _, tt := range tests {
		if got := Clamp(tt.score); got != tt.expected {
			t.Errorf("Clamp(%v) = %v, expected %v", tt.score, got, tt.expected)
		}
	}
}

func TestNewStaticEstimator(t *testing.T) {
	est, err := NewStaticEstimator(0.75, "nightly_batch")
	if err != nil {
		t.Fatalf("Failed to create static estimator: %v", err)
	}
	if est.Name() != "nightly_batch" {
		t.Errorf("Name = %q, expected nightly_batch", est.Name())
	}

	prob, err := est.Estimate(Features{})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if prob != 0.75 {
		t.Errorf("Estimate = %v, expected 0.75", prob)
	}

	// A default name when none is given
	est, err = NewStaticEstimator(0.5, "")
	if err != nil {
		t.Fatalf("Failed to create static estimator: %v", err)
	}
	if est.Name() != "external_model" {
		t.Errorf("Name = %q, expected external_model", est.Name())
	}
}

func TestNewStaticEstimatorRejectsOutOfRange(t *testing.T) {
	for _, score := range []float64{-0.1, 1.5} {
		_, err := NewStaticEstimator(score, "model")
		if err == nil {
			t.Errorf("Expected an error for score %v", score)
			continue
		}
		if !errors.HasCode(err, errors.CodeOutOfRange) {
			t.Errorf("Expected CodeOutOfRange for score %v, got %v", score, err)
		}
	}
}

func TestStaticEstimatorClampsIntoBounds(t *testing.T) {
	// Certainty in either direction is pulled back into the estimator bounds
	est, err := NewStaticEstimator(1.0, "model")
	if err != nil {
		t.Fatalf("Failed to create static estimator: %v", err)
	}
	if prob, _ := est.Estimate(Features{}); prob != MaxProbability {
		t.Errorf("Estimate = %v, expected %v", prob, MaxProbability)
	}

	est, err = NewStaticEstimator(0.0, "model")
	if err != nil {
		t.Fatalf("Failed to create static estimator: %v", err)
	}
	if prob, _ := est.Estimate(Features{}); prob != MinProbability {
		t.Errorf("Estimate = %v, expected %v", prob, MinProbability)
	}
}
