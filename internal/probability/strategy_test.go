package probability

import (
	"fmt"
	"testing"

	"golang-collections-engine/internal/models"

	"github.com/shopspring/decimal"
)

// failingEstimator always errors, to exercise the rule-based fallback
type failingEstimator struct{}

func (failingEstimator) Estimate(Features) (float64, error) {
	return 0, fmt.Errorf("model endpoint unavailable")
}

func (failingEstimator) Name() string { return "failing" }

func staticAdvisor(t *testing.T, score float64) *Advisor {
	t.Helper()
	est, err := NewStaticEstimator(score, "test_model")
	if err != nil {
		t.Fatalf("Failed to create static estimator: %v", err)
	}
	return NewAdvisor(est)
}

func TestAdvisorEstimateFallsBackOnError(t *testing.T) {
	advisor := NewAdvisor(failingEstimator{})

	// Rule-based fallback: 0.5 + 0.2 recent + 0.1 small amount
	prob := advisor.Estimate(Features{Amount: decimal.NewFromInt(50), DaysOverdue: 10})
	if prob != 0.8 {
		t.Errorf("Fallback estimate = %v, expected 0.8", prob)
	}
}

func TestNewAdvisorDefaultsToRuleBased(t *testing.T) {
	advisor := NewAdvisor(nil)
	if advisor.Estimator().Name() != "rule_based" {
		t.Errorf("Default estimator = %q, expected rule_based", advisor.Estimator().Name())
	}
}

func TestRecommendBands(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected ActionFamily
		urgency  models.Urgency
	}{
		{"high probability", 0.8, FamilyGentleReminder, models.UrgencyLow},
		{"medium probability", 0.5, FamilyStandardEscalation, models.UrgencyMedium},
		{"low probability", 0.3, FamilyImmediateEscalation, models.UrgencyHigh},
		{"very low probability", 0.15, FamilyEvaluateWriteOff, models.UrgencyCritical},
		{"boundary 0.7 is medium", 0.7, FamilyStandardEscalation, models.UrgencyMedium},
		{"boundary 0.4 is low", 0.4, FamilyImmediateEscalation, models.UrgencyHigh},
		{"boundary 0.2 is critical", 0.2, FamilyEvaluateWriteOff, models.UrgencyCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advisor := staticAdvisor(t, tt.score)
			strategy := advisor.Recommend(Features{Amount: decimal.NewFromInt(10000), DaysOverdue: 45})

			if strategy.RecommendedAction != tt.expected {
				t.Errorf("RecommendedAction = %q, expected %q", strategy.RecommendedAction, tt.expected)
			}
			if strategy.Urgency != tt.urgency {
				t.Errorf("Urgency = %q, expected %q", strategy.Urgency, tt.urgency)
			}
			if strategy.PaymentProbability != tt.score {
				t.Errorf("PaymentProbability = %v, expected %v", strategy.PaymentProbability, tt.score)
			}
			if strategy.Estimator != "test_model" {
				t.Errorf("Estimator = %q, expected test_model", strategy.Estimator)
			}
			if strategy.Message == "" {
				t.Error("Expected a strategy message")
			}
		})
	}
}

func TestRecommendEstimatedRecovery(t *testing.T) {
	advisor := staticAdvisor(t, 0.5)
	strategy := advisor.Recommend(Features{Amount: decimal.NewFromInt(200), DaysOverdue: 20})

	if strategy.EstimatedRecovery.String() != "100" {
		t.Errorf("EstimatedRecovery = %s, expected 100", strategy.EstimatedRecovery.String())
	}
}

func TestRecommendWriteOffEconomics(t *testing.T) {
	advisor := staticAdvisor(t, 0.15)

	// Old £30 debt: cost 15.10 + 25% agency = 22.60, well above 30% of the
	// amount, so pursuing it is uneconomic
	strategy := advisor.Recommend(Features{Amount: decimal.NewFromInt(30), DaysOverdue: 70})

	if strategy.RecommendedAction != FamilyEvaluateWriteOff {
		t.Fatalf("RecommendedAction = %q, expected evaluate_writeoff", strategy.RecommendedAction)
	}
	if strategy.CollectionCost.String() != "22.6" {
		t.Errorf("CollectionCost = %s, expected 22.6", strategy.CollectionCost.String())
	}
	if strategy.CostBenefit != CostBenefitNegative {
		t.Errorf("CostBenefit = %q, expected negative", strategy.CostBenefit)
	}
	if strategy.Recommendation != "write_off" {
		t.Errorf("Recommendation = %q, expected write_off", strategy.Recommendation)
	}

	// The same probability on a £10,000 debt stays economic: cost 2,515.10
	// against a £3,000 write-off threshold
	strategy = advisor.Recommend(Features{Amount: decimal.NewFromInt(10000), DaysOverdue: 70})

	if strategy.CostBenefit != "" {
		t.Errorf("CostBenefit = %q, expected empty for an economic debt", strategy.CostBenefit)
	}
	if strategy.Recommendation != "" {
		t.Errorf("Recommendation = %q, expected empty for an economic debt", strategy.Recommendation)
	}
}

func TestRecommendOutsideWriteOffBandSkipsCostModel(t *testing.T) {
	advisor := staticAdvisor(t, 0.5)
	strategy := advisor.Recommend(Features{Amount: decimal.NewFromInt(30), DaysOverdue: 70})

	if !strategy.CollectionCost.IsZero() {
		t.Errorf("CollectionCost = %s, expected zero outside the write-off band", strategy.CollectionCost.String())
	}
}

func TestEstimateCollectionCost(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		days     int
		expected string
	}{
		{"early stage", "500", 10, "5.7"},    // base + 3 emails + 2 sms
		{"mid stage", "500", 45, "11.1"},     // base + 5 emails + 3 sms + 2 ai calls
		{"late stage", "100", 70, "40.1"},    // 15.10 fixed + 25% agency
		{"late stage boundary", "100", 60, "40.1"},
		{"mid stage boundary", "500", 30, "11.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := EstimateCollectionCost(decimal.RequireFromString(tt.amount), tt.days)
			if cost.String() != tt.expected {
				t.Errorf("EstimateCollectionCost(%s, %d) = %s, expected %s",
					tt.amount, tt.days, cost.String(), tt.expected)
			}
		})
	}
}
