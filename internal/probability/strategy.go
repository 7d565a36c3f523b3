package probability

import (
	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/logger"

	"github.com/shopspring/decimal"
)

// ActionFamily is the broad collection approach a probability band maps to.
// Families are coarser than individual collection actions; the scheduler
// picks the concrete step.
type ActionFamily string

const (
	FamilyGentleReminder      ActionFamily = "gentle_reminder"
	FamilyStandardEscalation  ActionFamily = "standard_escalation"
	FamilyImmediateEscalation ActionFamily = "immediate_escalation"
	FamilyEvaluateWriteOff    ActionFamily = "evaluate_writeoff"
)

// CostBenefit flags whether pursuing the debt is economically sensible
type CostBenefit string

const (
	// CostBenefitNegative means estimated collection cost exceeds 30% of the
	// invoice amount
	CostBenefitNegative CostBenefit = "negative"
)

// Strategy is the derived collection posture for one invoice
type Strategy struct {
	PaymentProbability float64         `json:"payment_probability"`
	Estimator          string          `json:"estimator"`
	RecommendedAction  ActionFamily    `json:"recommended_action"`
	Urgency            models.Urgency  `json:"urgency"`
	EstimatedRecovery  decimal.Decimal `json:"estimated_recovery"`
	Message            string          `json:"message"`

	// Set only in the write-off band when the economics are negative
	CostBenefit    CostBenefit     `json:"cost_benefit,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
	CollectionCost decimal.Decimal `json:"collection_cost,omitempty"`
}

// Advisor turns probability estimates into collection strategies
type Advisor struct {
	estimator Estimator
	log       logger.Logger
}

// NewAdvisor creates an Advisor over an estimator. A nil estimator selects
// the rule-based fallback.
func NewAdvisor(estimator Estimator) *Advisor {
	if estimator == nil {
		estimator = NewRuleBasedEstimator()
	}
	return &Advisor{
		estimator: estimator,
		log:       logger.GetGlobalLogger().WithComponent("probability_advisor"),
	}
}

// Estimator returns the variant the advisor consults
func (a *Advisor) Estimator() Estimator { return a.estimator }

// Estimate returns the payment probability for the features. Estimator
// failures fall back to the rule-based score rather than aborting: a debt
// decision must always be producible.
func (a *Advisor) Estimate(features Features) float64 {
	prob, err := a.estimator.Estimate(features)
	if err != nil {
		a.log.WithError(err).WithField("estimator", a.estimator.Name()).
			Warn("estimator failed, falling back to rule-based score")
		prob, _ = NewRuleBasedEstimator().Estimate(features)
	}
	return prob
}

// Recommend maps the payment probability onto one of four fixed strategy
// bands. In the write-off band the estimated collection cost is compared to
// 30% of the invoice amount to flag uneconomic debts.
func (a *Advisor) Recommend(features Features) Strategy {
	prob := a.Estimate(features)

	strategy := Strategy{
		PaymentProbability: prob,
		Estimator:          a.estimator.Name(),
		EstimatedRecovery:  features.Amount.Mul(decimal.NewFromFloat(prob)).Round(2),
	}

	switch {
	case prob > 0.7:
		strategy.RecommendedAction = FamilyGentleReminder
		strategy.Urgency = models.UrgencyLow
		strategy.Message = "Customer likely to pay with gentle reminder"

	case prob > 0.4:
		strategy.RecommendedAction = FamilyStandardEscalation
		strategy.Urgency = models.UrgencyMedium
		strategy.Message = "Follow standard collection timeline"

	case prob > 0.2:
		strategy.RecommendedAction = FamilyImmediateEscalation
		strategy.Urgency = models.UrgencyHigh
		strategy.Message = "Consider immediate phone call or letter"

	default:
		strategy.RecommendedAction = FamilyEvaluateWriteOff
		strategy.Urgency = models.UrgencyCritical
		strategy.Message = "Consider debt sale or write-off"

		cost := EstimateCollectionCost(features.Amount, features.DaysOverdue)
		strategy.CollectionCost = cost
		if cost.GreaterThan(features.Amount.Mul(writeOffCostRatio)) {
			strategy.CostBenefit = CostBenefitNegative
			strategy.Recommendation = "write_off"
		}
	}

	return strategy
}

// Collection cost model inputs. The per-channel unit costs are what the
// business is charged, not what it bills.
var (
	costBase       = decimal.RequireFromString("5.00")
	costEmail      = decimal.RequireFromString("0.10")
	costSMS        = decimal.RequireFromString("0.20")
	costAICall     = decimal.RequireFromString("2.50")
	costLetter     = decimal.RequireFromString("1.50")
	agencyCostRate = decimal.RequireFromString("0.25")

	writeOffCostRatio = decimal.RequireFromString("0.30")
)

// EstimateCollectionCost projects what it would cost to chase the invoice
// to conclusion, given how far into the escalation ladder it already is.
// Older debts assume more actions, and past 60 days the agency commission
// dominates.
func EstimateCollectionCost(amount decimal.Decimal, daysOverdue int) decimal.Decimal {
	cost := costBase

	switch {
	case daysOverdue < 30:
		cost = cost.
			Add(costEmail.Mul(decimal.NewFromInt(3))).
			Add(costSMS.Mul(decimal.NewFromInt(2)))
	case daysOverdue < 60:
		cost = cost.
			Add(costEmail.Mul(decimal.NewFromInt(5))).
			Add(costSMS.Mul(decimal.NewFromInt(3))).
			Add(costAICall.Mul(decimal.NewFromInt(2)))
	default:
		cost = cost.
			Add(costEmail.Mul(decimal.NewFromInt(5))).
			Add(costSMS.Mul(decimal.NewFromInt(3))).
			Add(costAICall.Mul(decimal.NewFromInt(3))).
			Add(costLetter).
			Add(amount.Mul(agencyCostRate))
	}

	return cost.Round(2)
}
