// Package probability estimates how likely an overdue invoice is to be paid
// and derives the collection strategy that follows from the estimate.
//
// Estimation is a capability with two variants: a rule-based scorer that
// needs nothing beyond the invoice itself, and an adapter for externally
// computed model scores. Callers are written against the Estimator
// interface and never against a concrete variant; the rule-based estimator
// is the default whenever no model is configured.
package probability

import (
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// Bounds every estimate is clamped into. An estimator never claims
// certainty in either direction.
const (
	MinProbability = 0.1
	MaxProbability = 0.9
)

// Features are the invoice attributes an estimator may consult
type Features struct {
	Amount          decimal.Decimal `json:"amount"`
	DaysOverdue     int             `json:"days_overdue"`
	Disputed        bool            `json:"disputed"`
	CollectionStage int             `json:"collection_stage"`
}

// FeaturesFromInvoice extracts estimator features from an invoice at a date
func FeaturesFromInvoice(inv *models.Invoice, today time.Time) Features {
	return Features{
		Amount:          inv.Principal,
		DaysOverdue:     inv.DaysOverdue(today),
		Disputed:        inv.IsDisputed(),
		CollectionStage: inv.CollectionStage,
	}
}

// Estimator predicts the probability that an invoice will be paid.
// Implementations must be stateless and safe for concurrent use.
type Estimator interface {
	// Estimate returns a payment probability in [MinProbability, MaxProbability]
	Estimate(features Features) (float64, error)

	// Name identifies the estimator variant for logging and reports
	Name() string
}

// RuleBasedEstimator is the model-free fallback: a fixed additive score
// over days overdue, amount and dispute status. It is deterministic and
// always available.
type RuleBasedEstimator struct{}

// NewRuleBasedEstimator returns the default estimator
func NewRuleBasedEstimator() *RuleBasedEstimator {
	return &RuleBasedEstimator{}
}

// Name implements Estimator
func (e *RuleBasedEstimator) Name() string { return "rule_based" }

// Estimate implements Estimator. The adjustments are a single elif chain
// per factor: only one days-overdue band and one amount band applies.
func (e *RuleBasedEstimator) Estimate(features Features) (float64, error) {
	score := 0.5

	switch {
	case features.DaysOverdue < 15:
		score += 0.2
	case features.DaysOverdue < 30:
		score += 0.1
	case features.DaysOverdue > 60:
		score -= 0.3
	}

	switch {
	case features.Amount.LessThan(decimal.NewFromInt(100)):
		score += 0.1
	case features.Amount.GreaterThan(decimal.NewFromInt(1000)):
		score -= 0.1
	}

	if features.Disputed {
		score -= 0.2
	}

	return Clamp(score), nil
}

// StaticEstimator adapts an externally computed model score to the
// Estimator capability. The score is produced out of process (a trained
// model scoring batch, a vendor API) and handed in as data.
type StaticEstimator struct {
	score float64
	name  string
}

// NewStaticEstimator wraps a precomputed probability. Scores outside [0,1]
// are rejected rather than clamped: an out-of-range model output is a fault
// upstream, not a valid estimate.
func NewStaticEstimator(score float64, name string) (*StaticEstimator, error) {
	if score < 0 || score > 1 {
		return nil, errors.ValidationError(errors.CodeOutOfRange, "score", score, nil).
			WithSuggestion("Model scores must lie in [0, 1]")
	}
	if name == "" {
		name = "external_model"
	}
	return &StaticEstimator{score: score, name: name}, nil
}

// Name implements Estimator
func (e *StaticEstimator) Name() string { return e.name }

// Estimate implements Estimator, clamping the model score into the bounds
// every estimate obeys.
func (e *StaticEstimator) Estimate(Features) (float64, error) {
	return Clamp(e.score), nil
}

// Clamp bounds a raw score into the valid probability range
func Clamp(score float64) float64 {
	if score < MinProbability {
		return MinProbability
	}
	if score > MaxProbability {
		return MaxProbability
	}
	return score
}
