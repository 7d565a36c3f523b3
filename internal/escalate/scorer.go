// Package escalate implements the escalation decision model: an additive
// weighted-scoring pass over four candidate collection paths, plus the
// deterministic cost, timeline and success-rate projections that accompany
// the recommendation.
//
// This is deliberately not a statistical classifier. Each factor's
// contribution is recorded as human-readable reasoning so the output is
// explainable and auditable, which the recommendation surface requires.
package escalate

import (
	"fmt"
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"
	"golang-collections-engine/pkg/logger"

	"github.com/shopspring/decimal"
)

// Params are the inputs to an escalation recommendation. Missing or
// unrecognized attribute values degrade to their neutral category rather
// than failing: the scorer must always produce some recommendation.
type Params struct {
	InvoiceAmount      decimal.Decimal          `json:"invoice_amount"`
	DaysOverdue        int                      `json:"days_overdue"`
	IsDisputedDebt     bool                     `json:"is_disputed_debt"`
	DebtorType         models.DebtorType        `json:"debtor_type"`
	PreviousAttempts   int                      `json:"previous_attempts"`
	RelationshipValue  models.RelationshipValue `json:"relationship_value"`
	HasWrittenContract bool                     `json:"has_written_contract"`
	HasProofOfDelivery bool                     `json:"has_proof_of_delivery"`
	DebtorHasAssets    models.AssetStatus       `json:"debtor_has_assets"`

	// EvaluationDate selects the court fee schedule version; zero means the
	// newest schedule.
	EvaluationDate time.Time `json:"evaluation_date,omitempty"`
}

// Recommendation is the ranked escalation decision with projections. It is
// recomputed on demand and never persisted.
type Recommendation struct {
	PrimaryOption models.EscalationOption        `json:"primary_option"`
	Confidence    int                            `json:"confidence"`
	Scores        map[models.EscalationOption]int `json:"scores"`
	Reasoning     []string                       `json:"reasoning"`
	Costs         Costs                          `json:"costs"`
	Timeline      Timeline                       `json:"timeline"`
	SuccessRate   SuccessRate                    `json:"success_rate"`
	NextSteps     []string                       `json:"next_steps"`
	Warnings      []string                       `json:"warnings,omitempty"`
}

// Scorer produces escalation recommendations from a scoring table and a
// court fee schedule. It is stateless and safe for concurrent use.
type Scorer struct {
	weights   *Weights
	courtFees CourtFeeTable
	log       logger.Logger
}

// NewScorer creates a Scorer. Nil weights or fee table select the defaults.
func NewScorer(weights *Weights, courtFees CourtFeeTable) (*Scorer, error) {
	if weights == nil {
		weights = DefaultWeights()
	}

	if err := weights.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "escalation_weights", nil, err)
	}

	if courtFees == nil {
		courtFees = DefaultCourtFeeTable()
	}

	if err := courtFees.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "court_fee_table", nil, err)
	}

	return &Scorer{
		weights:   weights,
		courtFees: courtFees,
		log:       logger.GetGlobalLogger().WithComponent("escalation_scorer"),
	}, nil
}

// GenerateRecommendation runs the eight-factor scoring pass and assembles
// the full recommendation. Identical inputs always yield identical outputs.
func (s *Scorer) GenerateRecommendation(params Params) *Recommendation {
	params, warnings := s.normalize(params)

	w := s.weights
	scores := scoreboard{}
	var reasoning []string

	amount := params.InvoiceAmount
	evalDate := params.EvaluationDate
	if evalDate.IsZero() {
		evalDate = s.courtFees[0].EffectiveFrom
	}

	courtFee := s.courtFees.FeeFor(amount, evalDate)
	commission := CalculateAgencyCommission(amount)

	// Factor 1: invoice amount
	switch {
	case amount.LessThan(decimal.NewFromInt(500)):
		scores.apply(w.AmountUnder500)
		reasoning = append(reasoning, fmt.Sprintf(
			"Low invoice amount (%s) - recovery costs may exceed debt", models.FormatCurrency(amount)))
		if amount.IsPositive() {
			pct := courtFee.Div(amount).Mul(decimal.NewFromInt(100)).Round(0)
			warnings = append(warnings, fmt.Sprintf(
				"Court fee (%s) is %s%% of invoice value", models.FormatCurrency(courtFee), pct.String()))
		}
	case amount.LessThan(decimal.NewFromInt(1500)):
		scores.apply(w.Amount500To1499)
		reasoning = append(reasoning, fmt.Sprintf(
			"Medium invoice amount (%s) - County Court is cost-effective", models.FormatCurrency(amount)))
	case amount.LessThan(decimal.NewFromInt(5000)):
		scores.apply(w.Amount1500To4999)
		reasoning = append(reasoning, fmt.Sprintf(
			"Good amount for County Court (%s)", models.FormatCurrency(amount)))
	default:
		scores.apply(w.Amount5000Plus)
		reasoning = append(reasoning, fmt.Sprintf(
			"High value debt (%s) - both options viable", models.FormatCurrency(amount)))
	}

	// Factor 2: days overdue
	switch {
	case params.DaysOverdue < 30:
		scores.apply(w.OverdueUnder30)
		reasoning = append(reasoning, fmt.Sprintf(
			"Recently overdue (%d days) - continue internal attempts", params.DaysOverdue))
	case params.DaysOverdue < 60:
		scores.apply(w.Overdue30To59)
		reasoning = append(reasoning, fmt.Sprintf(
			"Moderately overdue (%d days) - consider escalation soon", params.DaysOverdue))
	case params.DaysOverdue < 90:
		scores.apply(w.Overdue60To89)
		reasoning = append(reasoning, fmt.Sprintf(
			"Significantly overdue (%d days) - escalation recommended", params.DaysOverdue))
	default:
		scores.apply(w.Overdue90Plus)
		reasoning = append(reasoning, fmt.Sprintf(
			"Severely overdue (%d days) - urgent escalation needed", params.DaysOverdue))
	}

	// Factor 3: debt clarity
	if params.IsDisputedDebt {
		scores.apply(w.DisputedDebt)
		reasoning = append(reasoning, "Disputed debt - County Court better for formal judgment")
		warnings = append(warnings, "Disputed debts have lower success rates with agencies")
	} else {
		scores.apply(w.ClearDebt)
		reasoning = append(reasoning, "Clear debt - both court and agency viable")
	}

	// Factor 4: debtor type
	switch params.DebtorType {
	case models.DebtorBusiness:
		scores.apply(w.DebtorBusiness)
		reasoning = append(reasoning, "Business debtor - County Court CCJ has strong impact on credit rating")
	case models.DebtorIndividual:
		scores.apply(w.DebtorIndividual)
		reasoning = append(reasoning, "Individual debtor - Agency may be more flexible with payment plans")
	default:
		scores.apply(w.DebtorUnknown)
	}

	// Factor 5: previous collection attempts
	switch {
	case params.PreviousAttempts < 3:
		scores.apply(w.AttemptsUnder3)
		reasoning = append(reasoning, fmt.Sprintf(
			"Few collection attempts (%d) - try more internal methods first", params.PreviousAttempts))
	case params.PreviousAttempts < 6:
		scores.apply(w.Attempts3To5)
		reasoning = append(reasoning, fmt.Sprintf(
			"Multiple attempts made (%d) - escalation reasonable", params.PreviousAttempts))
	default:
		scores.apply(w.Attempts6Plus)
		reasoning = append(reasoning, fmt.Sprintf(
			"Many failed attempts (%d) - escalation strongly recommended", params.PreviousAttempts))
	}

	// Factor 6: relationship value
	switch params.RelationshipValue {
	case models.RelationshipHigh:
		scores.apply(w.RelationshipHigh)
		reasoning = append(reasoning, "High-value relationship - Agency less damaging than Court action")
	case models.RelationshipLow:
		scores.apply(w.RelationshipLow)
		reasoning = append(reasoning, "Low relationship value - Court action acceptable")
	default:
		scores.apply(w.RelationshipMedium)
	}

	// Factor 7: evidence strength
	evidence := 0
	if params.HasWrittenContract {
		evidence++
		reasoning = append(reasoning, "Written contract strengthens case")
	}
	if params.HasProofOfDelivery {
		evidence++
		reasoning = append(reasoning, "Proof of delivery available")
	}

	switch {
	case evidence >= 2:
		scores.apply(w.EvidenceStrong)
		reasoning = append(reasoning, "Strong evidence - excellent for County Court")
	case evidence == 1:
		scores.apply(w.EvidencePartial)
	default:
		scores.apply(w.EvidenceWeak)
		warnings = append(warnings, "Weak evidence may reduce Court success rate")
	}

	// Factor 8: debtor asset status
	switch params.DebtorHasAssets {
	case models.AssetsYes:
		scores.apply(w.AssetsYes)
		reasoning = append(reasoning, "Debtor has assets - Court judgment can be enforced")
	case models.AssetsNo:
		scores.apply(w.AssetsNo)
		warnings = append(warnings, "Debtor has no assets - recovery may be difficult")
	}

	primary := scores.winner()
	confidence := clamp(scores[primary], w.ConfidenceMin, w.ConfidenceMax)

	rec := &Recommendation{
		PrimaryOption: primary,
		Confidence:    confidence,
		Scores: map[models.EscalationOption]int{
			models.OptionCourt:            scores[models.OptionCourt],
			models.OptionAgency:           scores[models.OptionAgency],
			models.OptionWriteOff:         scores[models.OptionWriteOff],
			models.OptionContinueInternal: scores[models.OptionContinueInternal],
		},
		Reasoning: reasoning,
		Costs: Costs{
			CountyCourtFee:   courtFee,
			AgencyCommission: commission,
			NetRecovery: NetRecovery{
				CourtOption:     amount.Sub(courtFee).Round(2),
				AgencyOptionMin: amount.Sub(commission.Max).Round(2),
				AgencyOptionMax: amount.Sub(commission.Min).Round(2),
			},
		},
		Timeline:    defaultTimeline(),
		SuccessRate: successRates(params.IsDisputedDebt),
		NextSteps:   nextSteps(primary, courtFee, commission),
		Warnings:    warnings,
	}

	s.log.WithFields(logger.Fields{
		"primary_option": primary.String(),
		"confidence":     confidence,
		"days_overdue":   params.DaysOverdue,
		"amount":         amount.String(),
	}).Debug("generated escalation recommendation")

	return rec
}

// normalize degrades incomplete or out-of-range params to neutral values
// so a recommendation is always produced, recording what was adjusted.
func (s *Scorer) normalize(params Params) (Params, []string) {
	var warnings []string

	if params.InvoiceAmount.IsNegative() {
		warnings = append(warnings, "Invoice amount was negative; treated as zero for scoring and cost projections are unreliable")
		params.InvoiceAmount = decimal.Zero
	}

	if params.DaysOverdue < 0 {
		warnings = append(warnings, "Days overdue was negative; treated as zero")
		params.DaysOverdue = 0
	}

	if params.PreviousAttempts < 0 {
		params.PreviousAttempts = 0
	}

	switch params.DebtorType {
	case models.DebtorBusiness, models.DebtorIndividual, models.DebtorUnknown:
	default:
		params.DebtorType = models.DebtorUnknown
	}

	switch params.RelationshipValue {
	case models.RelationshipLow, models.RelationshipMedium, models.RelationshipHigh:
	default:
		params.RelationshipValue = models.RelationshipMedium
	}

	switch params.DebtorHasAssets {
	case models.AssetsYes, models.AssetsNo, models.AssetsUnknown:
	default:
		params.DebtorHasAssets = models.AssetsUnknown
	}

	return params, warnings
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ParamsFromInvoice builds scoring params from an invoice at a given date
func ParamsFromInvoice(inv *models.Invoice, today time.Time) Params {
	return Params{
		InvoiceAmount:      inv.Principal,
		DaysOverdue:        inv.DaysOverdue(today),
		IsDisputedDebt:     inv.IsDisputed(),
		DebtorType:         inv.DebtorType,
		PreviousAttempts:   inv.PreviousAttempts,
		RelationshipValue:  inv.RelationshipValue,
		HasWrittenContract: inv.HasWrittenContract,
		HasProofOfDelivery: inv.HasProofOfDelivery,
		DebtorHasAssets:    inv.DebtorHasAssets,
		EvaluationDate:     today,
	}
}
