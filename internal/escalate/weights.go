package escalate

import (
	"fmt"

	"golang-collections-engine/internal/models"
)

// Deltas holds the score adjustment one factor outcome applies to each
// escalation option
type Deltas struct {
	Court            int `json:"court"`
	Agency           int `json:"agency"`
	WriteOff         int `json:"write_off"`
	ContinueInternal int `json:"continue_internal"`
}

// Weights is the full scoring table for the escalation model. The point
// values are configuration data rather than hardcoded constants so they can
// be tuned without touching the scoring algorithm; the defaults reproduce
// the model the recommendations were originally calibrated against.
type Weights struct {
	// Factor 1: invoice amount bands
	AmountUnder500   Deltas `json:"amount_under_500"`
	Amount500To1499  Deltas `json:"amount_500_to_1499"`
	Amount1500To4999 Deltas `json:"amount_1500_to_4999"`
	Amount5000Plus   Deltas `json:"amount_5000_plus"`

	// Factor 2: days overdue bands
	OverdueUnder30 Deltas `json:"overdue_under_30"`
	Overdue30To59  Deltas `json:"overdue_30_to_59"`
	Overdue60To89  Deltas `json:"overdue_60_to_89"`
	Overdue90Plus  Deltas `json:"overdue_90_plus"`

	// Factor 3: debt clarity
	DisputedDebt Deltas `json:"disputed_debt"`
	ClearDebt    Deltas `json:"clear_debt"`

	// Factor 4: debtor type
	DebtorBusiness   Deltas `json:"debtor_business"`
	DebtorIndividual Deltas `json:"debtor_individual"`
	DebtorUnknown    Deltas `json:"debtor_unknown"`

	// Factor 5: previous collection attempts
	AttemptsUnder3 Deltas `json:"attempts_under_3"`
	Attempts3To5   Deltas `json:"attempts_3_to_5"`
	Attempts6Plus  Deltas `json:"attempts_6_plus"`

	// Factor 6: relationship value
	RelationshipHigh   Deltas `json:"relationship_high"`
	RelationshipMedium Deltas `json:"relationship_medium"`
	RelationshipLow    Deltas `json:"relationship_low"`

	// Factor 7: evidence strength (written contract + proof of delivery)
	EvidenceStrong  Deltas `json:"evidence_strong"`
	EvidencePartial Deltas `json:"evidence_partial"`
	EvidenceWeak    Deltas `json:"evidence_weak"`

	// Factor 8: debtor asset status
	AssetsYes Deltas `json:"assets_yes"`
	AssetsNo  Deltas `json:"assets_no"`

	// Confidence clamp bounds for the winning score
	ConfidenceMin int `json:"confidence_min"`
	ConfidenceMax int `json:"confidence_max"`
}

// DefaultWeights returns the calibrated scoring table
func DefaultWeights() *Weights {
	return &Weights{
		AmountUnder500:   Deltas{WriteOff: 30, ContinueInternal: 20},
		Amount500To1499:  Deltas{Court: 20, Agency: 10},
		Amount1500To4999: Deltas{Court: 30, Agency: 20},
		Amount5000Plus:   Deltas{Court: 25, Agency: 35},

		OverdueUnder30: Deltas{ContinueInternal: 40},
		Overdue30To59:  Deltas{ContinueInternal: 20, Court: 20, Agency: 10},
		Overdue60To89:  Deltas{Court: 30, Agency: 30},
		Overdue90Plus:  Deltas{Court: 40, Agency: 35, WriteOff: 10},

		DisputedDebt: Deltas{Court: 40, Agency: -20, WriteOff: 10},
		ClearDebt:    Deltas{Agency: 25, Court: 20},

		DebtorBusiness:   Deltas{Court: 30},
		DebtorIndividual: Deltas{Agency: 25},
		DebtorUnknown:    Deltas{Court: 10, Agency: 10},

		AttemptsUnder3: Deltas{ContinueInternal: 30},
		Attempts3To5:   Deltas{Court: 20, Agency: 20},
		Attempts6Plus:  Deltas{Court: 30, Agency: 30},

		RelationshipHigh:   Deltas{Agency: 25, Court: -15},
		RelationshipMedium: Deltas{Court: 10, Agency: 10},
		RelationshipLow:    Deltas{Court: 20},

		EvidenceStrong:  Deltas{Court: 30},
		EvidencePartial: Deltas{Court: 15, Agency: 10},
		EvidenceWeak:    Deltas{Agency: 20, Court: -10},

		AssetsYes: Deltas{Court: 25},
		AssetsNo:  Deltas{WriteOff: 20, Agency: 10},

		ConfidenceMin: 50,
		ConfidenceMax: 95,
	}
}

// Validate performs basic validation on the Weights
func (w *Weights) Validate() error {
	if w.ConfidenceMin < 0 || w.ConfidenceMax > 100 {
		return fmt.Errorf("confidence bounds must lie within [0, 100]")
	}

	if w.ConfidenceMin > w.ConfidenceMax {
		return fmt.Errorf("confidence_min %d exceeds confidence_max %d", w.ConfidenceMin, w.ConfidenceMax)
	}

	return nil
}

// scoreboard accumulates option scores during a scoring pass
type scoreboard map[models.EscalationOption]int

func (sb scoreboard) apply(d Deltas) {
	sb[models.OptionCourt] += d.Court
	sb[models.OptionAgency] += d.Agency
	sb[models.OptionWriteOff] += d.WriteOff
	sb[models.OptionContinueInternal] += d.ContinueInternal
}

// winner returns the option with the highest score. Ties resolve in the
// fixed order court, agency, write_off, continue_internal so that identical
// inputs always produce identical recommendations.
func (sb scoreboard) winner() models.EscalationOption {
	order := []models.EscalationOption{
		models.OptionCourt,
		models.OptionAgency,
		models.OptionWriteOff,
		models.OptionContinueInternal,
	}

	best := order[0]
	for _, opt := range order[1:] {
		if sb[opt] > sb[best] {
			best = opt
		}
	}
	return best
}
