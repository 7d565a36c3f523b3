package escalate

import (
	"fmt"

	"golang-collections-engine/internal/models"

	"github.com/shopspring/decimal"
)

// nextSteps returns the action script for the chosen escalation option.
// The scripts are fixed templates; only the selection and the cost figures
// vary per recommendation.
func nextSteps(option models.EscalationOption, courtFee decimal.Decimal, commission AgencyCommission) []string {
	switch option {
	case models.OptionCourt:
		return []string{
			"1. File claim online via Money Claim Online: https://www.moneyclaim.gov.uk",
			fmt.Sprintf("2. Pay court fee of %s", models.FormatCurrency(courtFee)),
			"3. Court serves claim on debtor (5-7 days)",
			"4. Debtor has 14 days to respond",
			"5. If no response, request Default Judgment (automatic)",
			"6. If defended, hearing in 8-12 weeks",
			"7. Upon judgment, enforce via bailiffs or charging order",
		}

	case models.OptionAgency:
		return []string{
			"1. Select a registered UK debt collection agency",
			fmt.Sprintf("2. Expected commission: %s of recovered amount", commission.Percentage),
			"3. Agency sends formal demand letter (14-day notice)",
			"4. Intensive collection period (60-90 days)",
			"5. If successful, receive net amount after commission",
			"6. If unsuccessful, agency may recommend Court or write-off",
		}

	case models.OptionContinueInternal:
		return []string{
			"1. Send formal Letter Before Action (LBA)",
			"2. Make final phone call attempt",
			"3. Offer payment plan or settlement discount",
			"4. If no response after 14 days, re-evaluate escalation",
			"5. Document all communication for a potential Court case",
		}

	default: // write_off
		return []string{
			"1. Send final demand letter",
			"2. Inform client that the account will be closed",
			"3. Record as bad debt for tax purposes",
			"4. Consider selling debt to a recovery company (10-20% of value)",
			"5. Focus efforts on higher-value debts",
		}
	}
}

// Timeline holds the indicative duration of each escalation path
type Timeline struct {
	CourtDays  string `json:"court_days"`
	AgencyDays string `json:"agency_days"`
}

// defaultTimeline returns the indicative UK timelines
func defaultTimeline() Timeline {
	return Timeline{
		CourtDays:  "30-90 days (default judgment) or 90-180 days (defended)",
		AgencyDays: "60-90 days typical collection period",
	}
}

// SuccessRate holds the illustrative recovery rate bands per path. These are
// fixed estimates from published UK statistics and industry averages, not
// learned values, and are distinct from the payment-probability estimator.
type SuccessRate struct {
	Court  string `json:"court"`
	Agency string `json:"agency"`
}

// successRates returns the rate bands, downgraded when the debt is disputed
func successRates(disputed bool) SuccessRate {
	if disputed {
		return SuccessRate{Court: "40-50%", Agency: "30-40%"}
	}
	return SuccessRate{Court: "66-75%", Agency: "50-60%"}
}
