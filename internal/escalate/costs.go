package escalate

import (
	"fmt"
	"time"

	"golang-collections-engine/internal/models"

	"github.com/shopspring/decimal"
)

// CourtFeeBand is one step of the County Court issue fee schedule
type CourtFeeBand struct {
	// Max is the inclusive upper bound of claim amount for this band.
	// A zero Max marks the percentage-based top band.
	Max decimal.Decimal `json:"max,omitempty"`
	Fee decimal.Decimal `json:"fee"`
}

// CourtFeeSchedule is a dated version of the Money Claim Online fee steps.
// Court fees change with fee orders, so versions are date-effective like the
// base rate history.
type CourtFeeSchedule struct {
	EffectiveFrom time.Time      `json:"effective_from"`
	Bands         []CourtFeeBand `json:"bands"`
	// PercentAbove applies above the last band: fee = claim * PercentAbove
	PercentAbove decimal.Decimal `json:"percent_above"`
	// FeeCap bounds the percentage-based fee
	FeeCap decimal.Decimal `json:"fee_cap"`
}

// Validate performs basic validation on the CourtFeeSchedule
func (cs CourtFeeSchedule) Validate() error {
	if cs.EffectiveFrom.IsZero() {
		return fmt.Errorf("court fee schedule effective_from cannot be zero")
	}

	if len(cs.Bands) == 0 {
		return fmt.Errorf("court fee schedule must have at least one band")
	}

	for i, band := range cs.Bands {
		if band.Max.IsZero() {
			return fmt.Errorf("band %d: court fee bands must be bounded", i)
		}
		if band.Fee.IsNegative() {
			return fmt.Errorf("band %d: fee cannot be negative", i)
		}
		if i > 0 && band.Max.LessThanOrEqual(cs.Bands[i-1].Max) {
			return fmt.Errorf("band %d: bounds must be strictly increasing", i)
		}
	}

	if !cs.PercentAbove.IsPositive() || !cs.FeeCap.IsPositive() {
		return fmt.Errorf("percentage band and fee cap must be positive")
	}

	return nil
}

// FeeFor returns the court issue fee for a claim amount
func (cs CourtFeeSchedule) FeeFor(claim decimal.Decimal) decimal.Decimal {
	for _, band := range cs.Bands {
		if claim.LessThanOrEqual(band.Max) {
			return band.Fee
		}
	}

	fee := claim.Mul(cs.PercentAbove)
	if fee.GreaterThan(cs.FeeCap) {
		return cs.FeeCap
	}
	return fee.Round(2)
}

// CourtFeeTable is an ordered set of court fee schedule versions, newest first
type CourtFeeTable []CourtFeeSchedule

// DefaultCourtFeeTable returns the Money Claim Online issue fees in force
// since the November 2024 fee order: £35/£50/£70/£80/£115/£205/£455 at claim
// bounds £300/£500/£1,000/£1,500/£3,000/£5,000/£10,000, then 5% of the claim
// capped at £10,000.
func DefaultCourtFeeTable() CourtFeeTable {
	band := func(max, fee int64) CourtFeeBand {
		return CourtFeeBand{Max: decimal.NewFromInt(max), Fee: decimal.NewFromInt(fee)}
	}

	return CourtFeeTable{
		{
			EffectiveFrom: models.Date(2024, time.November, 1),
			Bands: []CourtFeeBand{
				band(300, 35),
				band(500, 50),
				band(1000, 70),
				band(1500, 80),
				band(3000, 115),
				band(5000, 205),
				band(10000, 455),
			},
			PercentAbove: decimal.RequireFromString("0.05"),
			FeeCap:       decimal.NewFromInt(10000),
		},
	}
}

// Validate checks every schedule version and their ordering
func (ct CourtFeeTable) Validate() error {
	if len(ct) == 0 {
		return fmt.Errorf("court fee table must have at least one schedule")
	}

	for i, cs := range ct {
		if err := cs.Validate(); err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		if i > 0 && !ct[i].EffectiveFrom.Before(ct[i-1].EffectiveFrom) {
			return fmt.Errorf("schedule %d: versions must be sorted newest first", i)
		}
	}

	return nil
}

// ScheduleFor returns the schedule version in force on the given date,
// falling back to the oldest for pre-history dates.
func (ct CourtFeeTable) ScheduleFor(date time.Time) CourtFeeSchedule {
	date = models.Truncate(date)
	for _, cs := range ct {
		if !cs.EffectiveFrom.After(date) {
			return cs
		}
	}
	return ct[len(ct)-1]
}

// FeeFor returns the court issue fee for a claim on a given date
func (ct CourtFeeTable) FeeFor(claim decimal.Decimal, date time.Time) decimal.Decimal {
	return ct.ScheduleFor(date).FeeFor(claim)
}

// Agency commission rates. Commission is always quoted as a range because
// agencies price per case; a single figure would be misleading.
var (
	agencyCommissionMinRate = decimal.RequireFromString("0.15")
	agencyCommissionMaxRate = decimal.RequireFromString("0.25")
)

// AgencyCommission is the commission range a debt collection agency would
// charge on a recovered amount
type AgencyCommission struct {
	Min        decimal.Decimal `json:"min"`
	Max        decimal.Decimal `json:"max"`
	Percentage string          `json:"percentage"`
}

// CalculateAgencyCommission computes the 15-25% commission range for a debt
// amount
func CalculateAgencyCommission(amount decimal.Decimal) AgencyCommission {
	return AgencyCommission{
		Min:        amount.Mul(agencyCommissionMinRate).Round(2),
		Max:        amount.Mul(agencyCommissionMaxRate).Round(2),
		Percentage: "15-25%",
	}
}

// NetRecovery projects the amount retained after costs under each paid option
type NetRecovery struct {
	CourtOption     decimal.Decimal `json:"court_option"`
	AgencyOptionMin decimal.Decimal `json:"agency_option_min"`
	AgencyOptionMax decimal.Decimal `json:"agency_option_max"`
}

// Costs aggregates the deterministic cost math for a recommendation
type Costs struct {
	CountyCourtFee   decimal.Decimal  `json:"county_court_fee"`
	AgencyCommission AgencyCommission `json:"agency_commission"`
	NetRecovery      NetRecovery      `json:"net_recovery"`
}
