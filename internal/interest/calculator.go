// Package interest computes UK statutory late payment interest under the
// Late Payment of Commercial Debts (Interest) Act 1998.
//
// The calculation is pure and deterministic: the evaluation date is always
// passed in explicitly and the bank base rate is resolved from the
// historical table by the Act's reference-date rule. Monetary outputs are
// rounded to two decimal places only at the point of return, never
// mid-calculation.
package interest

import (
	"fmt"
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/rates"
	"golang-collections-engine/pkg/errors"
	"golang-collections-engine/pkg/logger"

	"github.com/shopspring/decimal"
)

// StatutoryRate is the fixed 8% per annum added to the base rate by the Act
var StatutoryRate = decimal.NewFromInt(8)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// Params are the inputs to a single interest calculation
type Params struct {
	// Principal is the owed amount before interest and fees; must be > 0
	Principal decimal.Decimal
	// DueDate is the contractual due date
	DueDate time.Time
	// CurrentDate is the evaluation date. It is always explicit; callers
	// that want "today" pass it in themselves.
	CurrentDate time.Time
	// CustomBaseRate overrides the table lookup when non-nil (testing or
	// contractual special cases)
	CustomBaseRate *decimal.Decimal
	// UseHistoricalRate selects the legally correct reference-date lookup.
	// When false the current table rate is used, which is simpler but not
	// suitable for statutory demands.
	UseHistoricalRate bool
}

// Breakdown itemizes the components of the total owed
type Breakdown struct {
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	FixedFee  decimal.Decimal `json:"fixed_fee"`
}

// Calculation is the result of an interest calculation. It is a derived
// value object, recomputed on demand and never persisted as source of truth.
type Calculation struct {
	Principal         decimal.Decimal `json:"principal"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	BankBaseRate      decimal.Decimal `json:"bank_base_rate"`
	StatutoryRate     decimal.Decimal `json:"statutory_rate"`
	DaysOverdue       int             `json:"days_overdue"`
	DailyInterest     decimal.Decimal `json:"daily_interest"`
	InterestAccrued   decimal.Decimal `json:"interest_accrued"`
	FixedRecoveryCost decimal.Decimal `json:"fixed_recovery_cost"`
	TotalOwed         decimal.Decimal `json:"total_owed"`
	Breakdown         Breakdown       `json:"breakdown"`

	// RateLookup records how the base rate was resolved; nil when a custom
	// rate was supplied
	RateLookup *rates.Lookup `json:"rate_lookup,omitempty"`
	// Warnings surfaces non-fatal irregularities such as the pre-history
	// rate fallback
	Warnings []string `json:"warnings,omitempty"`
}

// Calculator computes statutory interest against a rate table and a
// versioned fee schedule. It is stateless and safe for concurrent use.
type Calculator struct {
	rates *rates.Table
	fees  FeeTable
	log   logger.Logger
}

// NewCalculator creates a Calculator. A nil fee table selects the statutory
// defaults.
func NewCalculator(table *rates.Table, fees FeeTable) (*Calculator, error) {
	if table == nil {
		return nil, errors.ConfigurationError(errors.CodeMissingConfig, "rate_table", nil, nil)
	}

	if fees == nil {
		fees = DefaultFeeTable()
	}

	if err := fees.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "fee_table", fees, err)
	}

	return &Calculator{
		rates: table,
		fees:  fees,
		log:   logger.GetGlobalLogger().WithComponent("interest_calculator"),
	}, nil
}

// Calculate computes statutory late payment interest.
//
// Formula:
//
//	daily interest   = principal * (rate / 100) / 365
//	interest accrued = daily interest * days overdue
//	total owed       = principal + interest accrued + fixed recovery cost
//
// where rate is the 8% statutory rate plus the bank base rate resolved per
// the Act's reference-date rule.
func (c *Calculator) Calculate(params Params) (*Calculation, error) {
	if !params.Principal.IsPositive() {
		return nil, errors.InvalidAmountError("principal", params.Principal.String())
	}

	if params.DueDate.IsZero() {
		return nil, errors.ValidationError(errors.CodeMissingField, "due_date", nil, nil)
	}

	if params.CurrentDate.IsZero() {
		return nil, errors.ValidationError(errors.CodeMissingField, "current_date", nil, nil)
	}

	dueDate := models.Truncate(params.DueDate)
	currentDate := models.Truncate(params.CurrentDate)

	if dueDate.After(currentDate) {
		return nil, errors.FutureDueDateError(
			dueDate.Format("2006-01-02"), currentDate.Format("2006-01-02"))
	}

	daysOverdue := models.DaysBetween(dueDate, currentDate)

	var baseRate decimal.Decimal
	var lookup *rates.Lookup
	var warnings []string

	switch {
	case params.CustomBaseRate != nil:
		baseRate = *params.CustomBaseRate
	case params.UseHistoricalRate:
		l := c.rates.RateForDueDate(dueDate)
		baseRate = l.Rate
		lookup = &l
		if l.UsedFallback {
			warnings = append(warnings, fmt.Sprintf(
				"no base rate entry covers reference date %s; oldest known rate %s%% used",
				rates.ReferenceDateFor(dueDate).Format("2006-01-02"), l.Rate.String()))
		}
	default:
		baseRate = c.rates.CurrentRate()
	}

	interestRate := StatutoryRate.Add(baseRate)

	// Unrounded intermediates; rounding happens once at the end
	dailyInterest := params.Principal.Mul(interestRate).Div(hundred).Div(daysPerYear)
	interestAccrued := dailyInterest.Mul(decimal.NewFromInt(int64(daysOverdue)))
	fixedRecoveryCost := c.fees.FeeFor(params.Principal, dueDate)
	totalOwed := params.Principal.Add(interestAccrued).Add(fixedRecoveryCost)

	calc := &Calculation{
		Principal:         params.Principal.Round(2),
		InterestRate:      interestRate.Round(2),
		BankBaseRate:      baseRate,
		StatutoryRate:     StatutoryRate,
		DaysOverdue:       daysOverdue,
		DailyInterest:     dailyInterest.Round(2),
		InterestAccrued:   interestAccrued.Round(2),
		FixedRecoveryCost: fixedRecoveryCost.Round(2),
		TotalOwed:         totalOwed.Round(2),
		Breakdown: Breakdown{
			Principal: params.Principal.Round(2),
			Interest:  interestAccrued.Round(2),
			FixedFee:  fixedRecoveryCost.Round(2),
		},
		RateLookup: lookup,
		Warnings:   warnings,
	}

	c.log.WithFields(logger.Fields{
		"principal":    calc.Principal.String(),
		"days_overdue": daysOverdue,
		"rate":         calc.InterestRate.String(),
		"total_owed":   calc.TotalOwed.String(),
	}).Debug("calculated late payment interest")

	return calc, nil
}

// FixedRecoveryCost returns the statutory fixed fee for a principal on a
// given date without running a full calculation
func (c *Calculator) FixedRecoveryCost(principal decimal.Decimal, date time.Time) decimal.Decimal {
	return c.fees.FeeFor(principal, date)
}

// InterestForDays projects the interest that accrues over a number of days
// at the current table rate. Useful for forward-looking displays; not a
// statutory figure.
func (c *Calculator) InterestForDays(principal decimal.Decimal, days int, customBaseRate *decimal.Decimal) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, errors.InvalidAmountError("principal", principal.String())
	}

	if days < 0 {
		return decimal.Zero, errors.ValidationError(errors.CodeOutOfRange, "days", days, nil)
	}

	baseRate := c.rates.CurrentRate()
	if customBaseRate != nil {
		baseRate = *customBaseRate
	}

	rate := StatutoryRate.Add(baseRate)
	daily := principal.Mul(rate).Div(hundred).Div(daysPerYear)
	return daily.Mul(decimal.NewFromInt(int64(days))).Round(2), nil
}
