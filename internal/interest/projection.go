package interest

import (
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// ProjectionPoint is one day of a forward interest projection
type ProjectionPoint struct {
	Day             int             `json:"day"`
	Date            time.Time       `json:"date"`
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
	TotalOwed       decimal.Decimal `json:"total_owed"`
}

// Project produces a day-by-day schedule of interest accrual from the due
// date, for day 0 through projectionDays inclusive. It applies the current
// table rate throughout and is intended for forward-looking display, not
// statutory demands.
func (c *Calculator) Project(principal decimal.Decimal, dueDate time.Time, projectionDays int) ([]ProjectionPoint, error) {
	if !principal.IsPositive() {
		return nil, errors.InvalidAmountError("principal", principal.String())
	}

	if dueDate.IsZero() {
		return nil, errors.ValidationError(errors.CodeMissingField, "due_date", nil, nil)
	}

	if projectionDays < 0 {
		return nil, errors.ValidationError(errors.CodeOutOfRange, "projection_days", projectionDays, nil)
	}

	dueDate = models.Truncate(dueDate)

	rate := StatutoryRate.Add(c.rates.CurrentRate())
	daily := principal.Mul(rate).Div(hundred).Div(daysPerYear)
	fixedFee := c.fees.FeeFor(principal, dueDate)

	points := make([]ProjectionPoint, 0, projectionDays+1)
	for day := 0; day <= projectionDays; day++ {
		accrued := daily.Mul(decimal.NewFromInt(int64(day)))
		points = append(points, ProjectionPoint{
			Day:             day,
			Date:            dueDate.AddDate(0, 0, day),
			InterestAccrued: accrued.Round(2),
			TotalOwed:       principal.Add(accrued).Add(fixedFee).Round(2),
		})
	}

	return points, nil
}
