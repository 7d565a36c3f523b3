package rates

import (
	"fmt"
	"time"

	"golang-collections-engine/internal/models"
)

// UpdateCheck reports whether a base rate table update is due.
// An overdue update is an operational alert, never a blocking error.
type UpdateCheck struct {
	UpdateDue       bool      `json:"update_due"`
	NextUpdateDate  time.Time `json:"next_update_date"`
	DaysUntilUpdate int       `json:"days_until_update"`
	Message         string    `json:"message,omitempty"`
}

// NextUpdateDate returns the next half-year rate boundary (1 January or
// 1 July) on or after the given date.
func NextUpdateDate(today time.Time) time.Time {
	today = models.Truncate(today)
	year := today.Year()

	julyFirst := models.Date(year, time.July, 1)
	if !today.After(julyFirst) {
		return julyFirst
	}
	return models.Date(year+1, time.January, 1)
}

// CheckUpdateDue flags, within 7 days of a half-year boundary, that no table
// entry yet exists for the upcoming boundary.
func (t *Table) CheckUpdateDue(today time.Time) UpdateCheck {
	next := NextUpdateDate(today)
	days := models.DaysBetween(today, next)

	check := UpdateCheck{
		NextUpdateDate:  next,
		DaysUntilUpdate: days,
	}

	if days < 0 || days > 7 {
		return check
	}

	for _, e := range t.entries {
		if e.EffectiveFrom.Equal(next) {
			return check
		}
	}

	check.UpdateDue = true
	check.Message = fmt.Sprintf(
		"Base rate update due in %d days (%s). Check the Bank of England website and append the new entry.",
		days, next.Format("02/01/2006"))

	return check
}

// UpdateNotice generates an operator-facing notification when a rate update
// is due, or returns the empty string when none is needed. Intended to be
// surfaced by a scheduled job or admin dashboard.
func (t *Table) UpdateNotice(today time.Time) string {
	check := t.CheckUpdateDue(today)
	if !check.UpdateDue {
		return ""
	}

	return fmt.Sprintf(`BASE RATE UPDATE REQUIRED

The Bank of England base rate boundary is approaching: %s (%d days).

1. Check https://www.bankofengland.co.uk/monetary-policy/the-interest-rate-bank-rate
2. If the rate changed, append a new entry effective %s to the rate history data file.
3. Deploy the updated table before the boundary.

Existing calculations keep using historical rates and are unaffected.
Current rate: %s%% (%d entries, %s to %s)`,
		check.NextUpdateDate.Format("02/01/2006"),
		check.DaysUntilUpdate,
		check.NextUpdateDate.Format("02/01/2006"),
		t.CurrentRate().String(),
		t.Len(),
		t.Oldest().EffectiveFrom.Format("02/01/2006"),
		t.Newest().EffectiveFrom.Format("02/01/2006"))
}
