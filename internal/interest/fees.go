package interest

import (
	"fmt"
	"time"

	"golang-collections-engine/internal/models"

	"github.com/shopspring/decimal"
)

// FeeBand is one band of the statutory fixed recovery cost table
type FeeBand struct {
	// Max is the inclusive upper bound of principal for this band.
	// A zero Max marks the unbounded top band.
	Max decimal.Decimal `json:"max,omitempty"`
	Fee decimal.Decimal `json:"fee"`
}

// FeeSchedule is a dated version of the fixed recovery cost bands. The fee
// amounts are set by statute and change only when the law does, so they are
// modelled as date-effective tables rather than hardcoded literals.
type FeeSchedule struct {
	EffectiveFrom time.Time `json:"effective_from"`
	Bands         []FeeBand `json:"bands"`
}

// Validate performs basic validation on the FeeSchedule
func (fs FeeSchedule) Validate() error {
	if fs.EffectiveFrom.IsZero() {
		return fmt.Errorf("fee schedule effective_from cannot be zero")
	}

	if len(fs.Bands) == 0 {
		return fmt.Errorf("fee schedule must have at least one band")
	}

	for i, band := range fs.Bands {
		if band.Fee.IsNegative() {
			return fmt.Errorf("band %d: fee cannot be negative", i)
		}
		if i > 0 && !band.Max.IsZero() && band.Max.LessThanOrEqual(fs.Bands[i-1].Max) {
			return fmt.Errorf("band %d: bounds must be strictly increasing", i)
		}
	}

	if !fs.Bands[len(fs.Bands)-1].Max.IsZero() {
		return fmt.Errorf("final band must be unbounded")
	}

	return nil
}

// FeeFor returns the fixed recovery cost for a principal amount
func (fs FeeSchedule) FeeFor(principal decimal.Decimal) decimal.Decimal {
	for _, band := range fs.Bands {
		if band.Max.IsZero() || principal.LessThanOrEqual(band.Max) {
			return band.Fee
		}
	}
	// Unreachable for a validated schedule
	return fs.Bands[len(fs.Bands)-1].Fee
}

// FeeTable is an ordered set of fee schedule versions, newest first
type FeeTable []FeeSchedule

// DefaultFeeTable returns the statutory fixed recovery cost bands in force
// since the Late Payment of Commercial Debts Regulations 2002:
// principal up to £999.99 -> £40, up to £9,999.99 -> £70, above -> £100.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		{
			EffectiveFrom: models.Date(2002, time.August, 7),
			Bands: []FeeBand{
				{Max: decimal.RequireFromString("999.99"), Fee: decimal.NewFromInt(40)},
				{Max: decimal.RequireFromString("9999.99"), Fee: decimal.NewFromInt(70)},
				{Fee: decimal.NewFromInt(100)},
			},
		},
	}
}

// Validate checks every schedule version and their ordering
func (ft FeeTable) Validate() error {
	if len(ft) == 0 {
		return fmt.Errorf("fee table must have at least one schedule")
	}

	for i, fs := range ft {
		if err := fs.Validate(); err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		if i > 0 && !ft[i].EffectiveFrom.Before(ft[i-1].EffectiveFrom) {
			return fmt.Errorf("schedule %d: versions must be sorted newest first", i)
		}
	}

	return nil
}

// ScheduleFor returns the fee schedule version in force on the given date.
// Dates before all versions fall back to the oldest schedule.
func (ft FeeTable) ScheduleFor(date time.Time) FeeSchedule {
	date = models.Truncate(date)
	for _, fs := range ft {
		if !fs.EffectiveFrom.After(date) {
			return fs
		}
	}
	return ft[len(ft)-1]
}

// FeeFor returns the fixed recovery cost for a principal on a given date
func (ft FeeTable) FeeFor(principal decimal.Decimal, date time.Time) decimal.Decimal {
	return ft.ScheduleFor(date).FeeFor(principal)
}
