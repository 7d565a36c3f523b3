// Package rates maintains the historical Bank of England base rate table and
// the reference-date lookup required by the Late Payment of Commercial Debts
// (Interest) Act 1998.
//
// The Act requires the base rate in force on 30 June (for due dates falling
// July to December) or 31 December of the prior year (for due dates falling
// January to June), not the rate at calculation time. The table is
// append-only: entries are added when the Bank of England changes the rate
// at a half-year boundary and are never mutated afterwards.
package rates

import (
	"fmt"
	"sort"
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"
	"golang-collections-engine/pkg/logger"

	"github.com/shopspring/decimal"
)

// Entry is an immutable historical base rate record
type Entry struct {
	// EffectiveFrom is 1 January or 1 July of the half-year the rate covers
	EffectiveFrom time.Time `json:"effective_from"`
	// Rate is the annual percentage rate (e.g. 5.25)
	Rate decimal.Decimal `json:"rate"`
	// ReferenceDate is the legally significant 31 December or 30 June
	ReferenceDate time.Time `json:"reference_date"`
}

// Validate performs basic validation on the Entry
func (e Entry) Validate() error {
	if e.EffectiveFrom.IsZero() {
		return fmt.Errorf("effective_from date cannot be zero")
	}

	if e.ReferenceDate.IsZero() {
		return fmt.Errorf("reference_date cannot be zero")
	}

	if e.Rate.IsNegative() {
		return fmt.Errorf("rate cannot be negative: %s", e.Rate.String())
	}

	if !e.ReferenceDate.Before(e.EffectiveFrom) {
		return fmt.Errorf("reference_date %s must precede effective_from %s",
			e.ReferenceDate.Format("2006-01-02"), e.EffectiveFrom.Format("2006-01-02"))
	}

	return nil
}

// String returns a string representation of the Entry
func (e Entry) String() string {
	return fmt.Sprintf("Entry{From: %s, Rate: %s%%, Ref: %s}",
		e.EffectiveFrom.Format("2006-01-02"), e.Rate.String(), e.ReferenceDate.Format("2006-01-02"))
}

// Lookup is the result of resolving a due date against the table
type Lookup struct {
	Rate          decimal.Decimal `json:"rate"`
	ReferenceDate time.Time       `json:"reference_date"`
	EffectiveFrom time.Time       `json:"effective_from"`
	// UsedFallback is set when the requested reference date predates all
	// known history and the oldest entry was substituted
	UsedFallback bool `json:"used_fallback,omitempty"`
}

// Table holds the base rate history, sorted descending by effective date
type Table struct {
	entries []Entry
	log     logger.Logger
}

// NewTable creates a Table from the given entries. Entries are validated and
// sorted newest-first; the input slice is not retained.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.RateTableError(errors.CodeEmptyRateTable, "", nil)
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	for i, e := range sorted {
		if err := e.Validate(); err != nil {
			return nil, errors.RateTableError(errors.CodeInvalidRateEntry,
				fmt.Sprintf("entry %d: %v", i, err), err)
		}
		sorted[i].EffectiveFrom = models.Truncate(e.EffectiveFrom)
		sorted[i].ReferenceDate = models.Truncate(e.ReferenceDate)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.After(sorted[j].EffectiveFrom)
	})

	return &Table{
		entries: sorted,
		log:     logger.GetGlobalLogger().WithComponent("rate_table"),
	}, nil
}

// DefaultTable returns the built-in Bank of England history.
// Source: https://www.bankofengland.co.uk/boeapps/database/Bank-Rate.asp
func DefaultTable() *Table {
	table, err := NewTable(defaultHistory())
	if err != nil {
		// The built-in history is validated by tests; this is unreachable
		// unless the data literal is corrupted.
		panic(fmt.Sprintf("built-in rate history invalid: %v", err))
	}
	return table
}

func defaultHistory() []Entry {
	entry := func(y int, m time.Month, d int, rate string, ry int, rm time.Month, rd int) Entry {
		return Entry{
			EffectiveFrom: models.Date(y, m, d),
			Rate:          decimal.RequireFromString(rate),
			ReferenceDate: models.Date(ry, rm, rd),
		}
	}

	return []Entry{
		entry(2025, time.July, 1, "5.25", 2025, time.June, 30),
		entry(2025, time.January, 1, "5.00", 2024, time.December, 31),
		entry(2024, time.July, 1, "5.25", 2024, time.June, 30),
		entry(2024, time.January, 1, "5.25", 2023, time.December, 31),
		entry(2023, time.July, 1, "5.00", 2023, time.June, 30),
		entry(2023, time.January, 1, "3.50", 2022, time.December, 31),
		entry(2022, time.July, 1, "1.25", 2022, time.June, 30),
		entry(2022, time.January, 1, "0.25", 2021, time.December, 31),
		entry(2021, time.July, 1, "0.10", 2021, time.June, 30),
		entry(2021, time.January, 1, "0.10", 2020, time.December, 31),
		entry(2020, time.July, 1, "0.10", 2020, time.June, 30),
		entry(2020, time.January, 1, "0.75", 2019, time.December, 31),
	}
}

// Append adds a new entry to the table. Entries may only be appended at the
// newest end; history is never rewritten.
func (t *Table) Append(e Entry) error {
	if err := e.Validate(); err != nil {
		return errors.RateTableError(errors.CodeInvalidRateEntry, err.Error(), err)
	}

	e.EffectiveFrom = models.Truncate(e.EffectiveFrom)
	e.ReferenceDate = models.Truncate(e.ReferenceDate)

	if !e.EffectiveFrom.After(t.entries[0].EffectiveFrom) {
		return errors.RateTableError(errors.CodeInvalidRateEntry,
			fmt.Sprintf("entry effective %s does not extend the table (newest is %s)",
				e.EffectiveFrom.Format("2006-01-02"),
				t.entries[0].EffectiveFrom.Format("2006-01-02")), nil)
	}

	t.entries = append([]Entry{e}, t.entries...)
	return nil
}

// Len returns the number of entries in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// Newest returns the most recent entry
func (t *Table) Newest() Entry {
	return t.entries[0]
}

// Oldest returns the oldest known entry
func (t *Table) Oldest() Entry {
	return t.entries[len(t.entries)-1]
}

// Entries returns a copy of the table contents, newest first
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ReferenceDateFor computes the legally defined reference date for a due
// date: 30 June of the same year for due dates in July-December, otherwise
// 31 December of the previous year.
func ReferenceDateFor(dueDate time.Time) time.Time {
	year := dueDate.Year()
	if dueDate.Month() >= time.July {
		return models.Date(year, time.June, 30)
	}
	return models.Date(year-1, time.December, 31)
}

// RateForDueDate resolves the legally correct base rate for an invoice due
// date. When the computed reference date predates all known history the
// oldest entry is substituted and the lookup is flagged, favouring
// availability over perfect legal accuracy for pre-history dates.
func (t *Table) RateForDueDate(dueDate time.Time) Lookup {
	target := ReferenceDateFor(dueDate)

	// Entries are sorted newest-first; the first whose reference date is on
	// or before the target is the rate in force on that date.
	for _, e := range t.entries {
		if !e.ReferenceDate.After(target) {
			return Lookup{
				Rate:          e.Rate,
				ReferenceDate: e.ReferenceDate,
				EffectiveFrom: e.EffectiveFrom,
			}
		}
	}

	oldest := t.Oldest()
	t.log.WithFields(logger.Fields{
		"reference_date": target.Format("2006-01-02"),
		"fallback_rate":  oldest.Rate.String(),
	}).Warn("no base rate entry covers reference date, using oldest known rate")

	return Lookup{
		Rate:          oldest.Rate,
		ReferenceDate: oldest.ReferenceDate,
		EffectiveFrom: oldest.EffectiveFrom,
		UsedFallback:  true,
	}
}

// CurrentRate returns the most recent rate. This is only suitable for
// simplified projections, never for statutory calculations.
func (t *Table) CurrentRate() decimal.Decimal {
	return t.Newest().Rate
}
