package interest

import (
	"testing"
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/rates"
	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(rates.DefaultTable(), nil)
	if err != nil {
		t.Fatalf("Failed to create calculator: %v", err)
	}
	return calc
}

func TestCalculateStatutoryInterest(t *testing.T) {
	calc := newTestCalculator(t)

	// Due 15 Aug 2024: reference date 30 Jun 2024, base rate 5.25%,
	// so 13.25% total. 108 days overdue by 1 Dec 2024.
	result, err := calc.Calculate(Params{
		Principal:         decimal.NewFromInt(1000),
		DueDate:           models.Date(2024, time.August, 15),
		CurrentDate:       models.Date(2024, time.December, 1),
		UseHistoricalRate: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.DaysOverdue != 108 {
		t.Errorf("DaysOverdue = %d, expected 108", result.DaysOverdue)
	}
	if result.InterestRate.String() != "13.25" {
		t.Errorf("InterestRate = %s, expected 13.25", result.InterestRate.String())
	}
	if result.BankBaseRate.String() != "5.25" {
		t.Errorf("BankBaseRate = %s, expected 5.25", result.BankBaseRate.String())
	}
	// 1000 * 0.1325 / 365 = 0.36301..., rounded at return
	if result.DailyInterest.String() != "0.36" {
		t.Errorf("DailyInterest = %s, expected 0.36", result.DailyInterest.String())
	}
	// Accrued from the unrounded daily figure: 0.363013... * 108 = 39.2054...
	if result.InterestAccrued.String() != "39.21" {
		t.Errorf("InterestAccrued = %s, expected 39.21", result.InterestAccrued.String())
	}
	// £1,000 falls in the second statutory fee band
	if result.FixedRecoveryCost.String() != "70" {
		t.Errorf("FixedRecoveryCost = %s, expected 70", result.FixedRecoveryCost.String())
	}
	if result.TotalOwed.String() != "1109.21" {
		t.Errorf("TotalOwed = %s, expected 1109.21", result.TotalOwed.String())
	}

	if result.RateLookup == nil {
		t.Fatal("Expected a rate lookup record")
	}
	if !result.RateLookup.ReferenceDate.Equal(models.Date(2024, time.June, 30)) {
		t.Errorf("ReferenceDate = %s, expected 2024-06-30",
			result.RateLookup.ReferenceDate.Format("2006-01-02"))
	}
}

func TestCalculateRoundsOnlyAtReturn(t *testing.T) {
	calc := newTestCalculator(t)

	// A principal chosen so that rounding the daily figure before
	// multiplying would give a visibly different total.
	result, err := calc.Calculate(Params{
		Principal:         decimal.RequireFromString("333.33"),
		DueDate:           models.Date(2024, time.August, 15),
		CurrentDate:       models.Date(2025, time.August, 15),
		UseHistoricalRate: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 365 days at 13.25%: accrued = principal * 0.1325 exactly
	expected := decimal.RequireFromString("333.33").
		Mul(decimal.RequireFromString("0.1325")).Round(2)
	if !result.InterestAccrued.Equal(expected) {
		t.Errorf("InterestAccrued = %s, expected %s", result.InterestAccrued.String(), expected.String())
	}

	// Rounding 0.12 * 365 would give 43.80; the unrounded chain gives 44.17
	naive := decimal.RequireFromString("0.12").Mul(decimal.NewFromInt(365))
	if result.InterestAccrued.Equal(naive) {
		t.Error("Interest appears to have been rounded mid-calculation")
	}
}

func TestCalculateZeroDaysOverdue(t *testing.T) {
	calc := newTestCalculator(t)

	result, err := calc.Calculate(Params{
		Principal:         decimal.NewFromInt(500),
		DueDate:           models.Date(2024, time.August, 15),
		CurrentDate:       models.Date(2024, time.August, 15),
		UseHistoricalRate: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.DaysOverdue != 0 {
		t.Errorf("DaysOverdue = %d, expected 0", result.DaysOverdue)
	}
	if !result.InterestAccrued.IsZero() {
		t.Errorf("InterestAccrued = %s, expected 0", result.InterestAccrued.String())
	}
	// Total owed on the due date is principal plus the fixed fee only
	expected := decimal.NewFromInt(540)
	if !result.TotalOwed.Equal(expected) {
		t.Errorf("TotalOwed = %s, expected %s", result.TotalOwed.String(), expected.String())
	}
}

func TestCalculateRejectsFutureDueDate(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.Calculate(Params{
		Principal:   decimal.NewFromInt(500),
		DueDate:     models.Date(2025, time.March, 1),
		CurrentDate: models.Date(2025, time.February, 1),
	})
	if err == nil {
		t.Fatal("Expected error for future due date")
	}
	if !errors.HasCode(err, errors.CodeFutureDueDate) {
		t.Errorf("Expected CodeFutureDueDate, got %v", err)
	}
}

func TestCalculateRejectsInvalidInputs(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name   string
		params Params
		code   errors.ErrorCode
	}{
		{
			name: "zero principal",
			params: Params{
				Principal:   decimal.Zero,
				DueDate:     models.Date(2024, time.August, 15),
				CurrentDate: models.Date(2024, time.December, 1),
			},
			code: errors.CodeInvalidAmount,
		},
		{
			name: "negative principal",
			params: Params{
				Principal:   decimal.NewFromInt(-100),
				DueDate:     models.Date(2024, time.August, 15),
				CurrentDate: models.Date(2024, time.December, 1),
			},
			code: errors.CodeInvalidAmount,
		},
		{
			name: "zero due date",
			params: Params{
				Principal:   decimal.NewFromInt(100),
				CurrentDate: models.Date(2024, time.December, 1),
			},
			code: errors.CodeMissingField,
		},
		{
			name: "zero current date",
			params: Params{
				Principal: decimal.NewFromInt(100),
				DueDate:   models.Date(2024, time.August, 15),
			},
			code: errors.CodeMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(tt.params)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.HasCode(err, tt.code) {
				t.Errorf("Expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestFixedRecoveryCostBands(t *testing.T) {
	calc := newTestCalculator(t)
	date := models.Date(2024, time.August, 15)

	tests := []struct {
		principal string
		expected  string
	}{
		{"0.01", "40"},
		{"100", "40"},
		{"999.99", "40"},
		{"1000", "70"},
		{"5000", "70"},
		{"9999.99", "70"},
		{"10000", "100"},
		{"250000", "100"},
	}

	for _, tt := range tests {
		principal := decimal.RequireFromString(tt.principal)
		fee := calc.FixedRecoveryCost(principal, date)
		if fee.String() != tt.expected {
			t.Errorf("FixedRecoveryCost(%s) = %s, expected %s", tt.principal, fee.String(), tt.expected)
		}
	}
}

func TestCustomBaseRateOverride(t *testing.T) {
	calc := newTestCalculator(t)

	custom := decimal.RequireFromString("4.00")
	result, err := calc.Calculate(Params{
		Principal:      decimal.NewFromInt(1000),
		DueDate:        models.Date(2024, time.August, 15),
		CurrentDate:    models.Date(2024, time.December, 1),
		CustomBaseRate: &custom,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.InterestRate.String() != "12" {
		t.Errorf("InterestRate = %s, expected 12", result.InterestRate.String())
	}
	if result.RateLookup != nil {
		t.Error("Custom rate calculations should not record a table lookup")
	}
}

func TestInterestMonotonicWithDays(t *testing.T) {
	calc := newTestCalculator(t)
	principal := decimal.NewFromInt(2500)
	dueDate := models.Date(2024, time.August, 15)

	var previous decimal.Decimal
	for days := 1; days <= 120; days += 7 {
		result, err := calc.Calculate(Params{
			Principal:         principal,
			DueDate:           dueDate,
			CurrentDate:       dueDate.AddDate(0, 0, days),
			UseHistoricalRate: true,
		})
		if err != nil {
			t.Fatalf("Unexpected error at %d days: %v", days, err)
		}
		if result.InterestAccrued.LessThan(previous) {
			t.Fatalf("Interest decreased at %d days: %s < %s",
				days, result.InterestAccrued.String(), previous.String())
		}
		previous = result.InterestAccrued
	}
}

func TestProject(t *testing.T) {
	calc := newTestCalculator(t)

	points, err := calc.Project(decimal.NewFromInt(1000), models.Date(2025, time.March, 1), 30)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(points) != 31 {
		t.Fatalf("Expected 31 points (day 0 through 30), got %d", len(points))
	}

	if points[0].Day != 0 || !points[0].InterestAccrued.IsZero() {
		t.Errorf("Day 0 should have zero accrued interest, got %s", points[0].InterestAccrued.String())
	}
	if !points[0].Date.Equal(models.Date(2025, time.March, 1)) {
		t.Errorf("Day 0 date = %s, expected the due date", points[0].Date.Format("2006-01-02"))
	}

	last := points[30]
	if last.Day != 30 {
		t.Errorf("Last point day = %d, expected 30", last.Day)
	}
	if !last.Date.Equal(models.Date(2025, time.March, 31)) {
		t.Errorf("Last point date = %s, expected 2025-03-31", last.Date.Format("2006-01-02"))
	}
	if !last.InterestAccrued.GreaterThan(points[1].InterestAccrued) {
		t.Error("Accrued interest should grow over the projection")
	}

	if _, err := calc.Project(decimal.NewFromInt(1000), models.Date(2025, time.March, 1), -1); err == nil {
		t.Error("Expected error for negative projection days")
	}
}

func TestInterestForDays(t *testing.T) {
	calc := newTestCalculator(t)

	// Current table rate is 5.25%, so 13.25% total.
	// 1000 * 0.1325 / 365 * 10 = 3.6301... -> 3.63
	got, err := calc.InterestForDays(decimal.NewFromInt(1000), 10, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.String() != "3.63" {
		t.Errorf("InterestForDays = %s, expected 3.63", got.String())
	}

	if _, err := calc.InterestForDays(decimal.Zero, 10, nil); err == nil {
		t.Error("Expected error for zero principal")
	}
	if _, err := calc.InterestForDays(decimal.NewFromInt(1000), -1, nil); err == nil {
		t.Error("Expected error for negative days")
	}
}

func TestNewCalculatorRequiresRateTable(t *testing.T) {
	_, err := NewCalculator(nil, nil)
	if err == nil {
		t.Fatal("Expected error for nil rate table")
	}
	if !errors.HasCode(err, errors.CodeMissingConfig) {
		t.Errorf("Expected CodeMissingConfig, got %v", err)
	}
}
