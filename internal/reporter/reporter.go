// Package reporter renders calculation and decision results for people and
// programs.
//
// Supported output formats:
//   - Console: human-readable text for terminal display and demand letters
//   - JSON: structured output for programmatic consumption
//   - CSV: flat output for spreadsheet import
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang-collections-engine/internal/engine"
	"golang-collections-engine/internal/escalate"
	"golang-collections-engine/internal/interest"
	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a format name, defaulting empty input to console
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatConsole, nil
	}
	if !f.IsValid() {
		return "", errors.ValidationError(errors.CodeInvalidFormat, "format", s, nil).
			WithSuggestion("Supported formats: console, json, csv")
	}
	return f, nil
}

// Reporter writes reports to a single destination
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// WriteInterest renders a statutory interest calculation
func (r *Reporter) WriteInterest(calc *interest.Calculation, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return r.writeJSON(calc)
	case FormatCSV:
		return r.writeCSV(
			[]string{"principal", "days_overdue", "interest_rate", "bank_base_rate", "daily_interest", "interest_accrued", "fixed_recovery_cost", "total_owed"},
			[][]string{{
				calc.Principal.StringFixed(2),
				strconv.Itoa(calc.DaysOverdue),
				calc.InterestRate.String(),
				calc.BankBaseRate.String(),
				calc.DailyInterest.StringFixed(2),
				calc.InterestAccrued.StringFixed(2),
				calc.FixedRecoveryCost.StringFixed(2),
				calc.TotalOwed.StringFixed(2),
			}},
		)
	default:
		return r.writeInterestConsole(calc)
	}
}

// writeInterestConsole renders the breakdown used in demand letters
func (r *Reporter) writeInterestConsole(calc *interest.Calculation) error {
	var b strings.Builder

	b.WriteString("Late Payment Interest Breakdown:\n\n")
	fmt.Fprintf(&b, "Principal Amount:        £%s\n", calc.Principal.StringFixed(2))
	fmt.Fprintf(&b, "Days Overdue:            %d days\n", calc.DaysOverdue)
	fmt.Fprintf(&b, "Interest Rate:           %s%% per annum\n", calc.InterestRate.String())
	fmt.Fprintf(&b, "                        (%s%% statutory + %s%% BoE base rate)\n\n",
		calc.StatutoryRate.String(), calc.BankBaseRate.String())
	fmt.Fprintf(&b, "Daily Interest:          £%s\n", calc.DailyInterest.StringFixed(2))
	fmt.Fprintf(&b, "Interest Accrued:        £%s\n", calc.InterestAccrued.StringFixed(2))
	fmt.Fprintf(&b, "Fixed Recovery Cost:     £%s\n\n", calc.FixedRecoveryCost.StringFixed(2))
	fmt.Fprintf(&b, "TOTAL OWED:             £%s\n", calc.TotalOwed.StringFixed(2))

	for _, warning := range calc.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s\n", warning)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// WriteProjection renders a day-by-day interest accrual schedule
func (r *Reporter) WriteProjection(points []interest.ProjectionPoint, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return r.writeJSON(points)
	case FormatCSV:
		rows := make([][]string, 0, len(points))
		for _, p := range points {
			rows = append(rows, []string{
				strconv.Itoa(p.Day),
				p.Date.Format("2006-01-02"),
				p.InterestAccrued.StringFixed(2),
				p.TotalOwed.StringFixed(2),
			})
		}
		return r.writeCSV([]string{"day", "date", "interest_accrued", "total_owed"}, rows)
	default:
		var b strings.Builder
		b.WriteString("Interest Accrual Projection:\n\n")
		fmt.Fprintf(&b, "%-5s %-12s %15s %15s\n", "Day", "Date", "Interest", "Total Owed")
		for _, p := range points {
			fmt.Fprintf(&b, "%-5d %-12s %15s %15s\n",
				p.Day, p.Date.Format("2006-01-02"),
				models.FormatCurrency(p.InterestAccrued), models.FormatCurrency(p.TotalOwed))
		}
		_, err := io.WriteString(r.w, b.String())
		return err
	}
}

// WriteRecommendation renders an escalation recommendation
func (r *Reporter) WriteRecommendation(rec *escalate.Recommendation, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return r.writeJSON(rec)
	case FormatCSV:
		return r.writeCSV(
			[]string{"primary_option", "confidence", "county_court_fee", "agency_commission_min", "agency_commission_max", "success_rate_court", "success_rate_agency"},
			[][]string{{
				rec.PrimaryOption.String(),
				strconv.Itoa(rec.Confidence),
				rec.Costs.CountyCourtFee.StringFixed(2),
				rec.Costs.AgencyCommission.Min.StringFixed(2),
				rec.Costs.AgencyCommission.Max.StringFixed(2),
				rec.SuccessRate.Court,
				rec.SuccessRate.Agency,
			}},
		)
	default:
		return r.writeRecommendationConsole(rec)
	}
}

func (r *Reporter) writeRecommendationConsole(rec *escalate.Recommendation) error {
	var b strings.Builder

	b.WriteString("Escalation Recommendation\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Recommended option:  %s\n", rec.PrimaryOption.String())
	fmt.Fprintf(&b, "Confidence:          %d%%\n\n", rec.Confidence)

	b.WriteString("Reasoning:\n")
	for _, reason := range rec.Reasoning {
		fmt.Fprintf(&b, "  - %s\n", reason)
	}

	b.WriteString("\nCosts:\n")
	fmt.Fprintf(&b, "  County Court fee:   %s\n", models.FormatCurrency(rec.Costs.CountyCourtFee))
	fmt.Fprintf(&b, "  Agency commission:  %s - %s (%s)\n",
		models.FormatCurrency(rec.Costs.AgencyCommission.Min),
		models.FormatCurrency(rec.Costs.AgencyCommission.Max),
		rec.Costs.AgencyCommission.Percentage)
	fmt.Fprintf(&b, "  Net via court:      %s\n", models.FormatCurrency(rec.Costs.NetRecovery.CourtOption))
	fmt.Fprintf(&b, "  Net via agency:     %s - %s\n",
		models.FormatCurrency(rec.Costs.NetRecovery.AgencyOptionMin),
		models.FormatCurrency(rec.Costs.NetRecovery.AgencyOptionMax))

	b.WriteString("\nTimelines:\n")
	fmt.Fprintf(&b, "  Court:   %s\n", rec.Timeline.CourtDays)
	fmt.Fprintf(&b, "  Agency:  %s\n", rec.Timeline.AgencyDays)

	b.WriteString("\nSuccess rates:\n")
	fmt.Fprintf(&b, "  Court:   %s\n", rec.SuccessRate.Court)
	fmt.Fprintf(&b, "  Agency:  %s\n", rec.SuccessRate.Agency)

	b.WriteString("\nNext steps:\n")
	for _, step := range rec.NextSteps {
		fmt.Fprintf(&b, "  %s\n", step)
	}

	if len(rec.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warning := range rec.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", warning)
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// WriteEvaluations renders a batch evaluation run
func (r *Reporter) WriteEvaluations(results []engine.BatchResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return r.writeJSON(results)
	case FormatCSV:
		rows := make([][]string, 0, len(results))
		for _, res := range results {
			if res.Err != nil {
				rows = append(rows, []string{res.InvoiceID, "", "", "", "", "error: " + res.Err.Error(), ""})
				continue
			}
			ev := res.Evaluation
			action := ""
			if ev.Decision.Fired {
				action = ev.Decision.Action.String()
			}
			rows = append(rows, []string{
				ev.InvoiceID,
				strconv.Itoa(ev.DaysOverdue),
				fmt.Sprintf("%.2f", ev.Strategy.PaymentProbability),
				ev.Strategy.Urgency.String(),
				action,
				ev.Decision.Reason,
				ev.Interest.TotalOwed.StringFixed(2),
			})
		}
		return r.writeCSV([]string{"invoice_id", "days_overdue", "payment_probability", "urgency", "action", "reason", "total_owed"}, rows)
	default:
		return r.writeEvaluationsConsole(results)
	}
}

func (r *Reporter) writeEvaluationsConsole(results []engine.BatchResult) error {
	var b strings.Builder

	fired, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else if res.Evaluation.Decision.Fired {
			fired++
		}
	}

	b.WriteString("Collection Run Summary\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Invoices evaluated:  %d\n", len(results))
	fmt.Fprintf(&b, "Actions fired:       %d\n", fired)
	fmt.Fprintf(&b, "Failures:            %d\n\n", failed)

	fmt.Fprintf(&b, "%-14s %6s %6s %-9s %-18s %12s\n",
		"Invoice", "Days", "Prob", "Urgency", "Action", "Total Owed")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&b, "%-14s %s\n", res.InvoiceID, "ERROR: "+res.Err.Error())
			continue
		}
		ev := res.Evaluation
		action := "-"
		if ev.Decision.Fired {
			action = ev.Decision.Action.String()
		}
		fmt.Fprintf(&b, "%-14s %6d %6.2f %-9s %-18s %12s\n",
			ev.InvoiceID, ev.DaysOverdue, ev.Strategy.PaymentProbability,
			ev.Strategy.Urgency.String(), action, models.FormatCurrency(ev.Interest.TotalOwed))
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Reporter) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Reporter) writeCSV(header []string, rows [][]string) error {
	w := csv.NewWriter(r.w)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
