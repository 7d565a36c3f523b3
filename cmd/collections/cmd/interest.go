package cmd

import (
	"os"
	"time"

	"golang-collections-engine/cmd/collections/config"
	"golang-collections-engine/internal/interest"
	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/reporter"
	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	interestAmount       string
	interestDueDate      string
	interestAsOf         string
	interestBaseRate     string
	interestCurrentRate  bool
	interestProjectDays  int
	interestOutputFormat string
	interestRatesFile    string
)

var interestCmd = &cobra.Command{
	Use:   "interest",
	Short: "Calculate statutory late payment interest",
	Long: `Calculate the interest and fixed recovery cost owed on an overdue
invoice under the Late Payment of Commercial Debts (Interest) Act 1998.

The rate is 8% plus the Bank of England base rate fixed at the statutory
reference date (30 June or 31 December preceding the due date). Use
--current-rate to apply today's base rate instead, or --base-rate to
override the rate entirely.

Examples:
  collections interest --amount 1500 --due-date 2024-08-15
  collections interest --amount "£2,500.00" --due-date 15/08/2024 --as-of 2024-12-01
  collections interest --amount 1500 --due-date 2024-08-15 --project 30
  collections interest --amount 1500 --due-date 2024-08-15 --output-format json`,
	RunE: runInterest,
}

func init() {
	rootCmd.AddCommand(interestCmd)

	interestCmd.Flags().StringVar(&interestAmount, "amount", "", "invoice principal (required)")
	interestCmd.Flags().StringVar(&interestDueDate, "due-date", "", "invoice due date (required)")
	interestCmd.Flags().StringVar(&interestAsOf, "as-of", "", "calculation date (default: today)")
	interestCmd.Flags().StringVar(&interestBaseRate, "base-rate", "", "override the BoE base rate (percent)")
	interestCmd.Flags().BoolVar(&interestCurrentRate, "current-rate", false, "use today's base rate instead of the statutory reference-date rate")
	interestCmd.Flags().IntVar(&interestProjectDays, "project", 0, "also project interest accrual over N days")
	interestCmd.Flags().StringVar(&interestOutputFormat, "output-format", "console", "output format (console, json, csv)")
	interestCmd.Flags().StringVar(&interestRatesFile, "rates-file", "", "base rate history JSON file (default: built-in history)")

	interestCmd.MarkFlagRequired("amount")
	interestCmd.MarkFlagRequired("due-date")
}

func runInterest(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	principal, err := models.ParseDecimalFromString(interestAmount)
	if err != nil {
		os.Exit(handler.HandleError(errors.InvalidAmountError("amount", interestAmount)))
	}

	dueDate, err := models.ParseDateWithFormats(interestDueDate)
	if err != nil {
		os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidDate, "due-date", interestDueDate, err)))
	}

	asOf := time.Now().UTC()
	if interestAsOf != "" {
		asOf, err = models.ParseDateWithFormats(interestAsOf)
		if err != nil {
			os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidDate, "as-of", interestAsOf, err)))
		}
	}

	format, err := reporter.ParseOutputFormat(interestOutputFormat)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	calculator, err := config.CreateCalculator(interestRatesFile)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	params := interest.Params{
		Principal:         principal,
		DueDate:           dueDate,
		CurrentDate:       asOf,
		UseHistoricalRate: !interestCurrentRate,
	}

	if interestBaseRate != "" {
		rate, err := decimal.NewFromString(interestBaseRate)
		if err != nil {
			os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidData, "base-rate", interestBaseRate, err)))
		}
		params.CustomBaseRate = &rate
	}

	calc, err := calculator.Calculate(params)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	rep := reporter.NewReporter(cmd.OutOrStdout())
	if err := rep.WriteInterest(calc, format); err != nil {
		os.Exit(handler.HandleError(err))
	}

	if interestProjectDays > 0 {
		points, err := calculator.Project(principal, dueDate, interestProjectDays)
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		cmd.Println()
		if err := rep.WriteProjection(points, format); err != nil {
			os.Exit(handler.HandleError(err))
		}
	}

	return nil
}
