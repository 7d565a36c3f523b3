package cmd

import (
	"os"
	"time"

	"golang-collections-engine/internal/escalate"
	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/reporter"
	"golang-collections-engine/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	escalateAmount       string
	escalateDaysOverdue  int
	escalateDisputed     bool
	escalateDebtorType   string
	escalateAttempts     int
	escalateRelationship string
	escalateContract     bool
	escalatePOD          bool
	escalateAssets       string
	escalateOutputFormat string
)

var escalateCmd = &cobra.Command{
	Use:   "escalate",
	Short: "Recommend an escalation path for an overdue debt",
	Long: `Score the four escalation options (County Court, collection agency,
write-off, continue internal collection) for a debt and recommend one,
with cost projections, timelines, indicative success rates and a concrete
next-step script.

Examples:
  collections escalate --amount 3000 --days-overdue 95 --debtor-type business
  collections escalate --amount 450 --days-overdue 40 --disputed --relationship high
  collections escalate --amount 8000 --days-overdue 70 --attempts 6 --contract --proof-of-delivery --assets yes`,
	RunE: runEscalate,
}

func init() {
	rootCmd.AddCommand(escalateCmd)

	escalateCmd.Flags().StringVar(&escalateAmount, "amount", "", "debt amount (required)")
	escalateCmd.Flags().IntVar(&escalateDaysOverdue, "days-overdue", 0, "days overdue (required)")
	escalateCmd.Flags().BoolVar(&escalateDisputed, "disputed", false, "the debtor disputes the debt")
	escalateCmd.Flags().StringVar(&escalateDebtorType, "debtor-type", "unknown", "debtor type (business, individual, unknown)")
	escalateCmd.Flags().IntVar(&escalateAttempts, "attempts", 0, "previous collection attempts")
	escalateCmd.Flags().StringVar(&escalateRelationship, "relationship", "medium", "relationship value (low, medium, high)")
	escalateCmd.Flags().BoolVar(&escalateContract, "contract", false, "a written contract exists")
	escalateCmd.Flags().BoolVar(&escalatePOD, "proof-of-delivery", false, "proof of delivery exists")
	escalateCmd.Flags().StringVar(&escalateAssets, "assets", "unknown", "debtor has assets (yes, no, unknown)")
	escalateCmd.Flags().StringVar(&escalateOutputFormat, "output-format", "console", "output format (console, json, csv)")

	escalateCmd.MarkFlagRequired("amount")
	escalateCmd.MarkFlagRequired("days-overdue")
}

func runEscalate(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	amount, err := models.ParseDecimalFromString(escalateAmount)
	if err != nil {
		os.Exit(handler.HandleError(errors.InvalidAmountError("amount", escalateAmount)))
	}

	format, err := reporter.ParseOutputFormat(escalateOutputFormat)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	scorer, err := escalate.NewScorer(nil, nil)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	rec := scorer.GenerateRecommendation(escalate.Params{
		InvoiceAmount:      amount,
		DaysOverdue:        escalateDaysOverdue,
		IsDisputedDebt:     escalateDisputed,
		DebtorType:         models.ParseDebtorType(escalateDebtorType),
		PreviousAttempts:   escalateAttempts,
		RelationshipValue:  models.ParseRelationshipValue(escalateRelationship),
		HasWrittenContract: escalateContract,
		HasProofOfDelivery: escalatePOD,
		DebtorHasAssets:    models.ParseAssetStatus(escalateAssets),
		EvaluationDate:     time.Now().UTC(),
	})

	rep := reporter.NewReporter(cmd.OutOrStdout())
	if err := rep.WriteRecommendation(rec, format); err != nil {
		os.Exit(handler.HandleError(err))
	}

	return nil
}
