package cmd

import (
	"context"
	"os"
	"time"

	"golang-collections-engine/cmd/collections/config"
	"golang-collections-engine/internal/engine"
	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/parsers"
	"golang-collections-engine/internal/probability"
	"golang-collections-engine/internal/reporter"
	"golang-collections-engine/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	evaluateInvoicesFile string
	evaluateAsOf         string
	evaluateModelScore   float64
	evaluateOutputFormat string
	evaluateRatesFile    string
	evaluateDefaultTier  string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the full collection decision over a CSV of invoices",
	Long: `Evaluate every invoice in a CSV file: estimate payment probability,
decide the next collection action, recommend an escalation path for debts
in escalation territory, and compute the statutory amount owed.

The CSV needs id, amount and due_date columns (common aliases are
recognized). Optional columns: tier, status, dispute_status,
collection_stage, debtor_type, previous_attempts, relationship_value,
has_written_contract, has_proof_of_delivery, debtor_has_assets.

Examples:
  collections evaluate --invoices invoices.csv
  collections evaluate --invoices invoices.csv --as-of 2025-03-01 --output-format csv
  collections evaluate --invoices invoices.csv --model-score 0.35 --output-format json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateInvoicesFile, "invoices", "", "invoice CSV file (required)")
	evaluateCmd.Flags().StringVar(&evaluateAsOf, "as-of", "", "evaluation date (default: today)")
	evaluateCmd.Flags().Float64Var(&evaluateModelScore, "model-score", -1, "externally computed payment probability applied to every invoice (0-1)")
	evaluateCmd.Flags().StringVar(&evaluateOutputFormat, "output-format", "console", "output format (console, json, csv)")
	evaluateCmd.Flags().StringVar(&evaluateRatesFile, "rates-file", "", "base rate history JSON file (default: built-in history)")
	evaluateCmd.Flags().StringVar(&evaluateDefaultTier, "default-tier", "starter", "tier assumed when the CSV has no tier column")

	evaluateCmd.MarkFlagRequired("invoices")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	asOf := time.Now().UTC()
	if evaluateAsOf != "" {
		var err error
		asOf, err = models.ParseDateWithFormats(evaluateAsOf)
		if err != nil {
			os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidDate, "as-of", evaluateAsOf, err)))
		}
	}

	format, err := reporter.ParseOutputFormat(evaluateOutputFormat)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	defaultTier, err := models.ParseSubscriptionTier(evaluateDefaultTier)
	if err != nil {
		os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidData, "default-tier", evaluateDefaultTier, err)))
	}

	parser, err := parsers.NewInvoiceParser(&parsers.InvoiceParserConfig{
		Delimiter:   ',',
		DefaultTier: defaultTier,
	})
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	invoices, stats, err := parser.ParseInvoices(evaluateInvoicesFile)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	if stats.RowsSkipped > 0 {
		cmd.PrintErrf("Warning: skipped %d unparsable rows\n", stats.RowsSkipped)
	}

	var estimator probability.Estimator
	if evaluateModelScore >= 0 {
		estimator, err = probability.NewStaticEstimator(evaluateModelScore, "cli_model_score")
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
	}

	calculator, err := config.CreateCalculator(evaluateRatesFile)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	eng, err := engine.New(engine.Config{
		Calculator: calculator,
		Estimator:  estimator,
	})
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	results, err := eng.EvaluateBatch(context.Background(), invoices, asOf, nil)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	rep := reporter.NewReporter(cmd.OutOrStdout())
	if err := rep.WriteEvaluations(results, format); err != nil {
		os.Exit(handler.HandleError(err))
	}

	return nil
}
