package cmd

import (
	"os"
	"time"

	"golang-collections-engine/cmd/collections/config"
	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	ratesFile string
	ratesAsOf string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect the Bank of England base rate history",
	Long: `Inspect the base rate history used for statutory interest. The rate
applied to a debt is the one in force at the statutory reference date
(30 June or 31 December preceding the due date), so the history must be
kept current as new rates take effect.`,
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known base rate history",
	RunE:  runRatesList,
}

var ratesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a rate table update is due",
	Long: `Check whether the next statutory reference date (1 January or 1 July)
is near and no rate entry exists for it yet. Run this ahead of each
half-year boundary.`,
	RunE: runRatesCheck,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
	ratesCmd.AddCommand(ratesListCmd)
	ratesCmd.AddCommand(ratesCheckCmd)

	ratesCmd.PersistentFlags().StringVar(&ratesFile, "rates-file", "", "base rate history JSON file (default: built-in history)")
	ratesCheckCmd.Flags().StringVar(&ratesAsOf, "as-of", "", "date to check from (default: today)")
}

func runRatesList(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	table, err := config.CreateRateTable(ratesFile)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	cmd.Printf("%-14s %8s\n", "Effective", "Rate")
	for _, entry := range table.Entries() {
		cmd.Printf("%-14s %7s%%\n", entry.EffectiveFrom.Format("2006-01-02"), entry.Rate.String())
	}
	cmd.Printf("\nCurrent rate: %s%%\n", table.CurrentRate().String())

	return nil
}

func runRatesCheck(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	today := time.Now().UTC()
	if ratesAsOf != "" {
		var err error
		today, err = models.ParseDateWithFormats(ratesAsOf)
		if err != nil {
			os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidDate, "as-of", ratesAsOf, err)))
		}
	}

	table, err := config.CreateRateTable(ratesFile)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	check := table.CheckUpdateDue(today)
	if check.UpdateDue {
		cmd.Printf("Update due: %s\n", check.Message)
	} else {
		cmd.Printf("Rate table is current. Next update date: %s (%d days away)\n",
			check.NextUpdateDate.Format("2006-01-02"), check.DaysUntilUpdate)
	}

	return nil
}
