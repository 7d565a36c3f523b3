package cmd

import (
	"fmt"
	"os"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/schedule"
	"golang-collections-engine/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	scheduleDaysOverdue int
	scheduleTier        string
	scheduleActedToday  bool
	scheduleProbability float64
	scheduleUrgency     string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Determine the next collection action for an invoice",
	Long: `Look up the collection action due for an invoice given how many days
overdue it is and the subscription tier. At most one action fires per
invoice per day; pass --acted-today to record that one already has.

Supplying --probability and --urgency enables the urgency override: a
high or critical urgency with probability below 0.3 on an invoice at
least 20 days overdue short-circuits to an immediate AI call on tiers
that include AI calling.

Examples:
  collections schedule --days-overdue 25 --tier growth
  collections schedule --days-overdue 15 --tier starter
  collections schedule --days-overdue 30 --tier pro --probability 0.2 --urgency critical`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().IntVar(&scheduleDaysOverdue, "days-overdue", 0, "days overdue (required)")
	scheduleCmd.Flags().StringVar(&scheduleTier, "tier", "", "subscription tier (starter, growth, pro) (required)")
	scheduleCmd.Flags().BoolVar(&scheduleActedToday, "acted-today", false, "an action already fired for this invoice today")
	scheduleCmd.Flags().Float64Var(&scheduleProbability, "probability", -1, "payment probability from the estimator (0-1)")
	scheduleCmd.Flags().StringVar(&scheduleUrgency, "urgency", "", "estimator urgency (low, medium, high, critical)")

	scheduleCmd.MarkFlagRequired("days-overdue")
	scheduleCmd.MarkFlagRequired("tier")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	tier, err := models.ParseSubscriptionTier(scheduleTier)
	if err != nil {
		os.Exit(handler.HandleError(errors.ValidationError(errors.CodeInvalidData, "tier", scheduleTier, err)))
	}

	scheduler, err := schedule.NewScheduler(nil)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	var signal *schedule.ProbabilitySignal
	if scheduleProbability >= 0 && scheduleUrgency != "" {
		signal = &schedule.ProbabilitySignal{
			Probability: scheduleProbability,
			Urgency:     models.Urgency(scheduleUrgency),
		}
	}

	decision := scheduler.Decide(scheduleDaysOverdue, tier, scheduleActedToday, signal)

	if !decision.Fired {
		cmd.Printf("No action due: %s\n", decision.Reason)
		return nil
	}

	label := "Next action"
	if decision.Override {
		label = "Override action"
	}
	cmd.Printf("%s: %s (%s)\n", label, decision.Action.String(), decision.Reason)
	fmt.Fprintf(cmd.OutOrStdout(), "Channel: %s\n", schedule.ChannelFor(decision.Action))

	return nil
}
