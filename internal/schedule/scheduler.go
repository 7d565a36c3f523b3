// Package schedule maps an overdue invoice's age and the owner's
// subscription tier onto the next collection action to take. The mapping is
// a fixed threshold table, gated by tier entitlements, with a strict
// one-action-per-invoice-per-day guarantee enforced by the caller-supplied
// already-acted flag.
package schedule

import (
	"fmt"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"
	"golang-collections-engine/pkg/logger"
)

// ThresholdEntry binds one exact days-overdue value to an action and the
// minimum tier that may take it.
type ThresholdEntry struct {
	Days    int
	Action  models.CollectionAction
	MinTier models.SubscriptionTier
}

// thresholds is the escalation ladder in threshold order. An invoice only
// matches an entry on the exact day, so a met threshold that is skipped
// (wrong tier, already acted) is not retried on later days; the ladder
// simply moves on.
var thresholds = []ThresholdEntry{
	{Days: 7, Action: models.ActionGentleEmail, MinTier: models.TierStarter},
	{Days: 14, Action: models.ActionFirmEmail, MinTier: models.TierStarter},
	{Days: 15, Action: models.ActionFirstSMS, MinTier: models.TierGrowth},
	{Days: 20, Action: models.ActionSecondReminder, MinTier: models.TierStarter},
	{Days: 25, Action: models.ActionFirstAICall, MinTier: models.TierGrowth},
	{Days: 30, Action: models.ActionFinalNotice, MinTier: models.TierStarter},
	{Days: 35, Action: models.ActionSecondAICall, MinTier: models.TierPro},
	{Days: 40, Action: models.ActionPhysicalLetter, MinTier: models.TierGrowth},
	{Days: 45, Action: models.ActionFinalAICall, MinTier: models.TierPro},
	{Days: 50, Action: models.ActionAgencyReferral, MinTier: models.TierPro},
}

// overrideMinDays is the earliest day the urgency override may fire
const overrideMinDays = 20

// overrideProbabilityCeiling is the payment probability below which the
// urgency override becomes eligible
const overrideProbabilityCeiling = 0.3

// ProbabilitySignal carries the payment-probability estimate the scheduler
// consults for the urgency override. A nil signal disables the override.
type ProbabilitySignal struct {
	Probability float64        `json:"probability"`
	Urgency     models.Urgency `json:"urgency"`
}

// Decision explains a scheduling outcome. Fired is false when no action is
// due, with Reason saying why.
type Decision struct {
	Action   models.CollectionAction `json:"action,omitempty"`
	Fired    bool                    `json:"fired"`
	Override bool                    `json:"override"`
	Reason   string                  `json:"reason"`
}

// Scheduler is a stateless decision function over the threshold table and a
// tier policy table. Day-level idempotency state lives with the caller.
type Scheduler struct {
	policies PolicyTable
	log      logger.Logger
}

// NewScheduler creates a Scheduler. A nil policy table selects the defaults.
func NewScheduler(policies PolicyTable) (*Scheduler, error) {
	if policies == nil {
		policies = DefaultPolicyTable()
	}

	if err := policies.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "tier_policy_table", nil, err)
	}

	return &Scheduler{
		policies: policies,
		log:      logger.GetGlobalLogger().WithComponent("scheduler"),
	}, nil
}

// NextAction returns the collection action due today, if any. It is the
// thin contract most callers need; Decide exposes the reasoning.
func (s *Scheduler) NextAction(daysOverdue int, tier models.SubscriptionTier, alreadyActedToday bool, signal *ProbabilitySignal) (models.CollectionAction, bool) {
	d := s.Decide(daysOverdue, tier, alreadyActedToday, signal)
	return d.Action, d.Fired
}

// Decide evaluates the threshold table and the urgency override for one
// invoice-day. At most one action fires per invoice per calendar day: a
// prior action today suppresses everything, the override included.
func (s *Scheduler) Decide(daysOverdue int, tier models.SubscriptionTier, alreadyActedToday bool, signal *ProbabilitySignal) Decision {
	if alreadyActedToday {
		return Decision{Reason: "an action already fired for this invoice today"}
	}

	policy := s.policies.PolicyFor(tier)

	action, matched := s.tableAction(daysOverdue, tier, policy)

	if override, ok := s.overrideAction(daysOverdue, policy, signal); ok {
		s.log.WithFields(logger.Fields{
			"days_overdue": daysOverdue,
			"tier":         tier.String(),
			"probability":  signal.Probability,
			"urgency":      signal.Urgency.String(),
		}).Info("urgency override engaged, short-circuiting to immediate AI call")

		return Decision{
			Action:   override,
			Fired:    true,
			Override: true,
			Reason: fmt.Sprintf("payment probability %.2f with %s urgency at %d days overdue",
				signal.Probability, signal.Urgency, daysOverdue),
		}
	}

	if !matched {
		return Decision{Reason: fmt.Sprintf("no threshold matches day %d", daysOverdue)}
	}

	if action == "" {
		return Decision{Reason: fmt.Sprintf("day %d action requires a higher tier than %s", daysOverdue, tier)}
	}

	return Decision{
		Action: action,
		Fired:  true,
		Reason: fmt.Sprintf("day %d threshold reached", daysOverdue),
	}
}

// tableAction resolves the threshold table for an exact day match. matched
// reports whether any threshold exists for the day; the action is empty when
// the tier gate or channel policy blocks it.
func (s *Scheduler) tableAction(daysOverdue int, tier models.SubscriptionTier, policy TierPolicy) (models.CollectionAction, bool) {
	for _, entry := range thresholds {
		if entry.Days != daysOverdue {
			continue
		}
		if !tier.AtLeast(entry.MinTier) || !policy.AllowsAction(entry.Action) {
			return "", true
		}
		return entry.Action, true
	}
	return "", false
}

// overrideAction checks the urgency short-circuit: a high or critical
// urgency signal with a low payment probability on a sufficiently old
// invoice jumps straight to an immediate AI call, tier permitting.
func (s *Scheduler) overrideAction(daysOverdue int, policy TierPolicy, signal *ProbabilitySignal) (models.CollectionAction, bool) {
	if signal == nil {
		return "", false
	}
	if signal.Urgency != models.UrgencyHigh && signal.Urgency != models.UrgencyCritical {
		return "", false
	}
	if signal.Probability >= overrideProbabilityCeiling {
		return "", false
	}
	if daysOverdue < overrideMinDays {
		return "", false
	}
	if !policy.Allows(ChannelAICall) {
		return "", false
	}
	return models.ActionImmediateAICall, true
}

// Thresholds returns a copy of the escalation ladder for display
func (s *Scheduler) Thresholds() []ThresholdEntry {
	out := make([]ThresholdEntry, len(thresholds))
	copy(out, thresholds)
	return out
}
