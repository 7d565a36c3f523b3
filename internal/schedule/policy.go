package schedule

import (
	"fmt"

	"golang-collections-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Channel is the delivery mechanism behind a collection action. Limits and
// cost caps are tracked per channel, not per action.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelSMS    Channel = "sms"
	ChannelAICall Channel = "ai_call"
	ChannelLetter Channel = "letter"
	ChannelAgency Channel = "agency"
)

// ChannelFor maps a collection action onto its delivery channel
func ChannelFor(action models.CollectionAction) Channel {
	switch action {
	case models.ActionFirstSMS:
		return ChannelSMS
	case models.ActionFirstAICall, models.ActionSecondAICall,
		models.ActionFinalAICall, models.ActionImmediateAICall:
		return ChannelAICall
	case models.ActionPhysicalLetter:
		return ChannelLetter
	case models.ActionAgencyReferral:
		return ChannelAgency
	default:
		return ChannelEmail
	}
}

// ChannelLimits are per-window usage ceilings for one channel. A zero limit
// means the channel is unavailable in that window.
type ChannelLimits struct {
	Monthly int `json:"monthly"`
	Daily   int `json:"daily"`
}

// TierPolicy consolidates everything a subscription tier is entitled to:
// which channels it may use, how often, and how much it may spend per day.
// One immutable table replaces per-call tier checks scattered through the
// scheduling code.
type TierPolicy struct {
	Tier               models.SubscriptionTier   `json:"tier"`
	MonthlyCollections int                       `json:"monthly_collections"`
	Channels           map[Channel]ChannelLimits `json:"channels"`
	DailyCostCap       decimal.Decimal           `json:"daily_cost_cap"`
}

// Allows reports whether the tier may use the channel at all
func (p TierPolicy) Allows(ch Channel) bool {
	limits, ok := p.Channels[ch]
	return ok && limits.Monthly > 0
}

// AllowsAction reports whether the tier may execute the action's channel
func (p TierPolicy) AllowsAction(action models.CollectionAction) bool {
	return p.Allows(ChannelFor(action))
}

// PolicyTable maps every subscription tier to its policy
type PolicyTable map[models.SubscriptionTier]TierPolicy

// DefaultPolicyTable returns the production tier entitlements. Starter has
// email only; growth adds SMS, letters and a small AI-call allowance; pro
// raises every ceiling and unlocks agency referral.
func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		models.TierStarter: {
			Tier:               models.TierStarter,
			MonthlyCollections: 10,
			Channels: map[Channel]ChannelLimits{
				ChannelEmail: {Monthly: 500, Daily: 50},
			},
			DailyCostCap: decimal.RequireFromString("5.00"),
		},
		models.TierGrowth: {
			Tier:               models.TierGrowth,
			MonthlyCollections: 50,
			Channels: map[Channel]ChannelLimits{
				ChannelEmail:  {Monthly: 2000, Daily: 200},
				ChannelSMS:    {Monthly: 100, Daily: 20},
				ChannelAICall: {Monthly: 10, Daily: 2},
				ChannelLetter: {Monthly: 10, Daily: 2},
			},
			DailyCostCap: decimal.RequireFromString("25.00"),
		},
		models.TierPro: {
			Tier:               models.TierPro,
			MonthlyCollections: 200,
			Channels: map[Channel]ChannelLimits{
				ChannelEmail:  {Monthly: 5000, Daily: 500},
				ChannelSMS:    {Monthly: 500, Daily: 50},
				ChannelAICall: {Monthly: 50, Daily: 5},
				ChannelLetter: {Monthly: 50, Daily: 5},
				ChannelAgency: {Monthly: 10, Daily: 1},
			},
			DailyCostCap: decimal.RequireFromString("100.00"),
		},
	}
}

// Validate checks the table covers the paid tiers with sane limits
func (pt PolicyTable) Validate() error {
	for _, tier := range []models.SubscriptionTier{models.TierStarter, models.TierGrowth, models.TierPro} {
		policy, ok := pt[tier]
		if !ok {
			return fmt.Errorf("policy table missing tier %q", tier)
		}
		if policy.Tier != tier {
			return fmt.Errorf("policy for tier %q declares tier %q", tier, policy.Tier)
		}
		if policy.DailyCostCap.IsNegative() {
			return fmt.Errorf("tier %q: daily cost cap cannot be negative", tier)
		}
		for ch, limits := range policy.Channels {
			if limits.Monthly < 0 || limits.Daily < 0 {
				return fmt.Errorf("tier %q channel %q: limits cannot be negative", tier, ch)
			}
		}
	}
	return nil
}

// PolicyFor returns the policy for a tier. Unknown and free tiers get an
// empty policy that allows nothing, which is the safe default for
// unrecognized input.
func (pt PolicyTable) PolicyFor(tier models.SubscriptionTier) TierPolicy {
	if policy, ok := pt[tier]; ok {
		return policy
	}
	return TierPolicy{Tier: tier}
}
