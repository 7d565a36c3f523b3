package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionTier represents a customer's subscription plan
type SubscriptionTier string

const (
	// TierFree is the unpaid demo tier
	TierFree SubscriptionTier = "free"
	// TierStarter is the entry paid tier
	TierStarter SubscriptionTier = "starter"
	// TierGrowth is the mid paid tier
	TierGrowth SubscriptionTier = "growth"
	// TierPro is the top paid tier
	TierPro SubscriptionTier = "pro"
)

// String returns the string representation of SubscriptionTier
func (t SubscriptionTier) String() string {
	return string(t)
}

// IsValid checks if the subscription tier is valid
func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierFree, TierStarter, TierGrowth, TierPro:
		return true
	default:
		return false
	}
}

// Level returns the hierarchy level of the tier (higher = more capable)
func (t SubscriptionTier) Level() int {
	switch t {
	case TierFree:
		return 0
	case TierStarter:
		return 1
	case TierGrowth:
		return 2
	case TierPro:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether this tier meets or exceeds the given minimum tier
func (t SubscriptionTier) AtLeast(min SubscriptionTier) bool {
	return t.Level() >= min.Level()
}

// ParseSubscriptionTier parses and normalizes a tier from string.
// Legacy tier names are mapped onto the current scheme: "paid" was the old
// single paid tier and maps to growth, "business" maps to pro.
func ParseSubscriptionTier(s string) (SubscriptionTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree, nil
	case "starter":
		return TierStarter, nil
	case "growth", "paid":
		return TierGrowth, nil
	case "pro", "business":
		return TierPro, nil
	default:
		return "", fmt.Errorf("invalid subscription tier '%s': must be free, starter, growth or pro", s)
	}
}

// DebtorType categorizes the debtor for escalation scoring
type DebtorType string

const (
	DebtorBusiness   DebtorType = "business"
	DebtorIndividual DebtorType = "individual"
	DebtorUnknown    DebtorType = "unknown"
)

// String returns the string representation of DebtorType
func (d DebtorType) String() string {
	return string(d)
}

// ParseDebtorType parses a debtor type from string, defaulting to unknown
// for anything unrecognized so that scoring always has a usable value.
func ParseDebtorType(s string) DebtorType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "business", "company", "ltd":
		return DebtorBusiness
	case "individual", "person", "consumer":
		return DebtorIndividual
	default:
		return DebtorUnknown
	}
}

// RelationshipValue expresses how much the ongoing client relationship is worth
type RelationshipValue string

const (
	RelationshipLow    RelationshipValue = "low"
	RelationshipMedium RelationshipValue = "medium"
	RelationshipHigh   RelationshipValue = "high"
)

// String returns the string representation of RelationshipValue
func (r RelationshipValue) String() string {
	return string(r)
}

// ParseRelationshipValue parses a relationship value from string, defaulting
// to medium for anything unrecognized.
func ParseRelationshipValue(s string) RelationshipValue {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RelationshipLow
	case "high":
		return RelationshipHigh
	default:
		return RelationshipMedium
	}
}

// AssetStatus is a tri-state flag for whether the debtor holds enforceable assets
type AssetStatus string

const (
	AssetsYes     AssetStatus = "yes"
	AssetsNo      AssetStatus = "no"
	AssetsUnknown AssetStatus = "unknown"
)

// String returns the string representation of AssetStatus
func (a AssetStatus) String() string {
	return string(a)
}

// ParseAssetStatus parses an asset status from string, defaulting to unknown.
func ParseAssetStatus(s string) AssetStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y", "1":
		return AssetsYes
	case "no", "false", "n", "0":
		return AssetsNo
	default:
		return AssetsUnknown
	}
}

// CollectionAction represents a concrete collection step in the escalation ladder
type CollectionAction string

const (
	ActionGentleEmail     CollectionAction = "gentle_email"
	ActionFirmEmail       CollectionAction = "firm_email"
	ActionFirstSMS        CollectionAction = "first_sms"
	ActionSecondReminder  CollectionAction = "second_reminder"
	ActionFirstAICall     CollectionAction = "first_ai_call"
	ActionFinalNotice     CollectionAction = "final_notice"
	ActionSecondAICall    CollectionAction = "second_ai_call"
	ActionPhysicalLetter  CollectionAction = "physical_letter"
	ActionFinalAICall     CollectionAction = "final_ai_call"
	ActionAgencyReferral  CollectionAction = "agency_referral"
	ActionImmediateAICall CollectionAction = "immediate_ai_call"
)

// String returns the string representation of CollectionAction
func (a CollectionAction) String() string {
	return string(a)
}

// IsAICall reports whether the action is an AI voice call of any kind
func (a CollectionAction) IsAICall() bool {
	switch a {
	case ActionFirstAICall, ActionSecondAICall, ActionFinalAICall, ActionImmediateAICall:
		return true
	default:
		return false
	}
}

// EscalationOption is one of the four terminal collection paths
type EscalationOption string

const (
	OptionCourt            EscalationOption = "court"
	OptionAgency           EscalationOption = "agency"
	OptionWriteOff         EscalationOption = "write_off"
	OptionContinueInternal EscalationOption = "continue_internal"
)

// String returns the string representation of EscalationOption
func (o EscalationOption) String() string {
	return string(o)
}

// IsValid checks if the escalation option is valid
func (o EscalationOption) IsValid() bool {
	switch o {
	case OptionCourt, OptionAgency, OptionWriteOff, OptionContinueInternal:
		return true
	default:
		return false
	}
}

// Urgency grades how pressing collection of an invoice is
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// String returns the string representation of Urgency
func (u Urgency) String() string {
	return string(u)
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	StatusDraft         InvoiceStatus = "draft"
	StatusSent          InvoiceStatus = "sent"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
	StatusInCollections InvoiceStatus = "in_collections"
	StatusDisputed      InvoiceStatus = "disputed"
	StatusCancelled     InvoiceStatus = "cancelled"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice carries the subset of invoice state the collections engine reads
type Invoice struct {
	ID              string           `json:"id" csv:"id"`
	Principal       decimal.Decimal  `json:"principal" csv:"principal"`
	DueDate         time.Time        `json:"due_date" csv:"due_date"`
	Status          InvoiceStatus    `json:"status" csv:"status"`
	DisputeStatus   string           `json:"dispute_status,omitempty" csv:"dispute_status"`
	CollectionStage int              `json:"collection_stage" csv:"collection_stage"`
	Tier            SubscriptionTier `json:"tier" csv:"tier"`

	// Debtor attributes feeding the escalation scorer
	DebtorType         DebtorType        `json:"debtor_type" csv:"debtor_type"`
	RelationshipValue  RelationshipValue `json:"relationship_value" csv:"relationship_value"`
	PreviousAttempts   int               `json:"previous_attempts" csv:"previous_attempts"`
	HasWrittenContract bool              `json:"has_written_contract" csv:"has_written_contract"`
	HasProofOfDelivery bool              `json:"has_proof_of_delivery" csv:"has_proof_of_delivery"`
	DebtorHasAssets    AssetStatus       `json:"debtor_has_assets" csv:"debtor_has_assets"`
}

// NewInvoice creates a new Invoice with sensible defaults for optional attributes
func NewInvoice(id string, principal decimal.Decimal, dueDate time.Time, tier SubscriptionTier) *Invoice {
	return &Invoice{
		ID:                id,
		Principal:         principal,
		DueDate:           Truncate(dueDate),
		Status:            StatusSent,
		Tier:              tier,
		DebtorType:        DebtorUnknown,
		RelationshipValue: RelationshipMedium,
		DebtorHasAssets:   AssetsUnknown,
	}
}

// Validate performs basic validation on the Invoice
func (inv *Invoice) Validate() error {
	if strings.TrimSpace(inv.ID) == "" {
		return fmt.Errorf("invoice ID cannot be empty")
	}

	if !inv.Principal.IsPositive() {
		return fmt.Errorf("invoice principal must be greater than zero, got %s", inv.Principal.String())
	}

	if inv.DueDate.IsZero() {
		return fmt.Errorf("invoice due date cannot be zero")
	}

	if !inv.Tier.IsValid() {
		return fmt.Errorf("invalid subscription tier: %s", inv.Tier)
	}

	if inv.PreviousAttempts < 0 {
		return fmt.Errorf("previous attempts cannot be negative")
	}

	return nil
}

// IsDisputed reports whether the debt is contested
func (inv *Invoice) IsDisputed() bool {
	return strings.TrimSpace(inv.DisputeStatus) != ""
}

// DaysOverdue returns the whole number of days the invoice is overdue on the
// given date. Negative values mean the invoice is not yet due.
func (inv *Invoice) DaysOverdue(today time.Time) int {
	return DaysBetween(inv.DueDate, today)
}

// IsOverdue reports whether the invoice is past due on the given date
func (inv *Invoice) IsOverdue(today time.Time) bool {
	return inv.DaysOverdue(today) > 0
}

// String returns a string representation of the Invoice
func (inv *Invoice) String() string {
	return fmt.Sprintf("Invoice{ID: %s, Principal: %s, Due: %s, Stage: %d}",
		inv.ID, inv.Principal.String(), inv.DueDate.Format("2006-01-02"), inv.CollectionStage)
}

// MarshalJSON implements custom JSON marshaling for Invoice
func (inv *Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Principal string `json:"principal"`
		DueDate   string `json:"due_date"`
		*Alias
	}{
		Principal: inv.Principal.String(),
		DueDate:   inv.DueDate.Format("2006-01-02"),
		Alias:     (*Alias)(inv),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Invoice
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	type Alias Invoice
	aux := &struct {
		Principal string `json:"principal"`
		DueDate   string `json:"due_date"`
		*Alias
	}{
		Alias: (*Alias)(inv),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	inv.Principal, err = decimal.NewFromString(aux.Principal)
	if err != nil {
		return fmt.Errorf("invalid principal format: %w", err)
	}

	inv.DueDate, err = ParseDateWithFormats(aux.DueDate)
	if err != nil {
		return fmt.Errorf("invalid due date format: %w", err)
	}

	return nil
}

// Utility functions for date handling and CSV conversion

// Date builds a bare calendar date in UTC. All engine date arithmetic works
// on these truncated values so that time-of-day and timezone never influence
// day counts.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time component of t, keeping the calendar date in UTC
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysBetween returns the whole number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// SameDay reports whether two timestamps fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return Truncate(a).Equal(Truncate(b))
}

// ParseDecimalFromString parses a monetary amount from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseDateWithFormats attempts to parse a date from string using multiple common formats
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	// Common date formats used in invoice exports
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"02/01/2006", // UK day-first
		"2006/01/02",
		"Jan 2, 2006",
		"2 January 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return Truncate(t), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// ParseBool parses common boolean spellings used in CSV exports
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// FormatCurrency formats a GBP amount for display (e.g. "£1,234.56")
func FormatCurrency(amount decimal.Decimal) string {
	whole := amount.Round(2).StringFixed(2)

	parts := strings.SplitN(whole, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "£" + strings.Join(groups, ",") + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// CreateInvoiceFromCSV creates an Invoice from CSV field values
func CreateInvoiceFromCSV(id, principalStr, dueDateStr, tierStr, disputeStatus string) (*Invoice, error) {
	principal, err := ParseDecimalFromString(principalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid principal in CSV: %w", err)
	}

	dueDate, err := ParseDateWithFormats(dueDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid due date in CSV: %w", err)
	}

	tier, err := ParseSubscriptionTier(tierStr)
	if err != nil {
		return nil, fmt.Errorf("invalid tier in CSV: %w", err)
	}

	invoice := NewInvoice(strings.TrimSpace(id), principal, dueDate, tier)
	invoice.DisputeStatus = strings.TrimSpace(disputeStatus)

	if err := invoice.Validate(); err != nil {
		return nil, fmt.Errorf("invalid invoice data: %w", err)
	}

	return invoice, nil
}
