package engine

import (
	"context"
	"testing"
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

func TestEvaluateFiresThresholdAction(t *testing.T) {
	e := newTestEngine(t)

	inv := models.NewInvoice("INV-100", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)
	today := models.Date(2025, time.July, 8) // 7 days overdue

	eval, err := e.Evaluate(context.Background(), inv, today, false)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.InvoiceID != "INV-100" {
		t.Errorf("InvoiceID = %q, expected INV-100", eval.InvoiceID)
	}
	if eval.DaysOverdue != 7 {
		t.Errorf("DaysOverdue = %d, expected 7", eval.DaysOverdue)
	}
	if !eval.EvaluatedAt.Equal(today) {
		t.Errorf("EvaluatedAt = %v, expected %v", eval.EvaluatedAt, today)
	}
	if eval.ID == "" {
		t.Error("Expected a generated evaluation ID")
	}

	if !eval.Decision.Fired || eval.Decision.Action != models.ActionGentleEmail {
		t.Errorf("Decision = %+v, expected gentle_email to fire", eval.Decision)
	}

	if eval.Event == nil {
		t.Fatal("Expected a collection event for a fired action")
	}
	if eval.Event.Action != models.ActionGentleEmail {
		t.Errorf("Event action = %q, expected gentle_email", eval.Event.Action)
	}
	if eval.Event.Channel != "email" {
		t.Errorf("Event channel = %q, expected email", eval.Event.Channel)
	}
	if eval.Event.ID == "" {
		t.Error("Expected a generated event ID")
	}

	// 7 days overdue on £500: 0.5 + 0.2 recent = 0.7, standard escalation
	if eval.Strategy.PaymentProbability != 0.7 {
		t.Errorf("PaymentProbability = %v, expected 0.7", eval.Strategy.PaymentProbability)
	}

	if eval.Interest == nil {
		t.Fatal("Expected an interest calculation")
	}
	if eval.Interest.DaysOverdue != 7 {
		t.Errorf("Interest days overdue = %d, expected 7", eval.Interest.DaysOverdue)
	}

	// Recent, medium-urgency invoices stay out of escalation territory
	if eval.Escalation != nil {
		t.Error("Expected no escalation recommendation at 7 days overdue")
	}
}

func TestEvaluateEscalationTerritory(t *testing.T) {
	e := newTestEngine(t)

	inv := models.NewInvoice("INV-101", decimal.NewFromInt(500),
		models.Date(2025, time.June, 1), models.TierStarter)
	today := models.Date(2025, time.July, 1) // 30 days overdue

	eval, err := e.Evaluate(context.Background(), inv, today, false)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.Escalation == nil {
		t.Fatal("Expected an escalation recommendation at 30 days overdue")
	}
	if eval.Escalation.PrimaryOption == "" {
		t.Error("Expected a primary escalation option")
	}

	if !eval.Decision.Fired || eval.Decision.Action != models.ActionFinalNotice {
		t.Errorf("Decision = %+v, expected final_notice to fire", eval.Decision)
	}
}

func TestEvaluateUrgencyTriggersEarlyEscalation(t *testing.T) {
	e := newTestEngine(t)

	// Disputed £2,000 at 20 days: probability 0.3, urgency high. Escalation
	// advice appears before the 30-day mark because urgency demands it.
	inv := models.NewInvoice("INV-102", decimal.NewFromInt(2000),
		models.Date(2025, time.June, 11), models.TierStarter)
	inv.DisputeStatus = "disputed"
	today := models.Date(2025, time.July, 1)

	eval, err := e.Evaluate(context.Background(), inv, today, false)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.Strategy.Urgency != models.UrgencyHigh {
		t.Errorf("Urgency = %q, expected high", eval.Strategy.Urgency)
	}
	if eval.Escalation == nil {
		t.Error("Expected an escalation recommendation on high urgency")
	}

	// Probability 0.3 is not below the override ceiling; day 20 fires the
	// ordinary second reminder instead
	if eval.Decision.Override {
		t.Error("Expected no urgency override at probability 0.3")
	}
	if eval.Decision.Action != models.ActionSecondReminder {
		t.Errorf("Action = %q, expected second_reminder", eval.Decision.Action)
	}
}

func TestEvaluateAlreadyActedToday(t *testing.T) {
	e := newTestEngine(t)

	inv := models.NewInvoice("INV-103", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)
	today := models.Date(2025, time.July, 8)

	eval, err := e.Evaluate(context.Background(), inv, today, true)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.Decision.Fired {
		t.Errorf("Decision fired %q despite an action earlier today", eval.Decision.Action)
	}
	if eval.Event != nil {
		t.Error("Expected no collection event when nothing fired")
	}
}

func TestEvaluateInvalidInputs(t *testing.T) {
	e := newTestEngine(t)
	today := models.Date(2025, time.July, 8)

	if _, err := e.Evaluate(context.Background(), nil, today, false); err == nil {
		t.Error("Expected an error for a nil invoice")
	}

	inv := models.NewInvoice("INV-104", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)

	_, err := e.Evaluate(context.Background(), inv, time.Time{}, false)
	if err == nil {
		t.Fatal("Expected an error for a zero evaluation date")
	}
	if !errors.HasCode(err, errors.CodeMissingField) {
		t.Errorf("Expected CodeMissingField, got %v", err)
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := models.NewInvoice("INV-105", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)

	_, err := e.Evaluate(ctx, inv, models.Date(2025, time.July, 8), false)
	if err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}

func TestEvaluateBatchCollectsFailures(t *testing.T) {
	e := newTestEngine(t)
	today := models.Date(2025, time.July, 8)

	good := models.NewInvoice("INV-200", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)
	bad := models.NewInvoice("INV-201", decimal.NewFromInt(-10),
		models.Date(2025, time.July, 1), models.TierStarter)
	acted := models.NewInvoice("INV-202", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)

	results, err := e.EvaluateBatch(context.Background(),
		[]*models.Invoice{good, bad, acted}, today,
		map[string]bool{"INV-202": true})
	if err != nil {
		t.Fatalf("EvaluateBatch failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Got %d results, expected 3", len(results))
	}

	if results[0].Err != nil || results[0].Evaluation == nil {
		t.Errorf("Expected INV-200 to evaluate, got err %v", results[0].Err)
	}

	if results[1].Err == nil {
		t.Error("Expected INV-201 to fail validation")
	}
	if results[1].InvoiceID != "INV-201" {
		t.Errorf("Failed result invoice ID = %q, expected INV-201", results[1].InvoiceID)
	}

	if results[2].Evaluation == nil {
		t.Fatal("Expected INV-202 to evaluate")
	}
	if results[2].Evaluation.Decision.Fired {
		t.Error("Expected the acted-today flag to suppress INV-202's action")
	}
}

func TestEvaluateBatchCancelledContext(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := models.NewInvoice("INV-300", decimal.NewFromInt(500),
		models.Date(2025, time.July, 1), models.TierStarter)

	results, err := e.EvaluateBatch(ctx, []*models.Invoice{inv},
		models.Date(2025, time.July, 8), nil)
	if err == nil {
		t.Error("Expected an error for a cancelled context")
	}
	if len(results) != 0 {
		t.Errorf("Got %d results, expected none", len(results))
	}
}
