// Package engine coordinates the collection decision pipeline for an
// invoice: estimate the payment probability, ask the scheduler whether an
// action is due today, produce an escalation recommendation once the debt
// is in escalation territory, and compute the statutory amount owed for
// any customer-facing figure.
//
// The engine owns no durable state. Day-level idempotency flags and
// collection history belong to the caller; the engine only reads them.
package engine

import (
	"context"
	"time"

	"golang-collections-engine/internal/escalate"
	"golang-collections-engine/internal/interest"
	"golang-collections-engine/internal/models"
	"golang-collections-engine/internal/probability"
	"golang-collections-engine/internal/rates"
	"golang-collections-engine/internal/schedule"
	"golang-collections-engine/pkg/errors"
	"golang-collections-engine/pkg/logger"

	"github.com/google/uuid"
)

// escalationMinDays is the age at which an invoice enters escalation
// territory and evaluations start carrying a full escalation recommendation.
const escalationMinDays = 30

// Evaluation is one complete decision pass over an invoice
type Evaluation struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	DaysOverdue int       `json:"days_overdue"`

	Strategy probability.Strategy  `json:"strategy"`
	Decision schedule.Decision     `json:"decision"`
	Interest *interest.Calculation `json:"interest"`

	// Escalation is set once the invoice is in escalation territory or the
	// strategy urgency demands it
	Escalation *escalate.Recommendation `json:"escalation,omitempty"`

	// Event is set when the decision fired an action
	Event *CollectionEvent `json:"event,omitempty"`
}

// CollectionEvent records a fired action for the caller to execute and
// persist. The event ID is the idempotency key external executors dedupe on.
type CollectionEvent struct {
	ID        string                  `json:"id"`
	InvoiceID string                  `json:"invoice_id"`
	Action    models.CollectionAction `json:"action"`
	Channel   schedule.Channel        `json:"channel"`
	Override  bool                    `json:"override"`
	CreatedAt time.Time               `json:"created_at"`
}

// Engine wires the decision components together
type Engine struct {
	calculator *interest.Calculator
	scorer     *escalate.Scorer
	scheduler  *schedule.Scheduler
	advisor    *probability.Advisor
	log        logger.Logger
}

// Config selects the component implementations. Every field is optional;
// nil fields get the production defaults.
type Config struct {
	Calculator *interest.Calculator
	Scorer     *escalate.Scorer
	Scheduler  *schedule.Scheduler
	Estimator  probability.Estimator
}

// New creates an Engine from the config, filling in defaults
func New(cfg Config) (*Engine, error) {
	var err error

	calculator := cfg.Calculator
	if calculator == nil {
		calculator, err = interest.NewCalculator(rates.DefaultTable(), nil)
		if err != nil {
			return nil, err
		}
	}

	scorer := cfg.Scorer
	if scorer == nil {
		scorer, err = escalate.NewScorer(nil, nil)
		if err != nil {
			return nil, err
		}
	}

	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler, err = schedule.NewScheduler(nil)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		calculator: calculator,
		scorer:     scorer,
		scheduler:  scheduler,
		advisor:    probability.NewAdvisor(cfg.Estimator),
		log:        logger.GetGlobalLogger().WithComponent("engine"),
	}, nil
}

// Evaluate runs one decision pass over an invoice as of the given date.
// alreadyActedToday is the caller's record of whether any collection action
// fired for this invoice on that date.
func (e *Engine) Evaluate(ctx context.Context, inv *models.Invoice, today time.Time, alreadyActedToday bool) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, errors.CodeUnexpectedError, "evaluation cancelled")
	}

	if inv == nil {
		return nil, errors.ValidationError(errors.CodeMissingField, "invoice", nil, nil)
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if today.IsZero() {
		return nil, errors.ValidationError(errors.CodeMissingField, "evaluation_date", nil, nil).
			WithSuggestion("Pass the evaluation date explicitly; the engine never reads the wall clock")
	}

	daysOverdue := inv.DaysOverdue(today)

	strategy := e.advisor.Recommend(probability.FeaturesFromInvoice(inv, today))

	signal := &schedule.ProbabilitySignal{
		Probability: strategy.PaymentProbability,
		Urgency:     strategy.Urgency,
	}
	decision := e.scheduler.Decide(daysOverdue, inv.Tier, alreadyActedToday, signal)

	calc, err := e.calculator.Calculate(interest.Params{
		Principal:         inv.Principal,
		DueDate:           inv.DueDate,
		CurrentDate:       today,
		UseHistoricalRate: true,
	})
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{
		ID:          uuid.New().String(),
		InvoiceID:   inv.ID,
		EvaluatedAt: today,
		DaysOverdue: daysOverdue,
		Strategy:    strategy,
		Decision:    decision,
		Interest:    calc,
	}

	if daysOverdue >= escalationMinDays ||
		strategy.Urgency == models.UrgencyHigh || strategy.Urgency == models.UrgencyCritical {
		eval.Escalation = e.scorer.GenerateRecommendation(escalate.ParamsFromInvoice(inv, today))
	}

	if decision.Fired {
		eval.Event = &CollectionEvent{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			Action:    decision.Action,
			Channel:   schedule.ChannelFor(decision.Action),
			Override:  decision.Override,
			CreatedAt: today,
		}
	}

	e.log.WithFields(logger.Fields{
		"invoice_id":   inv.ID,
		"days_overdue": daysOverdue,
		"probability":  strategy.PaymentProbability,
		"fired":        decision.Fired,
		"action":       decision.Action.String(),
	}).Debug("evaluated invoice")

	return eval, nil
}

// BatchResult pairs an evaluation with the invoice it came from; Err is set
// when that invoice failed without aborting the batch.
type BatchResult struct {
	InvoiceID  string      `json:"invoice_id"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	Err        error       `json:"-"`
}

// EvaluateBatch evaluates a set of invoices sequentially, collecting
// per-invoice failures instead of stopping at the first. The context is
// checked between invoices so large batches cancel promptly.
func (e *Engine) EvaluateBatch(ctx context.Context, invoices []*models.Invoice, today time.Time, actedToday map[string]bool) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(invoices))

	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, errors.CategoryInternal, errors.CodeUnexpectedError, "batch evaluation cancelled")
		}

		id := ""
		if inv != nil {
			id = inv.ID
		}

		eval, err := e.Evaluate(ctx, inv, today, actedToday[id])
		if err != nil {
			e.log.WithError(err).WithField("invoice_id", id).Warn("invoice evaluation failed")
			results = append(results, BatchResult{InvoiceID: id, Err: err})
			continue
		}

		results = append(results, BatchResult{InvoiceID: id, Evaluation: eval})
	}

	return results, nil
}
