// Package cron runs the daily subscription auto-order batch: every active
// subscription whose next delivery is due today is renewed by inserting a new
// pending order one delivery cycle ahead.
package cron

import (
	"context"
	"log"
	"medirural/models"
	"medirural/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStore is the persistence surface the runner needs.
type OrderStore interface {
	// DueSubscriptions returns active subscription orders whose next delivery
	// date equals day and which have not already been renewed on day.
	DueSubscriptions(ctx context.Context, day time.Time) ([]models.Order, error)

	// InsertOrder persists a new order and returns its ID.
	InsertOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error)

	// MarkRenewed records on the template order that it was renewed on day.
	MarkRenewed(ctx context.Context, id primitive.ObjectID, day time.Time) error
}

// RenewalFailure records one order that could not be renewed.
type RenewalFailure struct {
	OrderID primitive.ObjectID `json:"orderId"`
	Reason  string             `json:"reason"`
}

// Result is the outcome of one batch pass.
type Result struct {
	Renewed []primitive.ObjectID `json:"renewed"`
	Failed  []RenewalFailure     `json:"failed"`
}

// Count returns the number of renewals created.
func (r Result) Count() int {
	return len(r.Renewed)
}

// AutoOrderRunner renews due subscription orders once per day.
type AutoOrderRunner struct {
	store OrderStore
	email *utils.EmailService // optional

	// now is replaceable in tests
	now func() time.Time
}

// NewAutoOrderRunner creates a runner. email may be nil.
func NewAutoOrderRunner(store OrderStore, email *utils.EmailService) *AutoOrderRunner {
	return &AutoOrderRunner{
		store: store,
		email: email,
		now:   time.Now,
	}
}

// Run executes one batch pass. Each renewal is attempted independently: a
// failing order is recorded in the result and does not block its siblings.
// Only a failure of the due-query itself aborts the run.
func (r *AutoOrderRunner) Run(ctx context.Context) (Result, error) {
	today := models.Midnight(r.now())

	due, err := r.store.DueSubscriptions(ctx, today)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, template := range due {
		id, err := r.renew(ctx, template, today)
		if err != nil {
			log.Printf("auto-order: failed to renew order %s: %v", template.ID.Hex(), err)
			result.Failed = append(result.Failed, RenewalFailure{
				OrderID: template.ID,
				Reason:  err.Error(),
			})
			continue
		}
		result.Renewed = append(result.Renewed, id)
	}
	return result, nil
}

// renew clones the template into a fresh pending order one cycle ahead. The
// template keeps its nextDeliveryDate; it only gets lastRenewedDate stamped so
// a same-day re-run skips it.
func (r *AutoOrderRunner) renew(ctx context.Context, template models.Order, today time.Time) (primitive.ObjectID, error) {
	next := template.SubscriptionDetails.NextDeliveryAfter(template.SubscriptionDetails.NextDeliveryDate)

	order := models.Order{
		UserID:         template.UserID,
		Items:          template.Items,
		TotalAmount:    template.TotalAmount,
		Status:         models.StatusPending,
		Shipping:       template.Shipping,
		IsSubscription: true,
		SubscriptionDetails: &models.SubscriptionDetails{
			Frequency:        template.SubscriptionDetails.Frequency,
			Status:           models.SubscriptionActive,
			NextDeliveryDate: next,
		},
		PaymentDetails: template.PaymentDetails,
		CreatedAt:      r.now(),
	}

	id, err := r.store.InsertOrder(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	order.ID = id

	if err := r.store.MarkRenewed(ctx, template.ID, today); err != nil {
		// The renewal exists; a missing marker only risks a duplicate if the
		// job fires again today.
		log.Printf("auto-order: renewed order %s but failed to mark template: %v", template.ID.Hex(), err)
	}

	if r.email != nil {
		go func(o models.Order) {
			if err := r.email.SendRenewalEmail(o.Shipping.Email, o); err != nil {
				log.Printf("auto-order: failed to send renewal email to %s: %v", o.Shipping.Email, err)
			}
		}(order)
	}

	return id, nil
}

// Start blocks, firing one batch per day at hour o'clock server time, until
// ctx is cancelled.
func (r *AutoOrderRunner) Start(ctx context.Context, hour int) {
	for {
		next := r.nextFireTime(hour)
		timer := time.NewTimer(next.Sub(r.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			result, err := r.Run(ctx)
			if err != nil {
				log.Printf("auto-order: run failed: %v", err)
				continue
			}
			log.Printf("auto-order: renewed %d subscription order(s), %d failure(s)", result.Count(), len(result.Failed))
		}
	}
}

func (r *AutoOrderRunner) nextFireTime(hour int) time.Time {
	now := r.now()
	fire := models.Midnight(now).Add(time.Duration(hour) * time.Hour)
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}
