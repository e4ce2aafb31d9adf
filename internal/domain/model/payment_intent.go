package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/event"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/money"
)

// PaymentIntent is the root aggregate of the settlement context. It mirrors a
// provider-side hold on the payer's card for a project's budget. At most one
// active (non-terminal) intent may exist per project; the owning project
// service enforces that when applying intent-saved events.
type PaymentIntent struct {
	externalID         string
	projectID          uuid.UUID
	payerUserID        uuid.UUID
	amount             money.Money
	status             valueobject.IntentStatus
	recipientAccountID string
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	domainEvents       []events.DomainEvent
}

// NewPaymentIntent creates an intent in CREATED status for a freshly created
// provider hold. No event is emitted until the intent is confirmed.
func NewPaymentIntent(
	externalID string,
	projectID uuid.UUID,
	payerUserID uuid.UUID,
	amount money.Money,
	recipientAccountID string,
) (PaymentIntent, error) {
	if externalID == "" {
		return PaymentIntent{}, fmt.Errorf("external intent ID is required")
	}
	if projectID == uuid.Nil {
		return PaymentIntent{}, fmt.Errorf("project ID is required")
	}
	if payerUserID == uuid.Nil {
		return PaymentIntent{}, fmt.Errorf("payer user ID is required")
	}
	if !amount.IsPositive() {
		return PaymentIntent{}, fmt.Errorf("amount must be positive, got: %s", amount)
	}

	now := time.Now().UTC()

	return PaymentIntent{
		externalID:         externalID,
		projectID:          projectID,
		payerUserID:        payerUserID,
		amount:             amount,
		status:             valueobject.IntentStatusCreated,
		recipientAccountID: recipientAccountID,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructPaymentIntent recreates a PaymentIntent from persistence (no validation, no events).
func ReconstructPaymentIntent(
	externalID string,
	projectID, payerUserID uuid.UUID,
	amount money.Money,
	status valueobject.IntentStatus,
	recipientAccountID string,
	version int,
	createdAt, updatedAt time.Time,
) PaymentIntent {
	return PaymentIntent{
		externalID:         externalID,
		projectID:          projectID,
		payerUserID:        payerUserID,
		amount:             amount,
		status:             status,
		recipientAccountID: recipientAccountID,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Confirm transitions the intent from CREATED to CONFIRMED (immutable - returns new copy).
// The emitted PaymentIntentSaved event propagates the intent id to the project mirror.
func (pi PaymentIntent) Confirm(now time.Time) (PaymentIntent, error) {
	if !pi.status.CanConfirm() {
		return PaymentIntent{}, fmt.Errorf("can only confirm from CREATED status, current: %s", pi.status)
	}

	updated := pi
	updated.status = valueobject.IntentStatusConfirmed
	updated.updatedAt = now
	updated.version++
	updated.domainEvents = append([]events.DomainEvent{}, pi.domainEvents...)
	updated.domainEvents = append(updated.domainEvents,
		event.NewPaymentIntentSaved(pi.projectID, pi.externalID),
	)
	return updated, nil
}

// Capture transitions the intent from CONFIRMED to CAPTURED (immutable - returns new copy).
// Capturing is a one-way door: there is no transition out of CAPTURED.
func (pi PaymentIntent) Capture(now time.Time) (PaymentIntent, error) {
	if !pi.status.CanCapture() {
		return PaymentIntent{}, fmt.Errorf("can only capture from CONFIRMED status, current: %s", pi.status)
	}

	updated := pi
	updated.status = valueobject.IntentStatusCaptured
	updated.updatedAt = now
	updated.version++
	updated.domainEvents = append([]events.DomainEvent{}, pi.domainEvents...)
	return updated, nil
}

// Cancel transitions an uncaptured intent to CANCELLED (immutable - returns new copy).
// The emitted PaymentIntentCancelled event clears the project mirror.
func (pi PaymentIntent) Cancel(now time.Time) (PaymentIntent, error) {
	if !pi.status.CanCancel() {
		return PaymentIntent{}, fmt.Errorf("cannot cancel intent in %s status", pi.status)
	}

	updated := pi
	updated.status = valueobject.IntentStatusCancelled
	updated.updatedAt = now
	updated.version++
	updated.domainEvents = append([]events.DomainEvent{}, pi.domainEvents...)
	updated.domainEvents = append(updated.domainEvents,
		event.NewPaymentIntentCancelled(pi.projectID, pi.externalID),
	)
	return updated, nil
}

// ExternalID returns the provider-side intent id.
func (pi PaymentIntent) ExternalID() string { return pi.externalID }

// ProjectID returns the project this intent holds funds for.
func (pi PaymentIntent) ProjectID() uuid.UUID { return pi.projectID }

// PayerUserID returns the employer who pays.
func (pi PaymentIntent) PayerUserID() uuid.UUID { return pi.payerUserID }

// Amount returns the held amount.
func (pi PaymentIntent) Amount() money.Money { return pi.amount }

// Status returns the lifecycle status.
func (pi PaymentIntent) Status() valueobject.IntentStatus { return pi.status }

// RecipientAccountID returns the freelancer's connected account id, if known
// at creation time.
func (pi PaymentIntent) RecipientAccountID() string { return pi.recipientAccountID }

// Version returns the optimistic-concurrency version.
func (pi PaymentIntent) Version() int { return pi.version }

// CreatedAt returns the creation time.
func (pi PaymentIntent) CreatedAt() time.Time { return pi.createdAt }

// UpdatedAt returns the last transition time.
func (pi PaymentIntent) UpdatedAt() time.Time { return pi.updatedAt }

// DomainEvents returns the collected domain events without clearing them.
func (pi PaymentIntent) DomainEvents() []events.DomainEvent {
	return pi.domainEvents
}

// ClearDomainEvents returns the collected events and a copy without them.
func (pi PaymentIntent) ClearDomainEvents() ([]events.DomainEvent, PaymentIntent) {
	evts := pi.domainEvents
	pi.domainEvents = nil
	return evts, pi
}
