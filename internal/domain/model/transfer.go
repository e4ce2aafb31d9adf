package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/event"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/money"
)

// Transfer is the movement of captured funds to a freelancer's connected
// account. At most one transfer exists per completed project.
type Transfer struct {
	externalID         string
	projectID          uuid.UUID
	amount             money.Money
	recipientAccountID string
	createdAt          time.Time
	domainEvents       []events.DomainEvent
}

// NewTransfer records a provider-side transfer and emits FundsTransferred.
func NewTransfer(externalID string, projectID uuid.UUID, amount money.Money, recipientAccountID string) (Transfer, error) {
	if externalID == "" {
		return Transfer{}, fmt.Errorf("external transfer ID is required")
	}
	if projectID == uuid.Nil {
		return Transfer{}, fmt.Errorf("project ID is required")
	}
	if !amount.IsPositive() {
		return Transfer{}, fmt.Errorf("transfer amount must be positive, got: %s", amount)
	}
	if recipientAccountID == "" {
		return Transfer{}, fmt.Errorf("recipient account ID is required")
	}

	tr := Transfer{
		externalID:         externalID,
		projectID:          projectID,
		amount:             amount,
		recipientAccountID: recipientAccountID,
		createdAt:          time.Now().UTC(),
	}
	tr.domainEvents = append(tr.domainEvents,
		event.NewFundsTransferred(projectID, externalID, amount.MinorUnits(), amount.Currency().Code()),
	)

	return tr, nil
}

// ReconstructTransfer recreates a Transfer from persistence.
func ReconstructTransfer(externalID string, projectID uuid.UUID, amount money.Money, recipientAccountID string, createdAt time.Time) Transfer {
	return Transfer{
		externalID:         externalID,
		projectID:          projectID,
		amount:             amount,
		recipientAccountID: recipientAccountID,
		createdAt:          createdAt,
	}
}

// ExternalID returns the provider-side transfer id.
func (t Transfer) ExternalID() string { return t.externalID }

// ProjectID returns the settled project.
func (t Transfer) ProjectID() uuid.UUID { return t.projectID }

// Amount returns the transferred amount.
func (t Transfer) Amount() money.Money { return t.amount }

// RecipientAccountID returns the freelancer's connected account id.
func (t Transfer) RecipientAccountID() string { return t.recipientAccountID }

// CreatedAt returns the transfer time.
func (t Transfer) CreatedAt() time.Time { return t.createdAt }

// DomainEvents returns the collected domain events without clearing them.
func (t Transfer) DomainEvents() []events.DomainEvent {
	return t.domainEvents
}

// ClearDomainEvents returns the collected events and a copy without them.
func (t Transfer) ClearDomainEvents() ([]events.DomainEvent, Transfer) {
	evts := t.domainEvents
	t.domainEvents = nil
	return evts, t
}
