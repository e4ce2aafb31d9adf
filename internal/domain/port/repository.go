package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/pkg/events"
)

// PaymentIntentRepository defines persistence operations for payment intents.
// Save must persist the intent's pending domain events to the outbox within
// the same transaction as the state change.
type PaymentIntentRepository interface {
	// Save persists an intent (insert or update) together with its events.
	Save(ctx context.Context, intent model.PaymentIntent) error
	// FindByExternalID retrieves an intent by its provider-side id.
	FindByExternalID(ctx context.Context, externalID string) (model.PaymentIntent, error)
	// FindActiveByProject returns the single active (CREATED or CONFIRMED)
	// intent for a project, if one exists.
	FindActiveByProject(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error)
	// FindCapturedByProject returns the most recently captured intent for a
	// project, if one exists.
	FindCapturedByProject(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error)
}

// RemoteAccountRepository defines persistence for user↔provider account links.
type RemoteAccountRepository interface {
	// Save persists the linkage together with its events. The linkage row is
	// unique per user; saving an existing user is a conflict.
	Save(ctx context.Context, account model.RemoteAccount) error
	// FindByUser retrieves the linkage for a user, if one exists.
	FindByUser(ctx context.Context, userID uuid.UUID) (model.RemoteAccount, bool, error)
}

// ChargeRepository defines persistence for capture records.
type ChargeRepository interface {
	Save(ctx context.Context, charge model.Charge) error
	FindByIntent(ctx context.Context, intentID string) (model.Charge, bool, error)
}

// TransferRepository defines persistence for payout records.
type TransferRepository interface {
	// Save persists the transfer together with its events. Transfers are
	// unique per project; a duplicate insert must fail.
	Save(ctx context.Context, transfer model.Transfer) error
	// FindByProject retrieves the transfer for a project, if one exists.
	FindByProject(ctx context.Context, projectID uuid.UUID) (model.Transfer, bool, error)
}

// EventPublisher publishes domain events to the message broker. Publish
// returns only after the broker acknowledges delivery.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, events ...events.DomainEvent) error
}
