package port

import (
	"context"

	"github.com/google/uuid"
)

// ProjectMirror is the projector-side port for the project service's mirrored
// payment_intent_id field. Both operations are conditional writes so that
// re-applying a delivered event is always a no-op.
type ProjectMirror interface {
	// SetPaymentIntentID sets the mirrored intent id if it is currently unset
	// or already equal to intentID. Returns false when a different intent id
	// is already recorded (the at-most-one-active-intent guard).
	SetPaymentIntentID(ctx context.Context, projectID uuid.UUID, intentID string) (bool, error)
	// ClearPaymentIntentID clears the mirrored intent id only if it currently
	// equals intentID. Returns false when the field held a different value.
	ClearPaymentIntentID(ctx context.Context, projectID uuid.UUID, intentID string) (bool, error)
}

// UserMirror is the projector-side port for the identity service's mirrored
// provider account ids. Writes are set-if-unset.
type UserMirror interface {
	// SetCustomerID sets the employer's mirrored customer id if unset or
	// already equal. Returns false when a different id is recorded.
	SetCustomerID(ctx context.Context, userID uuid.UUID, customerID string) (bool, error)
	// SetAccountID sets the freelancer's mirrored connected account id if
	// unset or already equal. Returns false when a different id is recorded.
	SetAccountID(ctx context.Context, userID uuid.UUID, accountID string) (bool, error)
}
