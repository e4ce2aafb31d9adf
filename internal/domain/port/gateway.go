package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/money"
)

// GatewayIntent is the provider's view of a payment intent.
type GatewayIntent struct {
	ID     string
	Amount money.Money
	Status valueobject.IntentStatus
	// ChargeID is the latest charge backing the intent, set once captured.
	ChargeID string
}

// GatewayTransfer is the provider's view of a transfer.
type GatewayTransfer struct {
	ID                 string
	Amount             money.Money
	RecipientAccountID string
}

// PaymentMethodInfo describes a saved payment method at the provider.
type PaymentMethodInfo struct {
	ID       string
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}

// PaymentGateway is the boundary to the external payment provider. All
// mutating operations are idempotent-safe: implementations derive a
// provider-native idempotency key from the operation and subject id, so
// retrying a timed-out call cannot double-create remote state.
type PaymentGateway interface {
	// CreateCustomer provisions a customer object for an employer.
	CreateCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error)
	// CreateConnectedAccount provisions a payout account for a freelancer.
	CreateConnectedAccount(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// CreateIntent creates a payment intent charging the customer's saved
	// payment method, tagged with the project id as correlation metadata.
	CreateIntent(ctx context.Context, projectID uuid.UUID, customerID, paymentMethodID string, amount money.Money) (GatewayIntent, error)
	// ConfirmIntent confirms a created intent.
	ConfirmIntent(ctx context.Context, intentID string) (GatewayIntent, error)
	// CaptureIntent captures a confirmed intent.
	CaptureIntent(ctx context.Context, intentID string) (GatewayIntent, error)
	// CancelIntent cancels an uncaptured intent.
	CancelIntent(ctx context.Context, intentID string) (GatewayIntent, error)
	// RetrieveIntent fetches the provider's current view of an intent.
	RetrieveIntent(ctx context.Context, intentID string) (GatewayIntent, error)

	// CreateTransfer moves captured platform funds to a connected account.
	CreateTransfer(ctx context.Context, projectID uuid.UUID, recipientAccountID string, amount money.Money) (GatewayTransfer, error)

	// ListPaymentMethods lists the customer's saved card payment methods.
	ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethodInfo, error)
	// DetachPaymentMethod removes a saved payment method. The returned owner
	// customer id lets callers verify ownership before detaching.
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	// RetrievePaymentMethodOwner returns the customer id a method belongs to.
	RetrievePaymentMethodOwner(ctx context.Context, paymentMethodID string) (string, error)
}
