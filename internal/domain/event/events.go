package event

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/workhub/settlement/pkg/events"
)

// Aggregate type names.
const (
	AggregateTypeRemoteAccount = "RemoteAccount"
	AggregateTypePaymentIntent = "PaymentIntent"
	AggregateTypeTransfer      = "Transfer"
)

// Event type names. Mirror-owning services consume these to update their
// read-only copies; re-delivery must always be a safe no-op on their side.
const (
	TypeEmployerAccountLinked   = "payments.employer-account-linked"
	TypeFreelancerAccountLinked = "payments.freelancer-account-linked"
	TypePaymentIntentSaved      = "payments.payment-intent-saved"
	TypePaymentIntentCancelled  = "payments.payment-intent-cancelled"
	TypeFundsTransferred        = "payments.funds-transferred"
)

// EmployerAccountLinked is emitted once when an employer's provider customer
// is created. The identity service sets its mirrored customer id if unset.
type EmployerAccountLinked struct {
	events.BaseEvent
	UserID     uuid.UUID `json:"user_id"`
	CustomerID string    `json:"customer_id"`
}

func NewEmployerAccountLinked(userID uuid.UUID, customerID string) EmployerAccountLinked {
	payload, _ := json.Marshal(struct {
		UserID     uuid.UUID `json:"user_id"`
		CustomerID string    `json:"customer_id"`
	}{userID, customerID})

	return EmployerAccountLinked{
		BaseEvent:  events.NewBaseEvent(TypeEmployerAccountLinked, customerID, AggregateTypeRemoteAccount, userID.String(), payload),
		UserID:     userID,
		CustomerID: customerID,
	}
}

// FreelancerAccountLinked is emitted once when a freelancer's connected
// account is created. The identity service sets its mirrored account id if unset.
type FreelancerAccountLinked struct {
	events.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	AccountID string    `json:"account_id"`
}

func NewFreelancerAccountLinked(userID uuid.UUID, accountID string) FreelancerAccountLinked {
	payload, _ := json.Marshal(struct {
		UserID    uuid.UUID `json:"user_id"`
		AccountID string    `json:"account_id"`
	}{userID, accountID})

	return FreelancerAccountLinked{
		BaseEvent: events.NewBaseEvent(TypeFreelancerAccountLinked, accountID, AggregateTypeRemoteAccount, userID.String(), payload),
		UserID:    userID,
		AccountID: accountID,
	}
}

// PaymentIntentSaved is emitted when an intent is confirmed for a project.
// The project service sets its mirrored intent id only if currently unset or
// already equal, which enforces at-most-one-active-intent on the owner side.
type PaymentIntentSaved struct {
	events.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	IntentID  string    `json:"intent_id"`
}

func NewPaymentIntentSaved(projectID uuid.UUID, intentID string) PaymentIntentSaved {
	payload, _ := json.Marshal(struct {
		ProjectID uuid.UUID `json:"project_id"`
		IntentID  string    `json:"intent_id"`
	}{projectID, intentID})

	return PaymentIntentSaved{
		BaseEvent: events.NewBaseEvent(TypePaymentIntentSaved, intentID, AggregateTypePaymentIntent, projectID.String(), payload),
		ProjectID: projectID,
		IntentID:  intentID,
	}
}

// PaymentIntentCancelled is emitted when an uncaptured intent is cancelled.
// The project service clears its mirrored intent id only if it still equals
// the cancelled intent.
type PaymentIntentCancelled struct {
	events.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	IntentID  string    `json:"intent_id"`
}

func NewPaymentIntentCancelled(projectID uuid.UUID, intentID string) PaymentIntentCancelled {
	payload, _ := json.Marshal(struct {
		ProjectID uuid.UUID `json:"project_id"`
		IntentID  string    `json:"intent_id"`
	}{projectID, intentID})

	return PaymentIntentCancelled{
		BaseEvent: events.NewBaseEvent(TypePaymentIntentCancelled, intentID, AggregateTypePaymentIntent, projectID.String(), payload),
		ProjectID: projectID,
		IntentID:  intentID,
	}
}

// FundsTransferred is emitted when captured funds are paid out to the
// project's freelancer. Consumed by reporting; carries no mirror mutation.
type FundsTransferred struct {
	events.BaseEvent
	ProjectID        uuid.UUID `json:"project_id"`
	TransferID       string    `json:"transfer_id"`
	AmountMinorUnits int64     `json:"amount_minor_units"`
	Currency         string    `json:"currency"`
}

func NewFundsTransferred(projectID uuid.UUID, transferID string, amountMinorUnits int64, currency string) FundsTransferred {
	payload, _ := json.Marshal(struct {
		ProjectID        uuid.UUID `json:"project_id"`
		TransferID       string    `json:"transfer_id"`
		AmountMinorUnits int64     `json:"amount_minor_units"`
		Currency         string    `json:"currency"`
	}{projectID, transferID, amountMinorUnits, currency})

	return FundsTransferred{
		BaseEvent:        events.NewBaseEvent(TypeFundsTransferred, transferID, AggregateTypeTransfer, projectID.String(), payload),
		ProjectID:        projectID,
		TransferID:       transferID,
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
	}
}
