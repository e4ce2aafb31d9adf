package dto

import (
	"time"

	"github.com/google/uuid"
)

// EnsureAccountRequest asks for a provider account linkage for a user.
type EnsureAccountRequest struct {
	UserID uuid.UUID
	Email  string
	Kind   string // "EMPLOYER" or "FREELANCER"
}

// EnsureAccountResponse carries the (possibly pre-existing) external id.
type EnsureAccountResponse struct {
	UserID            uuid.UUID
	ExternalAccountID string
	Kind              string
	// Created is true when this call provisioned the remote account, false
	// when the linkage already existed.
	Created bool
}

// PayForProjectRequest starts the payment saga for a project.
type PayForProjectRequest struct {
	PayerID         uuid.UUID
	ProjectID       uuid.UUID
	PaymentMethodID string
}

// PayForProjectResponse reports the confirmed intent.
type PayForProjectResponse struct {
	IntentID         string
	ProjectID        uuid.UUID
	AmountMinorUnits int64
	Currency         string
	Status           string
	CreatedAt        time.Time
}

// ConfirmPaymentRequest captures the project's confirmed intent.
type ConfirmPaymentRequest struct {
	ProjectID uuid.UUID
}

// ConfirmPaymentResponse reports the captured intent and charge.
type ConfirmPaymentResponse struct {
	IntentID         string
	ChargeID         string
	AmountMinorUnits int64
	Currency         string
	Status           string
}

// TransferFundsRequest pays out a completed project to its freelancer.
type TransferFundsRequest struct {
	ProjectID uuid.UUID
}

// TransferFundsResponse reports the (possibly pre-existing) transfer.
type TransferFundsResponse struct {
	TransferID         string
	ProjectID          uuid.UUID
	AmountMinorUnits   int64
	Currency           string
	RecipientAccountID string
	// Created is false when an earlier invocation already produced the
	// transfer and this call was an idempotent no-op.
	Created bool
}

// CancelIntentRequest compensates a failed project by cancelling its hold.
type CancelIntentRequest struct {
	IntentExternalID string
}

// CancelIntentResponse reports the cancelled intent.
type CancelIntentResponse struct {
	IntentID  string
	ProjectID uuid.UUID
	Status    string
}

// ListPaymentMethodsRequest lists an employer's saved cards.
type ListPaymentMethodsRequest struct {
	UserID uuid.UUID
}

// PaymentMethod describes one saved card.
type PaymentMethod struct {
	ID       string
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}

// ListPaymentMethodsResponse carries the saved cards.
type ListPaymentMethodsResponse struct {
	Methods []PaymentMethod
}

// DetachPaymentMethodRequest removes a saved card.
type DetachPaymentMethodRequest struct {
	UserID          uuid.UUID
	PaymentMethodID string
}
