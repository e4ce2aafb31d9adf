// Package stripe adapts the external Stripe API to the PaymentGateway port.
// Employers map to Stripe customers, freelancers to Express connected
// accounts, project holds to manual-capture payment intents. Every mutating
// call carries an idempotency key derived from (operation, subject id), so a
// retried step cannot double-create remote state.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v82"

	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/money"
)

// Compile-time interface check.
var _ port.PaymentGateway = (*Adapter)(nil)

// Adapter implements PaymentGateway using the Stripe API.
type Adapter struct {
	client *stripeapi.Client
	logger *slog.Logger
}

func NewAdapter(apiKey string, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: stripeapi.NewClient(apiKey),
		logger: logger,
	}
}

// idempotencyKey derives the gateway-native dedup key for an operation.
func idempotencyKey(operation, subjectID string) string {
	return fmt.Sprintf("settlement:%s:%s", operation, subjectID)
}

func (a *Adapter) CreateCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	params := &stripeapi.CustomerCreateParams{
		Email: stripeapi.String(email),
	}
	params.AddMetadata("user_id", userID.String())
	params.SetIdempotencyKey(idempotencyKey("create-customer", userID.String()))

	customer, err := a.client.V1Customers.Create(ctx, params)
	if err != nil {
		return "", a.mapError(err, "create customer")
	}

	a.logger.Info("stripe customer created", "user_id", userID, "customer_id", customer.ID)
	return customer.ID, nil
}

func (a *Adapter) CreateConnectedAccount(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	params := &stripeapi.AccountCreateParams{
		Type:  stripeapi.String(string(stripeapi.AccountTypeExpress)),
		Email: stripeapi.String(email),
		Capabilities: &stripeapi.AccountCreateCapabilitiesParams{
			Transfers: &stripeapi.AccountCreateCapabilitiesTransfersParams{
				Requested: stripeapi.Bool(true),
			},
		},
	}
	params.AddMetadata("user_id", userID.String())
	params.SetIdempotencyKey(idempotencyKey("create-account", userID.String()))

	account, err := a.client.V1Accounts.Create(ctx, params)
	if err != nil {
		return "", a.mapError(err, "create connected account")
	}

	a.logger.Info("stripe connected account created", "user_id", userID, "account_id", account.ID)
	return account.ID, nil
}

func (a *Adapter) CreateIntent(ctx context.Context, projectID uuid.UUID, customerID, paymentMethodID string, amount money.Money) (port.GatewayIntent, error) {
	params := &stripeapi.PaymentIntentCreateParams{
		Amount:        stripeapi.Int64(amount.MinorUnits()),
		Currency:      stripeapi.String(string(stripeapi.Currency(amount.Currency().Code()))),
		Customer:      stripeapi.String(customerID),
		PaymentMethod: stripeapi.String(paymentMethodID),
		CaptureMethod: stripeapi.String(string(stripeapi.PaymentIntentCaptureMethodManual)),
	}
	params.AddMetadata("project_id", projectID.String())
	params.SetIdempotencyKey(idempotencyKey("create-intent", projectID.String()))

	pi, err := a.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return port.GatewayIntent{}, a.mapError(err, "create payment intent")
	}

	return a.toGatewayIntent(pi, amount.Currency())
}

func (a *Adapter) ConfirmIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	params := &stripeapi.PaymentIntentConfirmParams{}
	params.SetIdempotencyKey(idempotencyKey("confirm-intent", intentID))

	pi, err := a.client.V1PaymentIntents.Confirm(ctx, intentID, params)
	if err != nil {
		return port.GatewayIntent{}, a.mapError(err, "confirm payment intent")
	}

	return a.toGatewayIntent(pi, money.Currency{})
}

func (a *Adapter) CaptureIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	params := &stripeapi.PaymentIntentCaptureParams{}
	params.SetIdempotencyKey(idempotencyKey("capture-intent", intentID))

	pi, err := a.client.V1PaymentIntents.Capture(ctx, intentID, params)
	if err != nil {
		return port.GatewayIntent{}, a.mapError(err, "capture payment intent")
	}

	return a.toGatewayIntent(pi, money.Currency{})
}

func (a *Adapter) CancelIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	params := &stripeapi.PaymentIntentCancelParams{}
	params.SetIdempotencyKey(idempotencyKey("cancel-intent", intentID))

	pi, err := a.client.V1PaymentIntents.Cancel(ctx, intentID, params)
	if err != nil {
		return port.GatewayIntent{}, a.mapError(err, "cancel payment intent")
	}

	return a.toGatewayIntent(pi, money.Currency{})
}

func (a *Adapter) RetrieveIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	pi, err := a.client.V1PaymentIntents.Retrieve(ctx, intentID, nil)
	if err != nil {
		return port.GatewayIntent{}, a.mapError(err, "retrieve payment intent")
	}

	return a.toGatewayIntent(pi, money.Currency{})
}

func (a *Adapter) CreateTransfer(ctx context.Context, projectID uuid.UUID, recipientAccountID string, amount money.Money) (port.GatewayTransfer, error) {
	params := &stripeapi.TransferCreateParams{
		Amount:      stripeapi.Int64(amount.MinorUnits()),
		Currency:    stripeapi.String(string(stripeapi.Currency(amount.Currency().Code()))),
		Destination: stripeapi.String(recipientAccountID),
	}
	params.AddMetadata("project_id", projectID.String())
	params.SetIdempotencyKey(idempotencyKey("transfer", projectID.String()))

	transfer, err := a.client.V1Transfers.Create(ctx, params)
	if err != nil {
		return port.GatewayTransfer{}, a.mapError(err, "create transfer")
	}

	a.logger.Info("stripe transfer created",
		"project_id", projectID,
		"transfer_id", transfer.ID,
		"destination", recipientAccountID,
	)

	return port.GatewayTransfer{
		ID:                 transfer.ID,
		Amount:             money.New(transfer.Amount, amount.Currency()),
		RecipientAccountID: recipientAccountID,
	}, nil
}

func (a *Adapter) ListPaymentMethods(ctx context.Context, customerID string) ([]port.PaymentMethodInfo, error) {
	params := &stripeapi.PaymentMethodListParams{
		Customer: stripeapi.String(customerID),
		Type:     stripeapi.String(string(stripeapi.PaymentMethodTypeCard)),
	}

	var methods []port.PaymentMethodInfo
	for pm, err := range a.client.V1PaymentMethods.List(ctx, params) {
		if err != nil {
			return nil, a.mapError(err, "list payment methods")
		}
		info := port.PaymentMethodInfo{ID: pm.ID}
		if pm.Card != nil {
			info.Brand = string(pm.Card.Brand)
			info.Last4 = pm.Card.Last4
			info.ExpMonth = pm.Card.ExpMonth
			info.ExpYear = pm.Card.ExpYear
		}
		methods = append(methods, info)
	}
	return methods, nil
}

func (a *Adapter) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripeapi.PaymentMethodDetachParams{}
	params.SetIdempotencyKey(idempotencyKey("detach-method", paymentMethodID))

	if _, err := a.client.V1PaymentMethods.Detach(ctx, paymentMethodID, params); err != nil {
		return a.mapError(err, "detach payment method")
	}
	return nil
}

func (a *Adapter) RetrievePaymentMethodOwner(ctx context.Context, paymentMethodID string) (string, error) {
	pm, err := a.client.V1PaymentMethods.Retrieve(ctx, paymentMethodID, nil)
	if err != nil {
		return "", a.mapError(err, "retrieve payment method")
	}
	if pm.Customer == nil {
		return "", nil
	}
	return pm.Customer.ID, nil
}

// toGatewayIntent converts Stripe's intent representation. The currency hint
// is used when the caller already knows it; otherwise Stripe's value is parsed.
func (a *Adapter) toGatewayIntent(pi *stripeapi.PaymentIntent, currencyHint money.Currency) (port.GatewayIntent, error) {
	currency := currencyHint
	if currency.Code() == "" {
		var err error
		currency, err = money.NewCurrency(strings.ToUpper(string(pi.Currency)))
		if err != nil {
			return port.GatewayIntent{}, payerr.Wrap(payerr.Provider, err, "unexpected currency from gateway")
		}
	}

	intent := port.GatewayIntent{
		ID:     pi.ID,
		Amount: money.New(pi.Amount, currency),
		Status: mapIntentStatus(pi.Status),
	}
	if pi.LatestCharge != nil {
		intent.ChargeID = pi.LatestCharge.ID
	}
	return intent, nil
}

// mapIntentStatus folds Stripe's intent statuses onto the domain lifecycle.
// A manual-capture intent sits in requires_capture between confirmation and
// capture, which is the domain's CONFIRMED.
func mapIntentStatus(s stripeapi.PaymentIntentStatus) valueobject.IntentStatus {
	switch s {
	case stripeapi.PaymentIntentStatusRequiresCapture, stripeapi.PaymentIntentStatusProcessing:
		return valueobject.IntentStatusConfirmed
	case stripeapi.PaymentIntentStatusSucceeded:
		return valueobject.IntentStatusCaptured
	case stripeapi.PaymentIntentStatusCanceled:
		return valueobject.IntentStatusCancelled
	default:
		return valueobject.IntentStatusCreated
	}
}

// mapError classifies a Stripe failure. Card declines and invalid requests
// reflect real-world state and surface as Provider errors; connection and
// API failures are transient and retryable.
func (a *Adapter) mapError(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return payerr.Wrap(payerr.Unavailable, err, "stripe %s timed out", op)
	}

	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripeapi.ErrorTypeCard, stripeapi.ErrorTypeInvalidRequest:
			return payerr.Wrap(payerr.Provider, err, "stripe rejected %s", op)
		case stripeapi.ErrorTypeAPI:
			return payerr.Wrap(payerr.Unavailable, err, "stripe %s failed", op)
		}
	}

	return payerr.Wrap(payerr.Unavailable, err, "stripe %s failed", op)
}
