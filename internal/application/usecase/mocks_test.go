package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/money"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func usd(minorUnits int64) money.Money {
	return money.New(minorUnits, money.MustCurrency("USD"))
}

// --- Mock implementations ---

type mockIntentRepo struct {
	saveFunc                  func(ctx context.Context, intent model.PaymentIntent) error
	findByExternalIDFunc      func(ctx context.Context, externalID string) (model.PaymentIntent, error)
	findActiveByProjectFunc   func(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error)
	findCapturedByProjectFunc func(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error)
	savedIntents              []model.PaymentIntent
}

func (m *mockIntentRepo) Save(ctx context.Context, intent model.PaymentIntent) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, intent)
	}
	m.savedIntents = append(m.savedIntents, intent)
	return nil
}

func (m *mockIntentRepo) FindByExternalID(ctx context.Context, externalID string) (model.PaymentIntent, error) {
	if m.findByExternalIDFunc != nil {
		return m.findByExternalIDFunc(ctx, externalID)
	}
	return model.PaymentIntent{}, payerr.E(payerr.NotFound, "payment intent %s not found", externalID)
}

func (m *mockIntentRepo) FindActiveByProject(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error) {
	if m.findActiveByProjectFunc != nil {
		return m.findActiveByProjectFunc(ctx, projectID)
	}
	return model.PaymentIntent{}, false, nil
}

func (m *mockIntentRepo) FindCapturedByProject(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error) {
	if m.findCapturedByProjectFunc != nil {
		return m.findCapturedByProjectFunc(ctx, projectID)
	}
	return model.PaymentIntent{}, false, nil
}

type mockAccountRepo struct {
	saveFunc      func(ctx context.Context, account model.RemoteAccount) error
	findByUserFunc func(ctx context.Context, userID uuid.UUID) (model.RemoteAccount, bool, error)
	savedAccounts []model.RemoteAccount
}

func (m *mockAccountRepo) Save(ctx context.Context, account model.RemoteAccount) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, account)
	}
	m.savedAccounts = append(m.savedAccounts, account)
	return nil
}

func (m *mockAccountRepo) FindByUser(ctx context.Context, userID uuid.UUID) (model.RemoteAccount, bool, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return model.RemoteAccount{}, false, nil
}

type mockChargeRepo struct {
	saveFunc       func(ctx context.Context, charge model.Charge) error
	findByIntentFunc func(ctx context.Context, intentID string) (model.Charge, bool, error)
	savedCharges   []model.Charge
}

func (m *mockChargeRepo) Save(ctx context.Context, charge model.Charge) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, charge)
	}
	m.savedCharges = append(m.savedCharges, charge)
	return nil
}

func (m *mockChargeRepo) FindByIntent(ctx context.Context, intentID string) (model.Charge, bool, error) {
	if m.findByIntentFunc != nil {
		return m.findByIntentFunc(ctx, intentID)
	}
	return model.Charge{}, false, nil
}

type mockTransferRepo struct {
	saveFunc        func(ctx context.Context, transfer model.Transfer) error
	findByProjectFunc func(ctx context.Context, projectID uuid.UUID) (model.Transfer, bool, error)
	savedTransfers  []model.Transfer
}

func (m *mockTransferRepo) Save(ctx context.Context, transfer model.Transfer) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, transfer)
	}
	m.savedTransfers = append(m.savedTransfers, transfer)
	return nil
}

func (m *mockTransferRepo) FindByProject(ctx context.Context, projectID uuid.UUID) (model.Transfer, bool, error) {
	if m.findByProjectFunc != nil {
		return m.findByProjectFunc(ctx, projectID)
	}
	return model.Transfer{}, false, nil
}

type mockPublisher struct {
	publishFunc     func(ctx context.Context, topic string, evts ...events.DomainEvent) error
	publishedTopics []string
	publishedEvents []events.DomainEvent
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, evts...)
	}
	m.publishedTopics = append(m.publishedTopics, topic)
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockOutbox struct {
	storeFunc         func(ctx context.Context, entries []events.OutboxEntry) error
	markPublishedFunc func(ctx context.Context, ids []string) error
	markedIDs         []string
}

func (m *mockOutbox) Store(ctx context.Context, entries []events.OutboxEntry) error {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, entries)
	}
	return nil
}

func (m *mockOutbox) FetchUnpublished(_ context.Context, _ time.Time, _ int) ([]events.OutboxEntry, error) {
	return nil, nil
}

func (m *mockOutbox) MarkPublished(ctx context.Context, ids []string) error {
	if m.markPublishedFunc != nil {
		return m.markPublishedFunc(ctx, ids)
	}
	m.markedIDs = append(m.markedIDs, ids...)
	return nil
}

type mockGateway struct {
	createCustomerFunc         func(ctx context.Context, userID uuid.UUID, email string) (string, error)
	createConnectedAccountFunc func(ctx context.Context, userID uuid.UUID, email string) (string, error)
	createIntentFunc           func(ctx context.Context, projectID uuid.UUID, customerID, paymentMethodID string, amount money.Money) (port.GatewayIntent, error)
	confirmIntentFunc          func(ctx context.Context, intentID string) (port.GatewayIntent, error)
	captureIntentFunc          func(ctx context.Context, intentID string) (port.GatewayIntent, error)
	cancelIntentFunc           func(ctx context.Context, intentID string) (port.GatewayIntent, error)
	retrieveIntentFunc         func(ctx context.Context, intentID string) (port.GatewayIntent, error)
	createTransferFunc         func(ctx context.Context, projectID uuid.UUID, recipientAccountID string, amount money.Money) (port.GatewayTransfer, error)
	listPaymentMethodsFunc     func(ctx context.Context, customerID string) ([]port.PaymentMethodInfo, error)
	detachPaymentMethodFunc    func(ctx context.Context, paymentMethodID string) error
	retrieveOwnerFunc          func(ctx context.Context, paymentMethodID string) (string, error)

	createCustomerCalls     int
	createAccountCalls      int
	createIntentCalls       int
	captureIntentCalls      int
	cancelIntentCalls       int
	createTransferCalls     int
	listPaymentMethodsCalls int
	detachedMethods         []string
}

func (m *mockGateway) CreateCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	m.createCustomerCalls++
	if m.createCustomerFunc != nil {
		return m.createCustomerFunc(ctx, userID, email)
	}
	return "cus_" + userID.String()[:8], nil
}

func (m *mockGateway) CreateConnectedAccount(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	m.createAccountCalls++
	if m.createConnectedAccountFunc != nil {
		return m.createConnectedAccountFunc(ctx, userID, email)
	}
	return "acct_" + userID.String()[:8], nil
}

func (m *mockGateway) CreateIntent(ctx context.Context, projectID uuid.UUID, customerID, paymentMethodID string, amount money.Money) (port.GatewayIntent, error) {
	m.createIntentCalls++
	if m.createIntentFunc != nil {
		return m.createIntentFunc(ctx, projectID, customerID, paymentMethodID, amount)
	}
	return port.GatewayIntent{ID: "pi_" + projectID.String()[:8], Amount: amount}, nil
}

func (m *mockGateway) ConfirmIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	if m.confirmIntentFunc != nil {
		return m.confirmIntentFunc(ctx, intentID)
	}
	return port.GatewayIntent{ID: intentID}, nil
}

func (m *mockGateway) CaptureIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	m.captureIntentCalls++
	if m.captureIntentFunc != nil {
		return m.captureIntentFunc(ctx, intentID)
	}
	return port.GatewayIntent{ID: intentID, ChargeID: "ch_" + intentID}, nil
}

func (m *mockGateway) CancelIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	m.cancelIntentCalls++
	if m.cancelIntentFunc != nil {
		return m.cancelIntentFunc(ctx, intentID)
	}
	return port.GatewayIntent{ID: intentID}, nil
}

func (m *mockGateway) RetrieveIntent(ctx context.Context, intentID string) (port.GatewayIntent, error) {
	if m.retrieveIntentFunc != nil {
		return m.retrieveIntentFunc(ctx, intentID)
	}
	return port.GatewayIntent{}, fmt.Errorf("intent %s unknown", intentID)
}

func (m *mockGateway) CreateTransfer(ctx context.Context, projectID uuid.UUID, recipientAccountID string, amount money.Money) (port.GatewayTransfer, error) {
	m.createTransferCalls++
	if m.createTransferFunc != nil {
		return m.createTransferFunc(ctx, projectID, recipientAccountID, amount)
	}
	return port.GatewayTransfer{ID: "tr_" + projectID.String()[:8], Amount: amount, RecipientAccountID: recipientAccountID}, nil
}

func (m *mockGateway) ListPaymentMethods(ctx context.Context, customerID string) ([]port.PaymentMethodInfo, error) {
	m.listPaymentMethodsCalls++
	if m.listPaymentMethodsFunc != nil {
		return m.listPaymentMethodsFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	if m.detachPaymentMethodFunc != nil {
		return m.detachPaymentMethodFunc(ctx, paymentMethodID)
	}
	m.detachedMethods = append(m.detachedMethods, paymentMethodID)
	return nil
}

func (m *mockGateway) RetrievePaymentMethodOwner(ctx context.Context, paymentMethodID string) (string, error) {
	if m.retrieveOwnerFunc != nil {
		return m.retrieveOwnerFunc(ctx, paymentMethodID)
	}
	return "", fmt.Errorf("payment method %s unknown", paymentMethodID)
}

type mockProjectLookup struct {
	projectByIDFunc func(ctx context.Context, projectID uuid.UUID) (port.ProjectSnapshot, error)
}

func (m *mockProjectLookup) ProjectByID(ctx context.Context, projectID uuid.UUID) (port.ProjectSnapshot, error) {
	if m.projectByIDFunc != nil {
		return m.projectByIDFunc(ctx, projectID)
	}
	return port.ProjectSnapshot{}, payerr.E(payerr.NotFound, "project %s not found", projectID)
}

type mockAccountLookup struct {
	employerCustomerIDFunc  func(ctx context.Context, userID uuid.UUID) (string, error)
	freelancerAccountIDFunc func(ctx context.Context, userID uuid.UUID) (string, error)
}

func (m *mockAccountLookup) EmployerCustomerID(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.employerCustomerIDFunc != nil {
		return m.employerCustomerIDFunc(ctx, userID)
	}
	return "cus_default", nil
}

func (m *mockAccountLookup) FreelancerAccountID(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.freelancerAccountIDFunc != nil {
		return m.freelancerAccountIDFunc(ctx, userID)
	}
	return "acct_default", nil
}
