package grpc

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/workhub/settlement/internal/application/usecase"
	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/auth"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/money"
)

// --- Mock implementations ---

type mockAccountRepo struct {
	findByUserFunc func(ctx context.Context, userID uuid.UUID) (model.RemoteAccount, bool, error)
}

func (m *mockAccountRepo) Save(_ context.Context, _ model.RemoteAccount) error { return nil }

func (m *mockAccountRepo) FindByUser(ctx context.Context, userID uuid.UUID) (model.RemoteAccount, bool, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return model.RemoteAccount{}, false, nil
}

type mockIntentRepo struct {
	findByExternalIDFunc    func(ctx context.Context, externalID string) (model.PaymentIntent, error)
	findActiveByProjectFunc func(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error)
}

func (m *mockIntentRepo) Save(_ context.Context, _ model.PaymentIntent) error { return nil }

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

func (m *mockIntentRepo) FindCapturedByProject(_ context.Context, _ uuid.UUID) (model.PaymentIntent, bool, error) {
	return model.PaymentIntent{}, false, nil
}

type mockChargeRepo struct{}

func (m *mockChargeRepo) Save(_ context.Context, _ model.Charge) error { return nil }

func (m *mockChargeRepo) FindByIntent(_ context.Context, _ string) (model.Charge, bool, error) {
	return model.Charge{}, false, nil
}

type mockTransferRepo struct{}

func (m *mockTransferRepo) Save(_ context.Context, _ model.Transfer) error { return nil }

func (m *mockTransferRepo) FindByProject(_ context.Context, _ uuid.UUID) (model.Transfer, bool, error) {
	return model.Transfer{}, false, nil
}

type mockPublisher struct{}

func (m *mockPublisher) Publish(_ context.Context, _ string, _ ...events.DomainEvent) error {
	return nil
}

type mockOutbox struct{}

func (m *mockOutbox) Store(_ context.Context, _ []events.OutboxEntry) error { return nil }

func (m *mockOutbox) FetchUnpublished(_ context.Context, _ time.Time, _ int) ([]events.OutboxEntry, error) {
	return nil, nil
}

func (m *mockOutbox) MarkPublished(_ context.Context, _ []string) error { return nil }

type mockGateway struct {
	cancelIntentCalls int
}

func (m *mockGateway) CreateCustomer(_ context.Context, userID uuid.UUID, _ string) (string, error) {
	return "cus_" + userID.String()[:8], nil
}

func (m *mockGateway) CreateConnectedAccount(_ context.Context, userID uuid.UUID, _ string) (string, error) {
	return "acct_" + userID.String()[:8], nil
}

func (m *mockGateway) CreateIntent(_ context.Context, projectID uuid.UUID, _, _ string, amount money.Money) (port.GatewayIntent, error) {
	return port.GatewayIntent{ID: "pi_" + projectID.String()[:8], Amount: amount}, nil
}

func (m *mockGateway) ConfirmIntent(_ context.Context, intentID string) (port.GatewayIntent, error) {
	return port.GatewayIntent{ID: intentID}, nil
}

func (m *mockGateway) CaptureIntent(_ context.Context, intentID string) (port.GatewayIntent, error) {
	return port.GatewayIntent{ID: intentID, Status: valueobject.IntentStatusCaptured, ChargeID: "ch_" + intentID}, nil
}

func (m *mockGateway) CancelIntent(_ context.Context, intentID string) (port.GatewayIntent, error) {
	m.cancelIntentCalls++
	return port.GatewayIntent{ID: intentID, Status: valueobject.IntentStatusCancelled}, nil
}

func (m *mockGateway) RetrieveIntent(_ context.Context, intentID string) (port.GatewayIntent, error) {
	return port.GatewayIntent{ID: intentID, Status: valueobject.IntentStatusConfirmed}, nil
}

func (m *mockGateway) CreateTransfer(_ context.Context, projectID uuid.UUID, recipientAccountID string, amount money.Money) (port.GatewayTransfer, error) {
	return port.GatewayTransfer{ID: "tr_" + projectID.String()[:8], Amount: amount, RecipientAccountID: recipientAccountID}, nil
}

func (m *mockGateway) ListPaymentMethods(_ context.Context, _ string) ([]port.PaymentMethodInfo, error) {
	return []port.PaymentMethodInfo{{ID: "pm_visa", Brand: "visa", Last4: "4242", ExpMonth: 12, ExpYear: 2030}}, nil
}

func (m *mockGateway) DetachPaymentMethod(_ context.Context, _ string) error { return nil }

func (m *mockGateway) RetrievePaymentMethodOwner(_ context.Context, _ string) (string, error) {
	return "cus_owner", nil
}

type mockProjectLookup struct {
	projectByIDFunc func(ctx context.Context, projectID uuid.UUID) (port.ProjectSnapshot, error)
}

func (m *mockProjectLookup) ProjectByID(ctx context.Context, projectID uuid.UUID) (port.ProjectSnapshot, error) {
	if m.projectByIDFunc != nil {
		return m.projectByIDFunc(ctx, projectID)
	}
	return port.ProjectSnapshot{
		ProjectID: projectID,
		Budget:    money.New(50000, money.MustCurrency("USD")),
	}, nil
}

type mockAccountLookup struct{}

func (m *mockAccountLookup) EmployerCustomerID(_ context.Context, _ uuid.UUID) (string, error) {
	return "cus_owner", nil
}

func (m *mockAccountLookup) FreelancerAccountID(_ context.Context, _ uuid.UUID) (string, error) {
	return "acct_freelancer", nil
}

// --- Helpers ---

func contextWithRoles(roles ...string) context.Context {
	claims := &auth.Claims{
		UserID: uuid.New(),
		Roles:  roles,
	}
	return auth.ContextWithClaims(context.Background(), claims)
}

type handlerFixture struct {
	handler    *SettlementHandler
	intentRepo *mockIntentRepo
	gateway    *mockGateway
}

func buildTestHandler() *handlerFixture {
	return buildHandlerWith(&mockIntentRepo{}, &mockProjectLookup{})
}

func buildHandlerWith(intentRepo *mockIntentRepo, projects *mockProjectLookup) *handlerFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accountRepo := &mockAccountRepo{}
	chargeRepo := &mockChargeRepo{}
	transferRepo := &mockTransferRepo{}
	accounts := &mockAccountLookup{}
	gateway := &mockGateway{}
	publisher := &mockPublisher{}
	outbox := &mockOutbox{}

	handler := NewSettlementHandler(
		usecase.NewEnsureAccount(accountRepo, gateway, publisher, outbox, nil, logger),
		usecase.NewPayForProject(intentRepo, projects, accounts, gateway, publisher, outbox, nil, logger),
		usecase.NewConfirmPayment(intentRepo, chargeRepo, gateway, nil, logger),
		usecase.NewCancelIntent(intentRepo, gateway, publisher, outbox, nil, logger),
		usecase.NewTransferFunds(intentRepo, chargeRepo, transferRepo, projects, accounts, gateway, publisher, outbox, nil, logger),
		usecase.NewListPaymentMethods(accounts, gateway),
		usecase.NewDetachPaymentMethod(accounts, gateway),
		logger,
	)
	return &handlerFixture{handler: handler, intentRepo: intentRepo, gateway: gateway}
}

// requireGRPCCode asserts that an error is a gRPC status error with the given code.
func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %T: %v", err, err)
	assert.Equal(t, code, st.Code(), "expected gRPC code %s, got %s: %s", code, st.Code(), st.Message())
}

// --- Tests ---

func TestEnsureAccount(t *testing.T) {
	t.Run("unauthenticated returns Unauthenticated", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.EnsureAccount(context.Background(), &EnsureAccountRequest{
			Email: "dev@example.com", Kind: "EMPLOYER",
		})
		requireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.EnsureAccount(contextWithRoles(auth.RoleEmployer), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("happy path defaults to caller identity", func(t *testing.T) {
		f := buildTestHandler()
		resp, err := f.handler.EnsureAccount(contextWithRoles(auth.RoleEmployer), &EnsureAccountRequest{
			Email: "dev@example.com", Kind: "EMPLOYER",
		})
		require.NoError(t, err)
		assert.True(t, resp.Created)
		assert.Equal(t, "EMPLOYER", resp.Kind)
		assert.NotEmpty(t, resp.ExternalAccountID)
	})

	t.Run("non-admin cannot provision for another user", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.EnsureAccount(contextWithRoles(auth.RoleEmployer), &EnsureAccountRequest{
			UserID: uuid.New().String(),
			Email:  "dev@example.com", Kind: "EMPLOYER",
		})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("admin may provision for another user", func(t *testing.T) {
		f := buildTestHandler()
		target := uuid.New()
		resp, err := f.handler.EnsureAccount(contextWithRoles(auth.RoleAdmin), &EnsureAccountRequest{
			UserID: target.String(),
			Email:  "dev@example.com", Kind: "FREELANCER",
		})
		require.NoError(t, err)
		assert.Equal(t, target.String(), resp.UserID)
	})

	t.Run("invalid kind returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.EnsureAccount(contextWithRoles(auth.RoleEmployer), &EnsureAccountRequest{
			Email: "dev@example.com", Kind: "PARTNER",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})
}

func TestPayForProject(t *testing.T) {
	t.Run("freelancer role is rejected", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.PayForProject(contextWithRoles(auth.RoleFreelancer), &PayForProjectRequest{
			ProjectID:       uuid.New().String(),
			PaymentMethodID: "pm_visa",
		})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("invalid project_id returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.PayForProject(contextWithRoles(auth.RoleEmployer), &PayForProjectRequest{
			ProjectID:       "not-a-uuid",
			PaymentMethodID: "pm_visa",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("missing payment_method_id returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.PayForProject(contextWithRoles(auth.RoleEmployer), &PayForProjectRequest{
			ProjectID: uuid.New().String(),
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("happy path returns confirmed intent", func(t *testing.T) {
		f := buildTestHandler()
		resp, err := f.handler.PayForProject(contextWithRoles(auth.RoleEmployer), &PayForProjectRequest{
			ProjectID:       uuid.New().String(),
			PaymentMethodID: "pm_visa",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.IntentID)
		assert.Equal(t, int64(50000), resp.AmountMinorUnits)
		assert.Equal(t, "CONFIRMED", resp.Status)
	})

	t.Run("mirrored intent conflict returns Aborted", func(t *testing.T) {
		projects := &mockProjectLookup{
			projectByIDFunc: func(_ context.Context, projectID uuid.UUID) (port.ProjectSnapshot, error) {
				return port.ProjectSnapshot{
					ProjectID:       projectID,
					Budget:          money.New(50000, money.MustCurrency("USD")),
					PaymentIntentID: "pi_existing",
				}, nil
			},
		}
		f := buildHandlerWith(&mockIntentRepo{}, projects)
		_, err := f.handler.PayForProject(contextWithRoles(auth.RoleEmployer), &PayForProjectRequest{
			ProjectID:       uuid.New().String(),
			PaymentMethodID: "pm_visa",
		})
		requireGRPCCode(t, err, codes.Aborted)
	})
}

func TestCancelPaymentIntent(t *testing.T) {
	t.Run("employer role is rejected", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.CancelPaymentIntent(contextWithRoles(auth.RoleEmployer), &CancelPaymentIntentRequest{
			IntentID: "pi_123",
		})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("missing intent_id returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.CancelPaymentIntent(contextWithRoles(auth.RoleAdmin), &CancelPaymentIntentRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown intent returns NotFound", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.CancelPaymentIntent(contextWithRoles(auth.RoleAdmin), &CancelPaymentIntentRequest{
			IntentID: "pi_missing",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("captured intent returns Aborted", func(t *testing.T) {
		now := time.Now().UTC()
		captured := model.ReconstructPaymentIntent(
			"pi_captured", uuid.New(), uuid.New(),
			money.New(50000, money.MustCurrency("USD")),
			valueobject.IntentStatusCaptured, "acct_x", 3, now, now,
		)
		intentRepo := &mockIntentRepo{
			findByExternalIDFunc: func(_ context.Context, _ string) (model.PaymentIntent, error) {
				return captured, nil
			},
		}
		f := buildHandlerWith(intentRepo, &mockProjectLookup{})
		_, err := f.handler.CancelPaymentIntent(contextWithRoles(auth.RoleAdmin), &CancelPaymentIntentRequest{
			IntentID: "pi_captured",
		})
		requireGRPCCode(t, err, codes.Aborted)
		assert.Equal(t, 0, f.gateway.cancelIntentCalls)
	})

	t.Run("happy path cancels confirmed intent", func(t *testing.T) {
		now := time.Now().UTC()
		confirmed := model.ReconstructPaymentIntent(
			"pi_confirmed", uuid.New(), uuid.New(),
			money.New(50000, money.MustCurrency("USD")),
			valueobject.IntentStatusConfirmed, "acct_x", 2, now, now,
		)
		intentRepo := &mockIntentRepo{
			findByExternalIDFunc: func(_ context.Context, _ string) (model.PaymentIntent, error) {
				return confirmed, nil
			},
		}
		f := buildHandlerWith(intentRepo, &mockProjectLookup{})
		resp, err := f.handler.CancelPaymentIntent(contextWithRoles(auth.RoleAdmin), &CancelPaymentIntentRequest{
			IntentID: "pi_confirmed",
		})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Equal(t, 1, f.gateway.cancelIntentCalls)
	})
}

func TestTransferFunds(t *testing.T) {
	t.Run("employer role is rejected", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.TransferFunds(contextWithRoles(auth.RoleEmployer), &TransferFundsRequest{
			ProjectID: uuid.New().String(),
		})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("no captured intent returns Aborted", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.TransferFunds(contextWithRoles(auth.RoleAdmin), &TransferFundsRequest{
			ProjectID: uuid.New().String(),
		})
		requireGRPCCode(t, err, codes.Aborted)
	})
}

func TestListPaymentMethods(t *testing.T) {
	t.Run("happy path returns saved cards", func(t *testing.T) {
		f := buildTestHandler()
		resp, err := f.handler.ListPaymentMethods(contextWithRoles(auth.RoleEmployer), &ListPaymentMethodsRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Methods, 1)
		assert.Equal(t, "pm_visa", resp.Methods[0].ID)
		assert.Equal(t, "4242", resp.Methods[0].Last4)
	})

	t.Run("freelancer role is rejected", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.ListPaymentMethods(contextWithRoles(auth.RoleFreelancer), &ListPaymentMethodsRequest{})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})
}

func TestDetachPaymentMethod(t *testing.T) {
	t.Run("missing payment_method_id returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.DetachPaymentMethod(contextWithRoles(auth.RoleEmployer), &DetachPaymentMethodRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("happy path detaches owned method", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.DetachPaymentMethod(contextWithRoles(auth.RoleEmployer), &DetachPaymentMethodRequest{
			PaymentMethodID: "pm_visa",
		})
		require.NoError(t, err)
	})
}
