package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/application/usecase"
	"github.com/workhub/settlement/internal/domain/event"
	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/money"
)

func newPayForProject(
	intentRepo *mockIntentRepo,
	projects *mockProjectLookup,
	accounts *mockAccountLookup,
	gateway *mockGateway,
	publisher *mockPublisher,
) *usecase.PayForProject {
	return usecase.NewPayForProject(intentRepo, projects, accounts, gateway, publisher, &mockOutbox{}, nil, testLogger())
}

func TestPayForProject_Success(t *testing.T) {
	projectID := uuid.New()
	payerID := uuid.New()
	freelancerID := uuid.New()

	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			// A 500.00 USD budget held as 50000 minor units.
			return port.ProjectSnapshot{
				ProjectID:    projectID,
				Budget:       usd(50000),
				FreelancerID: freelancerID,
			}, nil
		},
	}
	accounts := &mockAccountLookup{
		employerCustomerIDFunc: func(_ context.Context, userID uuid.UUID) (string, error) {
			assert.Equal(t, payerID, userID)
			return "cus_employer", nil
		},
		freelancerAccountIDFunc: func(_ context.Context, userID uuid.UUID) (string, error) {
			assert.Equal(t, freelancerID, userID)
			return "acct_freelancer", nil
		},
	}
	intentRepo := &mockIntentRepo{}
	gateway := &mockGateway{
		createIntentFunc: func(_ context.Context, _ uuid.UUID, customerID, paymentMethodID string, amount money.Money) (port.GatewayIntent, error) {
			assert.Equal(t, "cus_employer", customerID)
			assert.Equal(t, "pm_card_visa", paymentMethodID)
			assert.Equal(t, int64(50000), amount.MinorUnits())
			return port.GatewayIntent{ID: "pi_hold", Amount: amount}, nil
		},
	}
	publisher := &mockPublisher{}

	uc := newPayForProject(intentRepo, projects, accounts, gateway, publisher)

	resp, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         payerID,
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_visa",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_hold", resp.IntentID)
	assert.Equal(t, int64(50000), resp.AmountMinorUnits)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "CONFIRMED", resp.Status)

	require.Len(t, intentRepo.savedIntents, 1)
	saved := intentRepo.savedIntents[0]
	assert.Equal(t, projectID, saved.ProjectID())
	assert.Equal(t, payerID, saved.PayerUserID())
	assert.Equal(t, "acct_freelancer", saved.RecipientAccountID())

	require.Len(t, publisher.publishedEvents, 1)
	assert.Equal(t, event.TypePaymentIntentSaved, publisher.publishedEvents[0].EventType())
	assert.Equal(t, []string{usecase.TopicPaymentIntentLifecycle}, publisher.publishedTopics)
}

func TestPayForProject_MirroredIntentConflict(t *testing.T) {
	projectID := uuid.New()
	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			return port.ProjectSnapshot{
				ProjectID:       projectID,
				Budget:          usd(50000),
				PaymentIntentID: "pi_existing",
			}, nil
		},
	}
	gateway := &mockGateway{}
	publisher := &mockPublisher{}

	uc := newPayForProject(&mockIntentRepo{}, projects, &mockAccountLookup{}, gateway, publisher)

	_, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_visa",
	})

	require.Error(t, err)
	assert.True(t, payerr.IsKind(err, payerr.Conflict))
	assert.Equal(t, 0, gateway.createIntentCalls)
	assert.Empty(t, publisher.publishedEvents)
}

func TestPayForProject_LocalActiveIntentConflict(t *testing.T) {
	projectID := uuid.New()
	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			return port.ProjectSnapshot{ProjectID: projectID, Budget: usd(50000)}, nil
		},
	}
	active, err := model.NewPaymentIntent("pi_active", projectID, uuid.New(), usd(50000), "")
	require.NoError(t, err)
	intentRepo := &mockIntentRepo{
		findActiveByProjectFunc: func(_ context.Context, _ uuid.UUID) (model.PaymentIntent, bool, error) {
			return active, true, nil
		},
	}
	gateway := &mockGateway{}

	uc := newPayForProject(intentRepo, projects, &mockAccountLookup{}, gateway, &mockPublisher{})

	_, err = uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_visa",
	})

	require.Error(t, err)
	assert.True(t, payerr.IsKind(err, payerr.Conflict))
	assert.Equal(t, 0, gateway.createIntentCalls)
}

func TestPayForProject_ProviderDeclineLeavesNoState(t *testing.T) {
	projectID := uuid.New()
	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			return port.ProjectSnapshot{ProjectID: projectID, Budget: usd(50000)}, nil
		},
	}
	intentRepo := &mockIntentRepo{}
	gateway := &mockGateway{
		createIntentFunc: func(_ context.Context, _ uuid.UUID, _, _ string, _ money.Money) (port.GatewayIntent, error) {
			return port.GatewayIntent{}, payerr.E(payerr.Provider, "card declined")
		},
	}
	publisher := &mockPublisher{}

	uc := newPayForProject(intentRepo, projects, &mockAccountLookup{}, gateway, publisher)

	_, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_declined",
	})

	require.Error(t, err)
	assert.True(t, payerr.IsKind(err, payerr.Provider))
	assert.Empty(t, intentRepo.savedIntents)
	assert.Empty(t, publisher.publishedEvents)
}

func TestPayForProject_UnassignedFreelancerAllowed(t *testing.T) {
	projectID := uuid.New()
	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			return port.ProjectSnapshot{ProjectID: projectID, Budget: usd(20000)}, nil
		},
	}
	intentRepo := &mockIntentRepo{}

	uc := newPayForProject(intentRepo, projects, &mockAccountLookup{}, &mockGateway{}, &mockPublisher{})

	resp, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_visa",
	})

	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	require.Len(t, intentRepo.savedIntents, 1)
	assert.Empty(t, intentRepo.savedIntents[0].RecipientAccountID())
}

func TestPayForProject_UnlinkedFreelancerAccountTolerated(t *testing.T) {
	projectID := uuid.New()
	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			return port.ProjectSnapshot{ProjectID: projectID, Budget: usd(20000), FreelancerID: uuid.New()}, nil
		},
	}
	accounts := &mockAccountLookup{
		freelancerAccountIDFunc: func(_ context.Context, userID uuid.UUID) (string, error) {
			return "", payerr.E(payerr.NotFound, "freelancer %s has no linked account", userID)
		},
	}
	intentRepo := &mockIntentRepo{}

	uc := newPayForProject(intentRepo, projects, accounts, &mockGateway{}, &mockPublisher{})

	resp, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_visa",
	})

	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	require.Len(t, intentRepo.savedIntents, 1)
	assert.Empty(t, intentRepo.savedIntents[0].RecipientAccountID())
}

func TestPayForProject_UnlinkedPayerRejected(t *testing.T) {
	projectID := uuid.New()
	projects := &mockProjectLookup{
		projectByIDFunc: func(_ context.Context, _ uuid.UUID) (port.ProjectSnapshot, error) {
			return port.ProjectSnapshot{ProjectID: projectID, Budget: usd(50000)}, nil
		},
	}
	// The users mirror stores the customer id as a nullable column; a user
	// row without a linkage yields an empty id, not an error.
	accounts := &mockAccountLookup{
		employerCustomerIDFunc: func(_ context.Context, _ uuid.UUID) (string, error) {
			return "", nil
		},
	}
	intentRepo := &mockIntentRepo{}
	gateway := &mockGateway{}

	uc := newPayForProject(intentRepo, projects, accounts, gateway, &mockPublisher{})

	_, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       projectID,
		PaymentMethodID: "pm_card_visa",
	})

	require.Error(t, err)
	assert.True(t, payerr.IsKind(err, payerr.NotFound))
	assert.Equal(t, 0, gateway.createIntentCalls)
	assert.Empty(t, intentRepo.savedIntents)
}

func TestPayForProject_InvalidPaymentMethodID(t *testing.T) {
	gateway := &mockGateway{}
	uc := newPayForProject(&mockIntentRepo{}, &mockProjectLookup{}, &mockAccountLookup{}, gateway, &mockPublisher{})

	_, err := uc.Execute(context.Background(), dto.PayForProjectRequest{
		PayerID:         uuid.New(),
		ProjectID:       uuid.New(),
		PaymentMethodID: "card_123; DROP TABLE intents",
	})

	require.Error(t, err)
	assert.True(t, payerr.IsKind(err, payerr.BadRequest))
	assert.Equal(t, 0, gateway.createIntentCalls)
}
