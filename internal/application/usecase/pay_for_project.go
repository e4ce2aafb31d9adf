package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/observability"
)

var paymentMethodIDRe = regexp.MustCompile(`^pm_[A-Za-z0-9]+$`)

// PayForProject is the saga core: it enforces at-most-one-active-intent per
// project, re-fetches authoritative project and payer data, creates and
// confirms a provider hold for the budget, and propagates the intent id to
// the project service via an event.
type PayForProject struct {
	intentRepo    port.PaymentIntentRepository
	projectLookup port.ProjectLookup
	accountLookup port.AccountLookup
	gateway       port.PaymentGateway
	publisher     port.EventPublisher
	outbox        events.OutboxRepository
	metrics       *observability.SettlementMetrics // optional, may be nil
	logger        *slog.Logger
}

func NewPayForProject(
	intentRepo port.PaymentIntentRepository,
	projectLookup port.ProjectLookup,
	accountLookup port.AccountLookup,
	gateway port.PaymentGateway,
	publisher port.EventPublisher,
	outbox events.OutboxRepository,
	metrics *observability.SettlementMetrics,
	logger *slog.Logger,
) *PayForProject {
	return &PayForProject{
		intentRepo:    intentRepo,
		projectLookup: projectLookup,
		accountLookup: accountLookup,
		gateway:       gateway,
		publisher:     publisher,
		outbox:        outbox,
		metrics:       metrics,
		logger:        logger,
	}
}

func (uc *PayForProject) Execute(ctx context.Context, req dto.PayForProjectRequest) (dto.PayForProjectResponse, error) {
	if req.PayerID == uuid.Nil {
		return dto.PayForProjectResponse{}, payerr.E(payerr.BadRequest, "payer ID is required")
	}
	if req.ProjectID == uuid.Nil {
		return dto.PayForProjectResponse{}, payerr.E(payerr.BadRequest, "project ID is required")
	}
	if !paymentMethodIDRe.MatchString(req.PaymentMethodID) {
		return dto.PayForProjectResponse{}, payerr.E(payerr.BadRequest, "invalid payment method ID: %q", req.PaymentMethodID)
	}

	// Step 1: authoritative snapshot. The project service owns budget and
	// current-intent data; it is always re-fetched, never cached.
	snapshot, err := uc.projectLookup.ProjectByID(ctx, req.ProjectID)
	if err != nil {
		return dto.PayForProjectResponse{}, err
	}
	if snapshot.PaymentIntentID != "" {
		return dto.PayForProjectResponse{}, payerr.E(payerr.Conflict,
			"project %s already has payment intent %s", req.ProjectID, snapshot.PaymentIntentID)
	}
	if !snapshot.Budget.IsPositive() {
		return dto.PayForProjectResponse{}, payerr.E(payerr.BadRequest,
			"project %s has no positive budget", req.ProjectID)
	}

	// Local guard against an intent the mirror has not caught up with yet.
	if _, active, err := uc.intentRepo.FindActiveByProject(ctx, req.ProjectID); err != nil {
		return dto.PayForProjectResponse{}, payerr.Wrap(payerr.Internal, err, "check active intent")
	} else if active {
		return dto.PayForProjectResponse{}, payerr.E(payerr.Conflict,
			"project %s already has an active payment intent", req.ProjectID)
	}

	// Step 2: resolve provider-side parties.
	customerID, err := uc.accountLookup.EmployerCustomerID(ctx, req.PayerID)
	if err != nil {
		return dto.PayForProjectResponse{}, err
	}
	if customerID == "" {
		return dto.PayForProjectResponse{}, payerr.E(payerr.NotFound,
			"payer %s has no linked customer", req.PayerID)
	}

	var recipientAccountID string
	if snapshot.FreelancerID != uuid.Nil {
		recipientAccountID, err = uc.accountLookup.FreelancerAccountID(ctx, snapshot.FreelancerID)
		if err != nil && payerr.KindOf(err) != payerr.NotFound {
			return dto.PayForProjectResponse{}, err
		}
		// A freelancer without a linked account does not block payment; the
		// account is required only at settlement time.
	}

	// Step 3: create and confirm the hold at the gateway. A rejection here
	// (declined card) leaves no local state and publishes nothing.
	created, err := uc.gateway.CreateIntent(ctx, req.ProjectID, customerID, req.PaymentMethodID, snapshot.Budget)
	if err != nil {
		return dto.PayForProjectResponse{}, err
	}
	confirmed, err := uc.gateway.ConfirmIntent(ctx, created.ID)
	if err != nil {
		return dto.PayForProjectResponse{}, err
	}

	intent, err := model.NewPaymentIntent(confirmed.ID, req.ProjectID, req.PayerID, snapshot.Budget, recipientAccountID)
	if err != nil {
		return dto.PayForProjectResponse{}, payerr.Wrap(payerr.Internal, err, "create payment intent")
	}
	intent, err = intent.Confirm(time.Now().UTC())
	if err != nil {
		return dto.PayForProjectResponse{}, payerr.Wrap(payerr.Internal, err, "confirm payment intent")
	}

	// Step 4: persist intent and intent-saved event atomically, then publish.
	if err := uc.intentRepo.Save(ctx, intent); err != nil {
		return dto.PayForProjectResponse{}, payerr.Wrap(payerr.Internal, err, "save payment intent")
	}

	if uc.metrics != nil {
		uc.metrics.IntentsCreated.Add(ctx, 1)
	}

	_ = publishAndMark(ctx, uc.publisher, uc.outbox, uc.logger, TopicPaymentIntentLifecycle, intent.DomainEvents()...)

	return dto.PayForProjectResponse{
		IntentID:         intent.ExternalID(),
		ProjectID:        intent.ProjectID(),
		AmountMinorUnits: intent.Amount().MinorUnits(),
		Currency:         intent.Amount().Currency().Code(),
		Status:           intent.Status().String(),
		CreatedAt:        intent.CreatedAt(),
	}, nil
}
