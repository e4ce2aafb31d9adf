package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/observability"
)

// TransferFunds pays a completed project's captured funds out to the
// assigned freelancer's connected account. Idempotent by project: a second
// invocation returns the recorded transfer without calling the gateway.
type TransferFunds struct {
	intentRepo    port.PaymentIntentRepository
	chargeRepo    port.ChargeRepository
	transferRepo  port.TransferRepository
	projectLookup port.ProjectLookup
	accountLookup port.AccountLookup
	gateway       port.PaymentGateway
	publisher     port.EventPublisher
	outbox        events.OutboxRepository
	metrics       *observability.SettlementMetrics // optional, may be nil
	logger        *slog.Logger
}

func NewTransferFunds(
	intentRepo port.PaymentIntentRepository,
	chargeRepo port.ChargeRepository,
	transferRepo port.TransferRepository,
	projectLookup port.ProjectLookup,
	accountLookup port.AccountLookup,
	gateway port.PaymentGateway,
	publisher port.EventPublisher,
	outbox events.OutboxRepository,
	metrics *observability.SettlementMetrics,
	logger *slog.Logger,
) *TransferFunds {
	return &TransferFunds{
		intentRepo:    intentRepo,
		chargeRepo:    chargeRepo,
		transferRepo:  transferRepo,
		projectLookup: projectLookup,
		accountLookup: accountLookup,
		gateway:       gateway,
		publisher:     publisher,
		outbox:        outbox,
		metrics:       metrics,
		logger:        logger,
	}
}

func (uc *TransferFunds) Execute(ctx context.Context, req dto.TransferFundsRequest) (dto.TransferFundsResponse, error) {
	if req.ProjectID == uuid.Nil {
		return dto.TransferFundsResponse{}, payerr.E(payerr.BadRequest, "project ID is required")
	}

	// Idempotent short-circuit on a prior success.
	if existing, found, err := uc.transferRepo.FindByProject(ctx, req.ProjectID); err != nil {
		return dto.TransferFundsResponse{}, payerr.Wrap(payerr.Internal, err, "load transfer")
	} else if found {
		return transferResponse(existing, false), nil
	}

	intent, found, err := uc.intentRepo.FindCapturedByProject(ctx, req.ProjectID)
	if err != nil {
		return dto.TransferFundsResponse{}, payerr.Wrap(payerr.Internal, err, "load captured intent")
	}
	if !found {
		return dto.TransferFundsResponse{}, payerr.E(payerr.Conflict,
			"project %s has no captured payment intent to settle", req.ProjectID)
	}

	charge, found, err := uc.chargeRepo.FindByIntent(ctx, intent.ExternalID())
	if err != nil {
		return dto.TransferFundsResponse{}, payerr.Wrap(payerr.Internal, err, "load charge")
	}
	if !found {
		return dto.TransferFundsResponse{}, payerr.E(payerr.Conflict,
			"intent %s is captured but has no charge record", intent.ExternalID())
	}

	// The payout never exceeds the captured charge.
	amount := intent.Amount()
	if le, err := amount.LessThanOrEqual(charge.Amount()); err != nil {
		return dto.TransferFundsResponse{}, payerr.Wrap(payerr.Internal, err, "compare amounts")
	} else if !le {
		amount = charge.Amount()
	}

	recipientAccountID := intent.RecipientAccountID()
	if recipientAccountID == "" {
		// The freelancer may have been assigned after the intent was created;
		// resolve through the authoritative snapshot.
		snapshot, err := uc.projectLookup.ProjectByID(ctx, req.ProjectID)
		if err != nil {
			return dto.TransferFundsResponse{}, err
		}
		if snapshot.FreelancerID == uuid.Nil {
			return dto.TransferFundsResponse{}, payerr.E(payerr.NotFound,
				"project %s has no assigned freelancer", req.ProjectID)
		}
		recipientAccountID, err = uc.accountLookup.FreelancerAccountID(ctx, snapshot.FreelancerID)
		if err != nil {
			return dto.TransferFundsResponse{}, err
		}
	}
	if recipientAccountID == "" {
		return dto.TransferFundsResponse{}, payerr.E(payerr.NotFound,
			"freelancer for project %s has no linked account", req.ProjectID)
	}

	gwTransfer, err := uc.gateway.CreateTransfer(ctx, req.ProjectID, recipientAccountID, amount)
	if err != nil {
		return dto.TransferFundsResponse{}, err
	}

	transfer, err := model.NewTransfer(gwTransfer.ID, req.ProjectID, amount, recipientAccountID)
	if err != nil {
		return dto.TransferFundsResponse{}, payerr.Wrap(payerr.Internal, err, "record transfer")
	}

	if err := uc.transferRepo.Save(ctx, transfer); err != nil {
		// A concurrent call won the unique-per-project insert; the gateway
		// call above was deduplicated by its idempotency key, so the two
		// invocations share one provider transfer.
		if existing, found, ferr := uc.transferRepo.FindByProject(ctx, req.ProjectID); ferr == nil && found {
			return transferResponse(existing, false), nil
		}
		return dto.TransferFundsResponse{}, payerr.Wrap(payerr.Internal, err, "save transfer")
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Add(ctx, 1)
	}
	uc.logger.Info("funds transferred",
		"project_id", req.ProjectID,
		"transfer_id", transfer.ExternalID(),
		"amount", transfer.Amount().String(),
	)

	_ = publishAndMark(ctx, uc.publisher, uc.outbox, uc.logger, TopicFundsTransferred, transfer.DomainEvents()...)

	return transferResponse(transfer, true), nil
}

func transferResponse(t model.Transfer, created bool) dto.TransferFundsResponse {
	return dto.TransferFundsResponse{
		TransferID:         t.ExternalID(),
		ProjectID:          t.ProjectID(),
		AmountMinorUnits:   t.Amount().MinorUnits(),
		Currency:           t.Amount().Currency().Code(),
		RecipientAccountID: t.RecipientAccountID(),
		Created:            created,
	}
}
