package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/observability"
)

// EnsureAccount provisions a provider account for a user exactly once and
// propagates the external id to the identity service via a linkage event.
type EnsureAccount struct {
	accountRepo port.RemoteAccountRepository
	gateway     port.PaymentGateway
	publisher   port.EventPublisher
	outbox      events.OutboxRepository
	metrics     *observability.SettlementMetrics // optional, may be nil
	logger      *slog.Logger
}

func NewEnsureAccount(
	accountRepo port.RemoteAccountRepository,
	gateway port.PaymentGateway,
	publisher port.EventPublisher,
	outbox events.OutboxRepository,
	metrics *observability.SettlementMetrics,
	logger *slog.Logger,
) *EnsureAccount {
	return &EnsureAccount{
		accountRepo: accountRepo,
		gateway:     gateway,
		publisher:   publisher,
		outbox:      outbox,
		metrics:     metrics,
		logger:      logger,
	}
}

func (uc *EnsureAccount) Execute(ctx context.Context, req dto.EnsureAccountRequest) (dto.EnsureAccountResponse, error) {
	if req.UserID == uuid.Nil {
		return dto.EnsureAccountResponse{}, payerr.E(payerr.BadRequest, "user ID is required")
	}
	kind, err := valueobject.ParseAccountKind(req.Kind)
	if err != nil {
		return dto.EnsureAccountResponse{}, payerr.Wrap(payerr.BadRequest, err, "invalid account kind")
	}

	// Idempotent short-circuit: an existing linkage is returned unchanged,
	// with no gateway call and no event.
	if existing, found, err := uc.accountRepo.FindByUser(ctx, req.UserID); err != nil {
		return dto.EnsureAccountResponse{}, payerr.Wrap(payerr.Internal, err, "load account linkage")
	} else if found {
		return dto.EnsureAccountResponse{
			UserID:            existing.UserID(),
			ExternalAccountID: existing.ExternalID(),
			Kind:              existing.Kind().String(),
			Created:           false,
		}, nil
	}

	if req.Email == "" {
		return dto.EnsureAccountResponse{}, payerr.E(payerr.BadRequest, "email is required to provision a remote account")
	}

	var externalID string
	switch kind {
	case valueobject.AccountKindEmployer:
		externalID, err = uc.gateway.CreateCustomer(ctx, req.UserID, req.Email)
	case valueobject.AccountKindFreelancer:
		externalID, err = uc.gateway.CreateConnectedAccount(ctx, req.UserID, req.Email)
	}
	if err != nil {
		return dto.EnsureAccountResponse{}, err
	}

	account, err := model.NewRemoteAccount(req.UserID, externalID, kind)
	if err != nil {
		return dto.EnsureAccountResponse{}, payerr.Wrap(payerr.Internal, err, "create account linkage")
	}

	if err := uc.accountRepo.Save(ctx, account); err != nil {
		// A concurrent EnsureAccount won the race; the remote account it
		// created is the linkage of record. The one provisioned here is
		// orphaned at the provider and left for reconciliation.
		if existing, found, ferr := uc.accountRepo.FindByUser(ctx, req.UserID); ferr == nil && found {
			uc.logger.Warn("concurrent account provisioning, keeping first linkage",
				"user_id", req.UserID,
				"orphaned_external_id", externalID,
			)
			return dto.EnsureAccountResponse{
				UserID:            existing.UserID(),
				ExternalAccountID: existing.ExternalID(),
				Kind:              existing.Kind().String(),
				Created:           false,
			}, nil
		}
		return dto.EnsureAccountResponse{}, payerr.Wrap(payerr.Internal, err, "save account linkage")
	}

	if uc.metrics != nil {
		uc.metrics.AccountsLinked.Add(ctx, 1)
	}

	topic := TopicEmployerAccountLinked
	if kind == valueobject.AccountKindFreelancer {
		topic = TopicFreelancerAccountLinked
	}
	// The linkage is committed; a publish failure must never roll back the
	// remote account. publishAndMark logs and defers to the outbox relay.
	_ = publishAndMark(ctx, uc.publisher, uc.outbox, uc.logger, topic, account.DomainEvents()...)

	return dto.EnsureAccountResponse{
		UserID:            account.UserID(),
		ExternalAccountID: account.ExternalID(),
		Kind:              account.Kind().String(),
		Created:           true,
	}, nil
}
