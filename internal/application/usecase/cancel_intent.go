package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/events"
	"github.com/workhub/settlement/pkg/observability"
)

// CancelIntent is the compensation path: when a project fails or expires
// before capture, the outstanding hold is released at the gateway and the
// project's mirrored intent id is cleared via an event. Capturing is a
// one-way door, so cancelling a captured intent is rejected as a conflict.
type CancelIntent struct {
	intentRepo port.PaymentIntentRepository
	gateway    port.PaymentGateway
	publisher  port.EventPublisher
	outbox     events.OutboxRepository
	metrics    *observability.SettlementMetrics // optional, may be nil
	logger     *slog.Logger
}

func NewCancelIntent(
	intentRepo port.PaymentIntentRepository,
	gateway port.PaymentGateway,
	publisher port.EventPublisher,
	outbox events.OutboxRepository,
	metrics *observability.SettlementMetrics,
	logger *slog.Logger,
) *CancelIntent {
	return &CancelIntent{
		intentRepo: intentRepo,
		gateway:    gateway,
		publisher:  publisher,
		outbox:     outbox,
		metrics:    metrics,
		logger:     logger,
	}
}

func (uc *CancelIntent) Execute(ctx context.Context, req dto.CancelIntentRequest) (dto.CancelIntentResponse, error) {
	if req.IntentExternalID == "" {
		return dto.CancelIntentResponse{}, payerr.E(payerr.BadRequest, "intent ID is required")
	}

	intent, err := uc.intentRepo.FindByExternalID(ctx, req.IntentExternalID)
	if err != nil {
		return dto.CancelIntentResponse{}, err
	}

	if !intent.Status().CanCancel() {
		return dto.CancelIntentResponse{}, payerr.E(payerr.Conflict,
			"intent %s is %s and cannot be cancelled", intent.ExternalID(), intent.Status())
	}

	if _, err := uc.gateway.CancelIntent(ctx, intent.ExternalID()); err != nil {
		return dto.CancelIntentResponse{}, err
	}

	intent, err = intent.Cancel(time.Now().UTC())
	if err != nil {
		return dto.CancelIntentResponse{}, payerr.Wrap(payerr.Conflict, err, "cancel payment intent")
	}
	if err := uc.intentRepo.Save(ctx, intent); err != nil {
		return dto.CancelIntentResponse{}, payerr.Wrap(payerr.Internal, err, "save payment intent")
	}

	if uc.metrics != nil {
		uc.metrics.IntentsCancelled.Add(ctx, 1)
	}
	uc.logger.Info("payment intent cancelled",
		"project_id", intent.ProjectID(),
		"intent_id", intent.ExternalID(),
	)

	_ = publishAndMark(ctx, uc.publisher, uc.outbox, uc.logger, TopicPaymentIntentLifecycle, intent.DomainEvents()...)

	return dto.CancelIntentResponse{
		IntentID:  intent.ExternalID(),
		ProjectID: intent.ProjectID(),
		Status:    intent.Status().String(),
	}, nil
}
