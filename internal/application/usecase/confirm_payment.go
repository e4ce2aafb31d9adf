package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/application/dto"
	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/observability"
)

// ConfirmPayment captures the project's confirmed intent and records the
// resulting charge. Idempotent: a second invocation after capture returns the
// recorded charge without touching the gateway.
type ConfirmPayment struct {
	intentRepo port.PaymentIntentRepository
	chargeRepo port.ChargeRepository
	gateway    port.PaymentGateway
	metrics    *observability.SettlementMetrics // optional, may be nil
	logger     *slog.Logger
}

func NewConfirmPayment(
	intentRepo port.PaymentIntentRepository,
	chargeRepo port.ChargeRepository,
	gateway port.PaymentGateway,
	metrics *observability.SettlementMetrics,
	logger *slog.Logger,
) *ConfirmPayment {
	return &ConfirmPayment{
		intentRepo: intentRepo,
		chargeRepo: chargeRepo,
		gateway:    gateway,
		metrics:    metrics,
		logger:     logger,
	}
}

func (uc *ConfirmPayment) Execute(ctx context.Context, req dto.ConfirmPaymentRequest) (dto.ConfirmPaymentResponse, error) {
	if req.ProjectID == uuid.Nil {
		return dto.ConfirmPaymentResponse{}, payerr.E(payerr.BadRequest, "project ID is required")
	}

	intent, found, err := uc.intentRepo.FindActiveByProject(ctx, req.ProjectID)
	if err != nil {
		return dto.ConfirmPaymentResponse{}, payerr.Wrap(payerr.Internal, err, "load payment intent")
	}
	if !found {
		// No active intent: either none was ever created, or it is already
		// captured. The latter is an idempotent success.
		if resp, ok, err := uc.capturedResponse(ctx, req.ProjectID); err != nil {
			return dto.ConfirmPaymentResponse{}, err
		} else if ok {
			return resp, nil
		}
		return dto.ConfirmPaymentResponse{}, payerr.E(payerr.NotFound, "no payment intent for project %s", req.ProjectID)
	}

	// Re-fetch the provider's view before acting; the local status may lag a
	// webhook-driven transition.
	remote, err := uc.gateway.RetrieveIntent(ctx, intent.ExternalID())
	if err != nil {
		return dto.ConfirmPaymentResponse{}, err
	}
	if !remote.Status.CanCapture() && remote.Status != valueobject.IntentStatusCaptured {
		return dto.ConfirmPaymentResponse{}, payerr.E(payerr.Conflict,
			"intent %s is %s at the provider, cannot capture", intent.ExternalID(), remote.Status)
	}

	captured := remote
	if remote.Status != valueobject.IntentStatusCaptured {
		captured, err = uc.gateway.CaptureIntent(ctx, intent.ExternalID())
		if err != nil {
			return dto.ConfirmPaymentResponse{}, err
		}
	}

	intent, err = intent.Capture(time.Now().UTC())
	if err != nil {
		return dto.ConfirmPaymentResponse{}, payerr.Wrap(payerr.Conflict, err, "capture payment intent")
	}
	if err := uc.intentRepo.Save(ctx, intent); err != nil {
		return dto.ConfirmPaymentResponse{}, payerr.Wrap(payerr.Internal, err, "save payment intent")
	}

	charge, err := model.NewCharge(captured.ChargeID, intent.ExternalID(), intent.Amount(), "succeeded")
	if err != nil {
		return dto.ConfirmPaymentResponse{}, payerr.Wrap(payerr.Internal, err, "record charge")
	}
	if err := uc.chargeRepo.Save(ctx, charge); err != nil {
		return dto.ConfirmPaymentResponse{}, payerr.Wrap(payerr.Internal, err, "save charge")
	}

	if uc.metrics != nil {
		uc.metrics.IntentsCaptured.Add(ctx, 1)
	}
	uc.logger.Info("payment intent captured",
		"project_id", req.ProjectID,
		"intent_id", intent.ExternalID(),
		"charge_id", charge.ExternalID(),
	)

	return dto.ConfirmPaymentResponse{
		IntentID:         intent.ExternalID(),
		ChargeID:         charge.ExternalID(),
		AmountMinorUnits: intent.Amount().MinorUnits(),
		Currency:         intent.Amount().Currency().Code(),
		Status:           intent.Status().String(),
	}, nil
}

// capturedResponse looks for an already-captured intent for the project so
// that re-invocations of a completed capture succeed without a gateway call.
func (uc *ConfirmPayment) capturedResponse(ctx context.Context, projectID uuid.UUID) (dto.ConfirmPaymentResponse, bool, error) {
	// The active-intent index misses terminal intents, so walk the project's
	// latest intent through the charge record.
	latest, found, err := uc.latestCapturedIntent(ctx, projectID)
	if err != nil || !found {
		return dto.ConfirmPaymentResponse{}, false, err
	}

	charge, found, err := uc.chargeRepo.FindByIntent(ctx, latest.ExternalID())
	if err != nil {
		return dto.ConfirmPaymentResponse{}, false, payerr.Wrap(payerr.Internal, err, "load charge")
	}
	if !found {
		return dto.ConfirmPaymentResponse{}, false, nil
	}

	return dto.ConfirmPaymentResponse{
		IntentID:         latest.ExternalID(),
		ChargeID:         charge.ExternalID(),
		AmountMinorUnits: latest.Amount().MinorUnits(),
		Currency:         latest.Amount().Currency().Code(),
		Status:           latest.Status().String(),
	}, true, nil
}

func (uc *ConfirmPayment) latestCapturedIntent(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error) {
	intent, found, err := uc.intentRepo.FindCapturedByProject(ctx, projectID)
	if err != nil {
		return model.PaymentIntent{}, false, payerr.Wrap(payerr.Internal, err, "load captured intent")
	}
	return intent, found, nil
}
