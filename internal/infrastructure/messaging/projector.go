package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/event"
	"github.com/workhub/settlement/internal/domain/port"
	pkgkafka "github.com/workhub/settlement/pkg/kafka"
)

// ProjectProjector applies intent lifecycle events to the project service's
// mirrored payment_intent_id field. Saved and cancelled events arrive on one
// topic keyed by project id, so per-project they are consumed in publish
// order and a cancellation can never be overtaken by the save it supersedes.
// Delivery is still at-least-once; both mirror writes are conditional, so
// re-applying a message is a no-op.
type ProjectProjector struct {
	mirror port.ProjectMirror
	logger *slog.Logger
}

func NewProjectProjector(mirror port.ProjectMirror, logger *slog.Logger) *ProjectProjector {
	return &ProjectProjector{mirror: mirror, logger: logger}
}

type intentEventBody struct {
	ProjectID uuid.UUID `json:"project_id"`
	IntentID  string    `json:"intent_id"`
}

// HandleIntentLifecycle dispatches an intent lifecycle message on its
// event_type header: saved events set the mirrored intent id, cancelled
// events clear it.
func (p *ProjectProjector) HandleIntentLifecycle(ctx context.Context, msg pkgkafka.Message) error {
	eventType := msg.Headers["event_type"]

	var body intentEventBody
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		return fmt.Errorf("decode %s event: %w", eventType, err)
	}
	if body.ProjectID == uuid.Nil || body.IntentID == "" {
		p.logger.Warn("skipping malformed intent lifecycle event",
			"event_type", eventType,
			"event_id", msg.Headers["event_id"],
		)
		return nil
	}

	switch eventType {
	case event.TypePaymentIntentSaved:
		return p.applyIntentSaved(ctx, body)
	case event.TypePaymentIntentCancelled:
		return p.applyIntentCancelled(ctx, body)
	default:
		p.logger.Warn("skipping unknown intent lifecycle event",
			"event_type", eventType,
			"event_id", msg.Headers["event_id"],
		)
		return nil
	}
}

func (p *ProjectProjector) applyIntentSaved(ctx context.Context, body intentEventBody) error {
	applied, err := p.mirror.SetPaymentIntentID(ctx, body.ProjectID, body.IntentID)
	if err != nil {
		return fmt.Errorf("set mirrored intent id: %w", err)
	}
	if !applied {
		// A different intent id is already mirrored. The settlement service
		// guards against concurrent intents, so this indicates a stale or
		// out-of-order message; drop it rather than overwrite.
		p.logger.Warn("intent-saved rejected by mirror",
			"project_id", body.ProjectID,
			"intent_id", body.IntentID,
		)
	}
	return nil
}

// applyIntentCancelled clears the mirrored intent id. The clear only applies
// while the mirror still holds the cancelled intent, so a later intent's id
// is never wiped.
func (p *ProjectProjector) applyIntentCancelled(ctx context.Context, body intentEventBody) error {
	applied, err := p.mirror.ClearPaymentIntentID(ctx, body.ProjectID, body.IntentID)
	if err != nil {
		return fmt.Errorf("clear mirrored intent id: %w", err)
	}
	if !applied {
		p.logger.Debug("intent-cancelled already applied or superseded",
			"project_id", body.ProjectID,
			"intent_id", body.IntentID,
		)
	}
	return nil
}

// IdentityProjector applies account linkage events to the identity service's
// mirrored provider account ids. Writes are set-if-unset, so re-delivery and
// the losing side of a linkage race both resolve to a no-op.
type IdentityProjector struct {
	mirror port.UserMirror
	logger *slog.Logger
}

func NewIdentityProjector(mirror port.UserMirror, logger *slog.Logger) *IdentityProjector {
	return &IdentityProjector{mirror: mirror, logger: logger}
}

// HandleEmployerLinked sets the employer's mirrored customer id.
func (p *IdentityProjector) HandleEmployerLinked(ctx context.Context, msg pkgkafka.Message) error {
	var body struct {
		UserID     uuid.UUID `json:"user_id"`
		CustomerID string    `json:"customer_id"`
	}
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		return fmt.Errorf("decode employer-linked event: %w", err)
	}
	if body.UserID == uuid.Nil || body.CustomerID == "" {
		p.logger.Warn("skipping malformed employer-linked event", "event_id", msg.Headers["event_id"])
		return nil
	}

	applied, err := p.mirror.SetCustomerID(ctx, body.UserID, body.CustomerID)
	if err != nil {
		return fmt.Errorf("set mirrored customer id: %w", err)
	}
	if !applied {
		p.logger.Warn("employer-linked rejected by mirror, different customer already recorded",
			"user_id", body.UserID,
			"customer_id", body.CustomerID,
		)
	}
	return nil
}

// HandleFreelancerLinked sets the freelancer's mirrored connected account id.
func (p *IdentityProjector) HandleFreelancerLinked(ctx context.Context, msg pkgkafka.Message) error {
	var body struct {
		UserID    uuid.UUID `json:"user_id"`
		AccountID string    `json:"account_id"`
	}
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		return fmt.Errorf("decode freelancer-linked event: %w", err)
	}
	if body.UserID == uuid.Nil || body.AccountID == "" {
		p.logger.Warn("skipping malformed freelancer-linked event", "event_id", msg.Headers["event_id"])
		return nil
	}

	applied, err := p.mirror.SetAccountID(ctx, body.UserID, body.AccountID)
	if err != nil {
		return fmt.Errorf("set mirrored account id: %w", err)
	}
	if !applied {
		p.logger.Warn("freelancer-linked rejected by mirror, different account already recorded",
			"user_id", body.UserID,
			"account_id", body.AccountID,
		)
	}
	return nil
}
