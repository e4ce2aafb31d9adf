package usecase

import (
	"context"
	"log/slog"

	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/pkg/events"
)

// publishAndMark delivers events that were already committed to the outbox.
// A broker failure here is a propagation inconsistency, not an operation
// failure: local and provider state are committed, so the error is logged and
// the rows stay unpublished for the outbox relay to retry. The caller's
// operation still succeeds.
func publishAndMark(
	ctx context.Context,
	publisher interface {
		Publish(ctx context.Context, topic string, events ...events.DomainEvent) error
	},
	outbox events.OutboxRepository,
	logger *slog.Logger,
	topic string,
	evts ...events.DomainEvent,
) error {
	if len(evts) == 0 {
		return nil
	}

	if err := publisher.Publish(ctx, topic, evts...); err != nil {
		perr := payerr.Wrap(payerr.Propagation, err, "publish to %s failed, outbox relay will retry", topic)
		logger.Error("event propagation failed",
			"topic", topic,
			"event_type", evts[0].EventType(),
			"error", err,
		)
		return perr
	}

	ids := make([]string, 0, len(evts))
	for _, evt := range evts {
		ids = append(ids, evt.EventID())
	}
	if err := outbox.MarkPublished(ctx, ids); err != nil {
		// Worst case the relay republishes; consumers are idempotent.
		logger.Warn("failed to mark outbox entries published", "topic", topic, "error", err)
	}
	return nil
}
