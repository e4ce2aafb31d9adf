package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/workhub/settlement/internal/application/usecase"
	"github.com/workhub/settlement/pkg/events"
	pkgkafka "github.com/workhub/settlement/pkg/kafka"
	"github.com/workhub/settlement/pkg/observability"
)

// OutboxRelay periodically re-publishes outbox entries whose synchronous
// publish failed. It only picks up entries older than the grace period so it
// never races the in-request publish path.
type OutboxRelay struct {
	outbox   events.OutboxRepository
	producer *pkgkafka.Producer
	metrics  *observability.SettlementMetrics
	logger   *slog.Logger

	interval  time.Duration
	grace     time.Duration
	batchSize int
}

func NewOutboxRelay(outbox events.OutboxRepository, producer *pkgkafka.Producer, metrics *observability.SettlementMetrics, logger *slog.Logger) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		producer:  producer,
		metrics:   metrics,
		logger:    logger,
		interval:  10 * time.Second,
		grace:     30 * time.Second,
		batchSize: 100,
	}
}

// Run processes batches until the context is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				r.logger.Error("outbox relay batch failed", "error", err)
			}
		}
	}
}

func (r *OutboxRelay) processBatch(ctx context.Context) error {
	entries, err := r.outbox.FetchUnpublished(ctx, time.Now().Add(-r.grace), r.batchSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var published []string
	for _, entry := range entries {
		topic, ok := usecase.TopicForEvent(entry.EventType)
		if !ok {
			r.logger.Error("outbox entry has unroutable event type",
				"event_id", entry.ID,
				"event_type", entry.EventType,
			)
			continue
		}

		msg := pkgkafka.Message{
			Key:   []byte(entry.PartitionKey),
			Value: entry.Payload,
			Headers: map[string]string{
				"event_type":     entry.EventType,
				"aggregate_type": entry.AggregateType,
				"event_id":       entry.ID,
			},
		}
		if err := r.producer.Publish(ctx, topic, msg); err != nil {
			if r.metrics != nil {
				r.metrics.PropagationFailures.Add(ctx, 1)
			}
			// Stop the batch here: publishing later entries ahead of this
			// one would break per-key ordering.
			r.logger.Warn("outbox relay publish failed, will retry",
				"event_id", entry.ID,
				"topic", topic,
				"error", err,
			)
			break
		}
		published = append(published, entry.ID)
	}

	if len(published) == 0 {
		return nil
	}
	if err := r.outbox.MarkPublished(ctx, published); err != nil {
		return err
	}
	r.logger.Info("outbox relay re-published events", "count", len(published))
	return nil
}
