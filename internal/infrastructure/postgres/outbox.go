// Package postgres implements the settlement persistence ports on PostgreSQL
// using pgx. Aggregate saves write the aggregate's pending domain events to
// the outbox table inside the same transaction, so a state change and its
// events are committed or rolled back together.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workhub/settlement/pkg/events"
	pgpkg "github.com/workhub/settlement/pkg/postgres"
)

// insertOutbox writes the events to the outbox within the caller's transaction.
func insertOutbox(ctx context.Context, tx pgpkg.Querier, evts []events.DomainEvent) error {
	for _, evt := range evts {
		payload, merr := json.Marshal(evt)
		if merr != nil {
			return fmt.Errorf("marshal outbox event: %w", merr)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, partition_key, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, evt.EventID(), evt.AggregateID(), evt.AggregateType(), evt.EventType(), evt.PartitionKey(), payload, evt.OccurredAt())
		if err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
	}
	return nil
}

// Compile-time interface check.
var _ events.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo implements OutboxRepository using PostgreSQL.
type OutboxRepo struct {
	pool *pgxpool.Pool
}

func NewOutboxRepo(pool *pgxpool.Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, entry := range entries {
			_, err := tx.Exec(ctx, `
				INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, partition_key, payload, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO NOTHING
			`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.PartitionKey, entry.Payload, entry.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert outbox entry: %w", err)
			}
		}
		return nil
	})
}

func (r *OutboxRepo) FetchUnpublished(ctx context.Context, before time.Time, batchSize int) ([]events.OutboxEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, partition_key, payload, created_at
		FROM outbox
		WHERE published_at IS NULL AND created_at < $1
		ORDER BY created_at, id
		LIMIT $2
	`, before, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query unpublished outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var entry events.OutboxEntry
		if err := rows.Scan(
			&entry.ID, &entry.AggregateID, &entry.AggregateType,
			&entry.EventType, &entry.PartitionKey, &entry.Payload, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}

	return entries, nil
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox SET published_at = NOW() WHERE id = ANY($1) AND published_at IS NULL
	`, ids)
	if err != nil {
		return fmt.Errorf("mark outbox entries published: %w", err)
	}
	return nil
}
