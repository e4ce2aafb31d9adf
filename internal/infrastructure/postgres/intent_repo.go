package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/money"
	pgpkg "github.com/workhub/settlement/pkg/postgres"
)

// Compile-time interface check.
var _ port.PaymentIntentRepository = (*PaymentIntentRepo)(nil)

// PaymentIntentRepo implements PaymentIntentRepository using PostgreSQL.
type PaymentIntentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentIntentRepo(pool *pgxpool.Pool) *PaymentIntentRepo {
	return &PaymentIntentRepo{pool: pool}
}

func (r *PaymentIntentRepo) Save(ctx context.Context, intent model.PaymentIntent) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO payment_intents (
				external_id, project_id, payer_user_id,
				amount_minor_units, currency, status,
				recipient_account_id, version, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (external_id) DO UPDATE SET
				status = EXCLUDED.status,
				recipient_account_id = EXCLUDED.recipient_account_id,
				version = EXCLUDED.version,
				updated_at = EXCLUDED.updated_at
		`,
			intent.ExternalID(), intent.ProjectID(), intent.PayerUserID(),
			intent.Amount().MinorUnits(), intent.Amount().Currency().Code(), intent.Status().String(),
			intent.RecipientAccountID(), intent.Version(), intent.CreatedAt(), intent.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("upsert payment intent: %w", err)
		}

		return insertOutbox(ctx, tx, intent.DomainEvents())
	})
}

func (r *PaymentIntentRepo) FindByExternalID(ctx context.Context, externalID string) (model.PaymentIntent, error) {
	intent, err := r.scanIntent(r.pool.QueryRow(ctx, `
		SELECT external_id, project_id, payer_user_id,
			amount_minor_units, currency, status,
			recipient_account_id, version, created_at, updated_at
		FROM payment_intents WHERE external_id = $1
	`, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PaymentIntent{}, payerr.E(payerr.NotFound, "payment intent %s not found", externalID)
		}
		return model.PaymentIntent{}, fmt.Errorf("query payment intent: %w", err)
	}
	return intent, nil
}

func (r *PaymentIntentRepo) FindActiveByProject(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error) {
	intent, err := r.scanIntent(r.pool.QueryRow(ctx, `
		SELECT external_id, project_id, payer_user_id,
			amount_minor_units, currency, status,
			recipient_account_id, version, created_at, updated_at
		FROM payment_intents
		WHERE project_id = $1 AND status IN ('CREATED', 'CONFIRMED')
		ORDER BY created_at DESC
		LIMIT 1
	`, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PaymentIntent{}, false, nil
		}
		return model.PaymentIntent{}, false, fmt.Errorf("query active payment intent: %w", err)
	}
	return intent, true, nil
}

func (r *PaymentIntentRepo) FindCapturedByProject(ctx context.Context, projectID uuid.UUID) (model.PaymentIntent, bool, error) {
	intent, err := r.scanIntent(r.pool.QueryRow(ctx, `
		SELECT external_id, project_id, payer_user_id,
			amount_minor_units, currency, status,
			recipient_account_id, version, created_at, updated_at
		FROM payment_intents
		WHERE project_id = $1 AND status = 'CAPTURED'
		ORDER BY updated_at DESC
		LIMIT 1
	`, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PaymentIntent{}, false, nil
		}
		return model.PaymentIntent{}, false, fmt.Errorf("query captured payment intent: %w", err)
	}
	return intent, true, nil
}

func (r *PaymentIntentRepo) scanIntent(row pgx.Row) (model.PaymentIntent, error) {
	var (
		externalID       string
		projectID        uuid.UUID
		payerUserID      uuid.UUID
		amountMinorUnits int64
		currencyCode     string
		statusStr        string
		recipientAcctID  string
		version          int
		createdAt        time.Time
		updatedAt        time.Time
	)

	if err := row.Scan(
		&externalID, &projectID, &payerUserID,
		&amountMinorUnits, &currencyCode, &statusStr,
		&recipientAcctID, &version, &createdAt, &updatedAt,
	); err != nil {
		return model.PaymentIntent{}, err
	}

	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return model.PaymentIntent{}, fmt.Errorf("stored currency: %w", err)
	}
	status, err := valueobject.ParseIntentStatus(statusStr)
	if err != nil {
		return model.PaymentIntent{}, fmt.Errorf("stored status: %w", err)
	}

	return model.ReconstructPaymentIntent(
		externalID, projectID, payerUserID,
		money.New(amountMinorUnits, currency), status,
		recipientAcctID, version, createdAt, updatedAt,
	), nil
}
