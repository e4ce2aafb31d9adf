package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/pkg/money"
)

// Compile-time interface check.
var _ port.ChargeRepository = (*ChargeRepo)(nil)

// ChargeRepo implements ChargeRepository using PostgreSQL.
type ChargeRepo struct {
	pool *pgxpool.Pool
}

func NewChargeRepo(pool *pgxpool.Pool) *ChargeRepo {
	return &ChargeRepo{pool: pool}
}

func (r *ChargeRepo) Save(ctx context.Context, charge model.Charge) error {
	// A re-delivered capture carries the same provider charge id; keep the
	// first row.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO charges (external_id, intent_id, amount_minor_units, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO NOTHING
	`,
		charge.ExternalID(), charge.IntentID(),
		charge.Amount().MinorUnits(), charge.Amount().Currency().Code(),
		charge.Status(), charge.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert charge: %w", err)
	}
	return nil
}

func (r *ChargeRepo) FindByIntent(ctx context.Context, intentID string) (model.Charge, bool, error) {
	var (
		externalID       string
		amountMinorUnits int64
		currencyCode     string
		status           string
		createdAt        time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT external_id, amount_minor_units, currency, status, created_at
		FROM charges WHERE intent_id = $1
	`, intentID).Scan(&externalID, &amountMinorUnits, &currencyCode, &status, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Charge{}, false, nil
		}
		return model.Charge{}, false, fmt.Errorf("query charge: %w", err)
	}

	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return model.Charge{}, false, fmt.Errorf("stored currency: %w", err)
	}

	return model.ReconstructCharge(externalID, intentID, money.New(amountMinorUnits, currency), status, createdAt), true, nil
}
