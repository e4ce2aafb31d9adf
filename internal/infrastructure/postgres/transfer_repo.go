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
	"github.com/workhub/settlement/pkg/money"
	pgpkg "github.com/workhub/settlement/pkg/postgres"
)

// Compile-time interface check.
var _ port.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implements TransferRepository using PostgreSQL. The project id
// is unique, so concurrent payouts for one project collapse to a single row
// and the loser gets a Conflict.
type TransferRepo struct {
	pool *pgxpool.Pool
}

func NewTransferRepo(pool *pgxpool.Pool) *TransferRepo {
	return &TransferRepo{pool: pool}
}

func (r *TransferRepo) Save(ctx context.Context, transfer model.Transfer) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO transfers (external_id, project_id, amount_minor_units, currency, recipient_account_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			transfer.ExternalID(), transfer.ProjectID(),
			transfer.Amount().MinorUnits(), transfer.Amount().Currency().Code(),
			transfer.RecipientAccountID(), transfer.CreatedAt(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return payerr.Wrap(payerr.Conflict, err, "transfer for project %s already exists", transfer.ProjectID())
			}
			return fmt.Errorf("insert transfer: %w", err)
		}

		return insertOutbox(ctx, tx, transfer.DomainEvents())
	})
}

func (r *TransferRepo) FindByProject(ctx context.Context, projectID uuid.UUID) (model.Transfer, bool, error) {
	var (
		externalID       string
		amountMinorUnits int64
		currencyCode     string
		recipientAcctID  string
		createdAt        time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT external_id, amount_minor_units, currency, recipient_account_id, created_at
		FROM transfers WHERE project_id = $1
	`, projectID).Scan(&externalID, &amountMinorUnits, &currencyCode, &recipientAcctID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Transfer{}, false, nil
		}
		return model.Transfer{}, false, fmt.Errorf("query transfer: %w", err)
	}

	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return model.Transfer{}, false, fmt.Errorf("stored currency: %w", err)
	}

	return model.ReconstructTransfer(externalID, projectID, money.New(amountMinorUnits, currency), recipientAcctID, createdAt), true, nil
}
