package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/payerr"
	"github.com/workhub/settlement/internal/domain/port"
	"github.com/workhub/settlement/internal/domain/valueobject"
	pgpkg "github.com/workhub/settlement/pkg/postgres"
)

// Compile-time interface check.
var _ port.RemoteAccountRepository = (*RemoteAccountRepo)(nil)

// RemoteAccountRepo implements RemoteAccountRepository using PostgreSQL.
// The linkage row is keyed by user id, so a second Save for the same user
// surfaces as a Conflict and the caller can re-read the winning row.
type RemoteAccountRepo struct {
	pool *pgxpool.Pool
}

func NewRemoteAccountRepo(pool *pgxpool.Pool) *RemoteAccountRepo {
	return &RemoteAccountRepo{pool: pool}
}

func (r *RemoteAccountRepo) Save(ctx context.Context, account model.RemoteAccount) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO remote_accounts (user_id, external_id, kind, created_at)
			VALUES ($1, $2, $3, $4)
		`, account.UserID(), account.ExternalID(), account.Kind().String(), account.CreatedAt())
		if err != nil {
			if isUniqueViolation(err) {
				return payerr.Wrap(payerr.Conflict, err, "account linkage for user %s already exists", account.UserID())
			}
			return fmt.Errorf("insert remote account: %w", err)
		}

		return insertOutbox(ctx, tx, account.DomainEvents())
	})
}

func (r *RemoteAccountRepo) FindByUser(ctx context.Context, userID uuid.UUID) (model.RemoteAccount, bool, error) {
	var (
		externalID string
		kindStr    string
		createdAt  time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT external_id, kind, created_at
		FROM remote_accounts WHERE user_id = $1
	`, userID).Scan(&externalID, &kindStr, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RemoteAccount{}, false, nil
		}
		return model.RemoteAccount{}, false, fmt.Errorf("query remote account: %w", err)
	}

	kind, err := valueobject.ParseAccountKind(kindStr)
	if err != nil {
		return model.RemoteAccount{}, false, fmt.Errorf("stored account kind: %w", err)
	}

	return model.ReconstructRemoteAccount(userID, externalID, kind, createdAt), true, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
