package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workhub/settlement/internal/domain/port"
)

// Compile-time interface checks.
var (
	_ port.ProjectMirror = (*ProjectMirrorRepo)(nil)
	_ port.UserMirror    = (*UserMirrorRepo)(nil)
)

// ProjectMirrorRepo implements ProjectMirror on the project service's
// database. Both writes are single conditional UPDATEs, so concurrent and
// re-delivered events resolve without explicit locking.
type ProjectMirrorRepo struct {
	pool *pgxpool.Pool
}

func NewProjectMirrorRepo(pool *pgxpool.Pool) *ProjectMirrorRepo {
	return &ProjectMirrorRepo{pool: pool}
}

func (r *ProjectMirrorRepo) SetPaymentIntentID(ctx context.Context, projectID uuid.UUID, intentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET payment_intent_id = $2, updated_at = NOW()
		WHERE id = $1 AND (payment_intent_id IS NULL OR payment_intent_id = $2)
	`, projectID, intentID)
	if err != nil {
		return false, fmt.Errorf("set mirrored intent id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProjectMirrorRepo) ClearPaymentIntentID(ctx context.Context, projectID uuid.UUID, intentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET payment_intent_id = NULL, updated_at = NOW()
		WHERE id = $1 AND payment_intent_id = $2
	`, projectID, intentID)
	if err != nil {
		return false, fmt.Errorf("clear mirrored intent id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UserMirrorRepo implements UserMirror on the identity service's database.
// Writes are set-if-unset; a matching existing value also counts as applied
// so re-delivery is a no-op rather than a rejection.
type UserMirrorRepo struct {
	pool *pgxpool.Pool
}

func NewUserMirrorRepo(pool *pgxpool.Pool) *UserMirrorRepo {
	return &UserMirrorRepo{pool: pool}
}

func (r *UserMirrorRepo) SetCustomerID(ctx context.Context, userID uuid.UUID, customerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET customer_id = $2, updated_at = NOW()
		WHERE id = $1 AND (customer_id IS NULL OR customer_id = $2)
	`, userID, customerID)
	if err != nil {
		return false, fmt.Errorf("set mirrored customer id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserMirrorRepo) SetAccountID(ctx context.Context, userID uuid.UUID, accountID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET account_id = $2, updated_at = NOW()
		WHERE id = $1 AND (account_id IS NULL OR account_id = $2)
	`, userID, accountID)
	if err != nil {
		return false, fmt.Errorf("set mirrored account id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
