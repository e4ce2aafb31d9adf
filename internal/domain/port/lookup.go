package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/settlement/pkg/money"
)

// ProjectSnapshot is the project service's authoritative view of a project.
// The settlement context never owns this data; it re-fetches it before acting.
type ProjectSnapshot struct {
	ProjectID       uuid.UUID
	Budget          money.Money
	FreelancerID    uuid.UUID // uuid.Nil when unassigned
	PaymentIntentID string    // mirrored id, empty when no intent is active
}

// ProjectLookup fetches project snapshots from the project service.
type ProjectLookup interface {
	ProjectByID(ctx context.Context, projectID uuid.UUID) (ProjectSnapshot, error)
}

// AccountLookup resolves provider-side ids mirrored into the identity service.
type AccountLookup interface {
	// EmployerCustomerID returns the employer's mirrored customer id.
	EmployerCustomerID(ctx context.Context, userID uuid.UUID) (string, error)
	// FreelancerAccountID returns the freelancer's mirrored connected account id.
	FreelancerAccountID(ctx context.Context, userID uuid.UUID) (string, error)
}
