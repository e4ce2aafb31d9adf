package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/settlement/internal/domain/event"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/events"
)

// RemoteAccount links an internal user to a provider-side account: a customer
// for employers, a connected account for freelancers. Created at most once
// per user and immutable once set.
type RemoteAccount struct {
	userID       uuid.UUID
	externalID   string
	kind         valueobject.AccountKind
	createdAt    time.Time
	domainEvents []events.DomainEvent
}

// NewRemoteAccount creates a linkage for a freshly created provider account
// and records the matching linkage event.
func NewRemoteAccount(userID uuid.UUID, externalID string, kind valueobject.AccountKind) (RemoteAccount, error) {
	if userID == uuid.Nil {
		return RemoteAccount{}, fmt.Errorf("user ID is required")
	}
	if externalID == "" {
		return RemoteAccount{}, fmt.Errorf("external account ID is required")
	}
	if kind.IsZero() {
		return RemoteAccount{}, fmt.Errorf("account kind is required")
	}

	acct := RemoteAccount{
		userID:     userID,
		externalID: externalID,
		kind:       kind,
		createdAt:  time.Now().UTC(),
	}

	switch kind {
	case valueobject.AccountKindEmployer:
		acct.domainEvents = append(acct.domainEvents, event.NewEmployerAccountLinked(userID, externalID))
	case valueobject.AccountKindFreelancer:
		acct.domainEvents = append(acct.domainEvents, event.NewFreelancerAccountLinked(userID, externalID))
	}

	return acct, nil
}

// ReconstructRemoteAccount recreates a RemoteAccount from persistence.
func ReconstructRemoteAccount(userID uuid.UUID, externalID string, kind valueobject.AccountKind, createdAt time.Time) RemoteAccount {
	return RemoteAccount{
		userID:     userID,
		externalID: externalID,
		kind:       kind,
		createdAt:  createdAt,
	}
}

// UserID returns the internal user id.
func (a RemoteAccount) UserID() uuid.UUID { return a.userID }

// ExternalID returns the provider-side account id.
func (a RemoteAccount) ExternalID() string { return a.externalID }

// Kind returns the account variant.
func (a RemoteAccount) Kind() valueobject.AccountKind { return a.kind }

// CreatedAt returns the linkage time.
func (a RemoteAccount) CreatedAt() time.Time { return a.createdAt }

// DomainEvents returns the collected domain events without clearing them.
func (a RemoteAccount) DomainEvents() []events.DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents returns the collected events and a copy without them.
func (a RemoteAccount) ClearDomainEvents() ([]events.DomainEvent, RemoteAccount) {
	evts := a.domainEvents
	a.domainEvents = nil
	return evts, a
}
