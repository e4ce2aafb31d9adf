package model

import (
	"fmt"
	"time"

	"github.com/workhub/settlement/pkg/money"
)

// Charge is the immutable record of a captured intent.
type Charge struct {
	externalID string
	intentID   string
	amount     money.Money
	status     string
	createdAt  time.Time
}

// NewCharge records a capture reported by the provider.
func NewCharge(externalID, intentID string, amount money.Money, status string) (Charge, error) {
	if externalID == "" {
		return Charge{}, fmt.Errorf("external charge ID is required")
	}
	if intentID == "" {
		return Charge{}, fmt.Errorf("intent ID is required")
	}
	if !amount.IsPositive() {
		return Charge{}, fmt.Errorf("charge amount must be positive, got: %s", amount)
	}

	return Charge{
		externalID: externalID,
		intentID:   intentID,
		amount:     amount,
		status:     status,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructCharge recreates a Charge from persistence.
func ReconstructCharge(externalID, intentID string, amount money.Money, status string, createdAt time.Time) Charge {
	return Charge{
		externalID: externalID,
		intentID:   intentID,
		amount:     amount,
		status:     status,
		createdAt:  createdAt,
	}
}

// ExternalID returns the provider-side charge id.
func (c Charge) ExternalID() string { return c.externalID }

// IntentID returns the captured intent's id.
func (c Charge) IntentID() string { return c.intentID }

// Amount returns the captured amount.
func (c Charge) Amount() money.Money { return c.amount }

// Status returns the provider-reported charge status.
func (c Charge) Status() string { return c.status }

// CreatedAt returns the capture time.
func (c Charge) CreatedAt() time.Time { return c.createdAt }
