package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhub/settlement/internal/domain/model"
	"github.com/workhub/settlement/internal/domain/valueobject"
	"github.com/workhub/settlement/pkg/money"
)

func usd(minorUnits int64) money.Money {
	return money.New(minorUnits, money.MustCurrency("USD"))
}

func newTestIntent(t *testing.T) model.PaymentIntent {
	t.Helper()
	intent, err := model.NewPaymentIntent("pi_test", uuid.New(), uuid.New(), usd(50000), "acct_test")
	require.NoError(t, err)
	return intent
}

func TestNewPaymentIntent_Valid(t *testing.T) {
	projectID := uuid.New()
	payerID := uuid.New()

	intent, err := model.NewPaymentIntent("pi_test", projectID, payerID, usd(50000), "acct_test")
	require.NoError(t, err)

	assert.Equal(t, "pi_test", intent.ExternalID())
	assert.Equal(t, projectID, intent.ProjectID())
	assert.Equal(t, payerID, intent.PayerUserID())
	assert.Equal(t, int64(50000), intent.Amount().MinorUnits())
	assert.Equal(t, valueobject.IntentStatusCreated, intent.Status())
	assert.Equal(t, "acct_test", intent.RecipientAccountID())
	assert.Equal(t, 1, intent.Version())
	assert.False(t, intent.CreatedAt().IsZero())

	// No event until the hold is confirmed.
	assert.Empty(t, intent.DomainEvents())
}

func TestNewPaymentIntent_MissingExternalID(t *testing.T) {
	_, err := model.NewPaymentIntent("", uuid.New(), uuid.New(), usd(100), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "external intent ID is required")
}

func TestNewPaymentIntent_MissingProjectID(t *testing.T) {
	_, err := model.NewPaymentIntent("pi_test", uuid.Nil, uuid.New(), usd(100), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project ID is required")
}

func TestNewPaymentIntent_MissingPayer(t *testing.T) {
	_, err := model.NewPaymentIntent("pi_test", uuid.New(), uuid.Nil, usd(100), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "payer user ID is required")
}

func TestNewPaymentIntent_NonPositiveAmount(t *testing.T) {
	_, err := model.NewPaymentIntent("pi_test", uuid.New(), uuid.New(), usd(0), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be positive")

	_, err = model.NewPaymentIntent("pi_test", uuid.New(), uuid.New(), usd(-100), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be positive")
}

// --- Lifecycle tests ---

func TestPaymentIntent_Lifecycle_ConfirmCapture(t *testing.T) {
	intent := newTestIntent(t)

	now := time.Now().UTC()
	confirmed, err := intent.Confirm(now)
	require.NoError(t, err)
	assert.Equal(t, valueobject.IntentStatusConfirmed, confirmed.Status())
	assert.Equal(t, 2, confirmed.Version())
	assert.Equal(t, now, confirmed.UpdatedAt())

	// Original remains immutable.
	assert.Equal(t, valueobject.IntentStatusCreated, intent.Status())
	assert.Equal(t, 1, intent.Version())

	// Confirming emits the mirror-propagation event keyed by project.
	events := confirmed.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "payments.payment-intent-saved", events[0].EventType())
	assert.Equal(t, intent.ProjectID().String(), events[0].PartitionKey())

	captureTime := now.Add(time.Hour)
	captured, err := confirmed.Capture(captureTime)
	require.NoError(t, err)
	assert.Equal(t, valueobject.IntentStatusCaptured, captured.Status())
	assert.Equal(t, 3, captured.Version())
	assert.Equal(t, captureTime, captured.UpdatedAt())

	// Capture emits no event of its own; the charge record carries the fact.
	assert.Len(t, captured.DomainEvents(), 1)
}

func TestPaymentIntent_Lifecycle_ConfirmCancel(t *testing.T) {
	intent := newTestIntent(t)

	now := time.Now().UTC()
	confirmed, err := intent.Confirm(now)
	require.NoError(t, err)

	cancelled, err := confirmed.Cancel(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, valueobject.IntentStatusCancelled, cancelled.Status())
	assert.Equal(t, 3, cancelled.Version())

	events := cancelled.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "payments.payment-intent-saved", events[0].EventType())
	assert.Equal(t, "payments.payment-intent-cancelled", events[1].EventType())
}

func TestPaymentIntent_CancelBeforeConfirm(t *testing.T) {
	intent := newTestIntent(t)

	cancelled, err := intent.Cancel(time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, valueobject.IntentStatusCancelled, cancelled.Status())
}

func TestPaymentIntent_CaptureIsOneWayDoor(t *testing.T) {
	intent := newTestIntent(t)
	now := time.Now().UTC()

	confirmed, err := intent.Confirm(now)
	require.NoError(t, err)
	captured, err := confirmed.Capture(now)
	require.NoError(t, err)

	_, err = captured.Cancel(now)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cancel intent in CAPTURED status")

	_, err = captured.Capture(now)
	assert.Error(t, err)

	_, err = captured.Confirm(now)
	assert.Error(t, err)
}

func TestPaymentIntent_CaptureRequiresConfirm(t *testing.T) {
	intent := newTestIntent(t)

	_, err := intent.Capture(time.Now().UTC())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "can only capture from CONFIRMED status")
}

func TestPaymentIntent_CancelledIsTerminal(t *testing.T) {
	intent := newTestIntent(t)
	now := time.Now().UTC()

	cancelled, err := intent.Cancel(now)
	require.NoError(t, err)

	_, err = cancelled.Confirm(now)
	assert.Error(t, err)
	_, err = cancelled.Capture(now)
	assert.Error(t, err)
	_, err = cancelled.Cancel(now)
	assert.Error(t, err)
}

func TestPaymentIntent_ClearDomainEvents(t *testing.T) {
	intent := newTestIntent(t)
	confirmed, err := intent.Confirm(time.Now().UTC())
	require.NoError(t, err)

	events, cleared := confirmed.ClearDomainEvents()
	require.Len(t, events, 1)
	assert.Empty(t, cleared.DomainEvents())
	assert.Equal(t, confirmed.Status(), cleared.Status())
}

func TestReconstructPaymentIntent_NoEvents(t *testing.T) {
	now := time.Now().UTC()
	intent := model.ReconstructPaymentIntent(
		"pi_stored", uuid.New(), uuid.New(), usd(50000),
		valueobject.IntentStatusConfirmed, "acct_test", 2, now, now,
	)

	assert.Equal(t, valueobject.IntentStatusConfirmed, intent.Status())
	assert.Equal(t, 2, intent.Version())
	assert.Empty(t, intent.DomainEvents())
}
