package valueobject

import "fmt"

// IntentStatus is the lifecycle state of a payment intent.
// Valid transitions: CREATED -> CONFIRMED -> CAPTURED, and
// CREATED/CONFIRMED -> CANCELLED. CAPTURED and CANCELLED are terminal.
type IntentStatus struct {
	value string
}

var (
	IntentStatusCreated   = IntentStatus{"CREATED"}
	IntentStatusConfirmed = IntentStatus{"CONFIRMED"}
	IntentStatusCaptured  = IntentStatus{"CAPTURED"}
	IntentStatusCancelled = IntentStatus{"CANCELLED"}
)

// ParseIntentStatus converts a stored string into an IntentStatus.
func ParseIntentStatus(s string) (IntentStatus, error) {
	switch s {
	case "CREATED":
		return IntentStatusCreated, nil
	case "CONFIRMED":
		return IntentStatusConfirmed, nil
	case "CAPTURED":
		return IntentStatusCaptured, nil
	case "CANCELLED":
		return IntentStatusCancelled, nil
	default:
		return IntentStatus{}, fmt.Errorf("unknown intent status: %q", s)
	}
}

// String returns the status name.
func (s IntentStatus) String() string {
	return s.value
}

// IsZero reports whether the status is unset.
func (s IntentStatus) IsZero() bool {
	return s.value == ""
}

// IsTerminal reports whether the status admits no further transitions.
func (s IntentStatus) IsTerminal() bool {
	return s == IntentStatusCaptured || s == IntentStatusCancelled
}

// IsActive reports whether an intent in this status counts against the
// one-active-intent-per-project rule.
func (s IntentStatus) IsActive() bool {
	return s == IntentStatusCreated || s == IntentStatusConfirmed
}

// CanConfirm reports whether the intent may move to CONFIRMED.
func (s IntentStatus) CanConfirm() bool {
	return s == IntentStatusCreated
}

// CanCapture reports whether the intent may move to CAPTURED.
func (s IntentStatus) CanCapture() bool {
	return s == IntentStatusConfirmed
}

// CanCancel reports whether the intent may move to CANCELLED.
// Capturing is a one-way door: a captured intent is never cancellable.
func (s IntentStatus) CanCancel() bool {
	return s == IntentStatusCreated || s == IntentStatusConfirmed
}
