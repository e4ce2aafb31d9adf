package usecase

import "github.com/workhub/settlement/internal/domain/event"

// Kafka topics carrying settlement events between services. Messages are
// keyed by the event's partition key (user id or project id), so per-subject
// ordering holds within each topic. Intent saved and cancelled events share
// one topic: both are keyed by project id, and a single partition stream is
// the only way a cancellation is guaranteed to be applied after the save it
// supersedes.
const (
	TopicEmployerAccountLinked   = "workhub.payments.employer-account-linked"
	TopicFreelancerAccountLinked = "workhub.payments.freelancer-account-linked"
	TopicPaymentIntentLifecycle  = "workhub.payments.payment-intent-lifecycle"
	TopicFundsTransferred        = "workhub.payments.funds-transferred"
)

// TopicForEvent maps an event type to the topic it is published on. The
// outbox relay uses this to route re-sent entries.
func TopicForEvent(eventType string) (string, bool) {
	switch eventType {
	case event.TypeEmployerAccountLinked:
		return TopicEmployerAccountLinked, true
	case event.TypeFreelancerAccountLinked:
		return TopicFreelancerAccountLinked, true
	case event.TypePaymentIntentSaved, event.TypePaymentIntentCancelled:
		return TopicPaymentIntentLifecycle, true
	case event.TypeFundsTransferred:
		return TopicFundsTransferred, true
	default:
		return "", false
	}
}
