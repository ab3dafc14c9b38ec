package events

// Topic constants for domain events emitted by the platform.
const (
	TopicOrderCreated    = "order.created"
	TopicCardSaved       = "order.card_saved"
	TopicChargeSucceeded = "charge.succeeded"
	TopicChargeFailed    = "charge.failed"
	TopicBatchCompleted  = "autodebit.batch_completed"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicCardSaved,
		TopicChargeSucceeded,
		TopicChargeFailed,
		TopicBatchCompleted,
	}
}
