package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/backend-pledge/internal/common"
	"github.com/noah-isme/backend-pledge/internal/events"
)

// EmailNotifier sends transactional emails for selected topics. Batch
// summaries go to the operator; everything else goes to the buyer named
// in the event payload.
type EmailNotifier struct {
	Mail          common.EmailSender
	Enabled       bool
	From          string
	OperatorEmail string
	TopicToggles  map[string]bool
}

// Notify implements the events.Notifier interface.
func (n EmailNotifier) Notify(_ context.Context, event events.DomainEvent) error {
	if !n.Enabled || n.Mail == nil {
		return nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[event.Topic]; ok && !enabled {
			return nil
		}
	}
	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	to := extractRecipient(payload)
	if event.Topic == events.TopicBatchCompleted {
		to = strings.TrimSpace(n.OperatorEmail)
	}
	if to == "" {
		return nil
	}
	subject := subjectFor(event.Topic)
	body := bodyFor(event.Topic, event.AggregateID, payload, event.OccurredAt)
	return n.Mail.Send(to, subject, body)
}

func extractRecipient(payload map[string]any) string {
	keys := []string{"email", "recipient", "userEmail", "customerEmail"}
	for _, key := range keys {
		if val, ok := payload[key]; ok {
			if s, ok := val.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func subjectFor(topic string) string {
	switch topic {
	case events.TopicOrderCreated:
		return "Your pledge order has been received"
	case events.TopicCardSaved:
		return "Your card has been saved for the pledge drive"
	case events.TopicChargeSucceeded:
		return "Your pledge payment succeeded"
	case events.TopicChargeFailed:
		return "Your pledge payment failed"
	case events.TopicBatchCompleted:
		return "Autodebit batch report"
	default:
		return fmt.Sprintf("Notification: %s", topic)
	}
}

func bodyFor(topic, aggregateID string, payload map[string]any, occurred time.Time) string {
	summary := fmt.Sprintf("Event %s occurred at %s.", topic, occurred.Format(time.RFC3339))
	if aggregateID != "" && topic != events.TopicBatchCompleted {
		summary += fmt.Sprintf("\nOrder: %s", aggregateID)
	}
	if amount, ok := payload["amount"].(float64); ok && amount > 0 {
		summary += fmt.Sprintf("\nAmount: %d", int64(amount))
	}
	if topic == events.TopicBatchCompleted {
		if charged, ok := payload["charged"].(float64); ok {
			summary += fmt.Sprintf("\nCharged: %d", int64(charged))
		}
		if failed, ok := payload["failed"].(float64); ok {
			summary += fmt.Sprintf("\nFailed: %d", int64(failed))
		}
		if total, ok := payload["totalCharged"].(float64); ok {
			summary += fmt.Sprintf("\nTotal collected: %d", int64(total))
		}
	}
	if note, ok := payload["message"].(string); ok && note != "" {
		summary += "\n" + note
	}
	return summary
}
