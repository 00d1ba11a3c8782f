package dispatch

import "time"

// MessageType distinguishes the notification templates.
type MessageType string

const (
	MessageWelcome         MessageType = "welcome"
	MessageConfirmation    MessageType = "confirmation"
	MessageReminderTrigger MessageType = "reminder_trigger"
	MessageSummaryReport   MessageType = "summary_report"
)

// DeliveryState is the lifecycle of a notification event. Delivered and
// Failed are terminal.
type DeliveryState string

const (
	StatePending   DeliveryState = "pending"
	StateDelivered DeliveryState = "delivered"
	StateFailed    DeliveryState = "failed"
)

// Terminal reports whether the state admits no further transition.
func (s DeliveryState) Terminal() bool {
	return s == StateDelivered || s == StateFailed
}

// NotificationEvent is one outbound message. Only DeliveryState and
// FailureReason change after creation.
type NotificationEvent struct {
	ID            string        `json:"id"`
	Recipient     string        `json:"recipient"`
	MessageType   MessageType   `json:"message_type"`
	ComposedBody  string        `json:"composed_body"`
	CreatedAt     time.Time     `json:"created_at"`
	DeliveryState DeliveryState `json:"delivery_state"`
	FailureReason string        `json:"failure_reason,omitempty"`
}
