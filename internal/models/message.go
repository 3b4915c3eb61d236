package models

import "time"

// MessageKind tags an inbox message with the schedule outcome it describes.
type MessageKind string

const (
	MessageKindSchedule     MessageKind = "schedule"
	MessageKindRecurring    MessageKind = "recurring"
	MessageKindInsufficient MessageKind = "insufficient"
	MessageKindBill         MessageKind = "bill"
)

// Message is a one-way inbox notification. Immutable apart from the Read
// flag, which the inbox UI toggles.
type Message struct {
	ID          int64       `json:"id"`
	SenderName  string      `json:"sender_name"`
	ToUser      int64       `json:"to_user"`
	Description string      `json:"description"`
	Kind        MessageKind `json:"type"`
	InvoiceRef  string      `json:"invoice_ref,omitempty"`
	LinkedBill  string      `json:"linked_bill,omitempty"`
	ScheduleRef string      `json:"schedule_ref,omitempty"`
	Read        bool        `json:"read"`
	CreatedAt   time.Time   `json:"created_at"`
}
