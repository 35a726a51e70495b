package domain

import "time"

// EventType identifies a lifecycle notification
type EventType string

const (
	EventRequestCreated     EventType = "request.created"
	EventRequestSubmitted   EventType = "request.submitted"
	EventRequestUnderReview EventType = "request.under_review"
	EventRequestApproved    EventType = "request.approved"
	EventRequestRejected    EventType = "request.rejected"
	EventRequestScheduled   EventType = "request.scheduled"
	EventRequestStarted     EventType = "request.in_progress"
	EventRequestCompleted   EventType = "request.completed"
	EventRequestCancelled   EventType = "request.cancelled"
	EventRequestDeleted     EventType = "request.deleted"
	EventExtensionRequested EventType = "extension.requested"
	EventExtensionApproved  EventType = "extension.approved"
	EventExtensionRejected  EventType = "extension.rejected"
	EventInvoiceIssued      EventType = "invoice.issued"
	EventInvoicePaid        EventType = "invoice.paid"
	EventInvoiceOverdue     EventType = "invoice.overdue"
	EventRefundRequested    EventType = "invoice.refund_requested"
)

// Event is a notification emitted on every lifecycle transition
type Event struct {
	ID         string
	Type       EventType
	RequestID  int64
	Payload    map[string]any
	OccurredAt time.Time
}
