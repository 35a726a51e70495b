package notifier

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Message тело сообщения в брокере
type Message struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	RequestID  int64          `json:"requestId"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// FromDomainEvent конвертирует событие в сообщение
func FromDomainEvent(event domain.Event) Message {
	return Message{
		ID:         event.ID,
		Type:       string(event.Type),
		RequestID:  event.RequestID,
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt.UTC(),
	}
}
