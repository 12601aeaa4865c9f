package eventpublisher

import (
	"encoding/json"
	"time"

	"github.com/iho/treasury/internal/domain"
)

// Envelope is the wire form of an outbox event on every sink.
type Envelope struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

func marshalEnvelope(event *domain.OutboxEvent) ([]byte, error) {
	return json.Marshal(Envelope{
		ID:            event.ID,
		Type:          event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		OccurredAt:    event.CreatedAt,
	})
}
