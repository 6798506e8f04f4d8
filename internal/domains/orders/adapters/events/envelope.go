package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// Envelope is the wire shape of a lifecycle event.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Name       string          `json:"name"`
	OrderID    string          `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps event with a fresh event id.
func NewEnvelope(event domain.Event) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	return Envelope{
		EventID:    uuid.NewString(),
		Name:       event.EventName(),
		OrderID:    event.AggregateID(),
		OccurredAt: event.OccurredAt().UTC(),
		Payload:    payload,
	}, nil
}
