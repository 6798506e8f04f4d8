package memory

import (
	"context"
	"sync"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*EventRecorder)(nil)

// EventRecorder keeps published events for inspection.
type EventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) Publish(_ context.Context, events ...domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns the recorded events in publish order.
func (r *EventRecorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event{}, r.events...)
}

// Names returns the recorded event names in publish order.
func (r *EventRecorder) Names() []string {
	events := r.Events()
	names := make([]string, 0, len(events))
	for _, event := range events {
		names = append(names, event.EventName())
	}
	return names
}
