package ports

import (
	"context"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// EventPublisher ships committed lifecycle events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...domain.Event) error { return nil }

// NoopPublisher drops every event.
var NoopPublisher EventPublisher = noopPublisher{}
