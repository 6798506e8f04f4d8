package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshfold/laundry-api/internal/clients/http/notifier"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

// Notification templates understood by the partner.
const (
	TemplateReady     = "order_ready"
	TemplateOnTheWay  = "order_on_the_way"
	TemplateDelivered = "order_delivered"
)

var _ ports.EventPublisher = (*NotifierPublisher)(nil)

// Notifier sends one customer notification.
type Notifier interface {
	Notify(ctx context.Context, orderID string, notification notifier.Notification, opts ...notifier.NotifyOption) error
}

// NotifierPublisher tells customers when their laundry is ready, on its way,
// or handed over. Other events are ignored.
type NotifierPublisher struct {
	client Notifier
}

func NewNotifierPublisher(client Notifier) *NotifierPublisher {
	return &NotifierPublisher{client: client}
}

func (p *NotifierPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.client == nil {
		return errors.New("notifier publisher not configured")
	}
	var errs []error
	for _, event := range events {
		notification, ok := notificationFor(event)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s:%s:%d", event.AggregateID(), notification.Template, event.OccurredAt().UnixNano())
		if err := p.client.Notify(ctx, event.AggregateID(), notification, notifier.WithIdempotencyKey(key)); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", event.AggregateID(), err))
		}
	}
	return errors.Join(errs...)
}

func notificationFor(event domain.Event) (notifier.Notification, bool) {
	switch e := event.(type) {
	case domain.OrderStatusChanged:
		template := ""
		switch e.ToStatus {
		case domain.StepReadyDelivery:
			template = TemplateReady
		case domain.StepDelivered:
			template = TemplateDelivered
		default:
			return notifier.Notification{}, false
		}
		return notifier.Notification{Ticket: e.TicketCode, Phone: e.CustomerPhone, Template: template, Status: string(e.ToStatus)}, true
	case domain.TaskStarted:
		if e.Kind != domain.TaskDelivery {
			return notifier.Notification{}, false
		}
		return notifier.Notification{Ticket: e.TicketCode, Phone: e.CustomerPhone, Template: TemplateOnTheWay}, true
	default:
		return notifier.Notification{}, false
	}
}
