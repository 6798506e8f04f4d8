package events

import (
	"context"
	"errors"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = FanOut(nil)

// FanOut hands every batch to each publisher; one failing does not stop the rest.
type FanOut []ports.EventPublisher

func (f FanOut) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
