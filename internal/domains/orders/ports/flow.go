package ports

import (
	"context"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// FlowSource supplies the configured pipeline steps. It is read on every
// lifecycle call so configuration changes apply immediately.
type FlowSource interface {
	Steps(ctx context.Context) ([]domain.Step, error)
}

// FlowStore is a FlowSource that can also be rewritten.
type FlowStore interface {
	FlowSource
	Replace(ctx context.Context, steps []domain.Step) error
}
