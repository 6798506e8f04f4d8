package ports

import (
	"context"

	"github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
)

// Service exposes ledger queries to adapters.
type Service interface {
	ListEntries(ctx context.Context, filter ListFilter) ([]*domain.Entry, error)
	Summary(ctx context.Context, filter ListFilter) (domain.Summary, error)
}
