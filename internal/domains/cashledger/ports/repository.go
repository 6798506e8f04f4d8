package ports

import (
	"context"
	"errors"
	"time"

	"github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
)

var (
	ErrNotFound = errors.New("cash entry not found")
	// ErrIdempotencyConflict indicates the same key was used for a different movement.
	ErrIdempotencyConflict = errors.New("cash entry idempotency conflict")
)

// ListFilter narrows ledger queries; zero values match everything.
type ListFilter struct {
	OrderID string
	Type    domain.EntryType
	From    time.Time
	To      time.Time
}

// Repository is the append-only cash register.
type Repository interface {
	// Append stores the entry. When the idempotency key is already present for
	// the same movement the stored entry is returned and nothing is added;
	// a different movement under that key yields ErrIdempotencyConflict.
	Append(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	GetByKey(ctx context.Context, key string) (*domain.Entry, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Entry, error)
}
