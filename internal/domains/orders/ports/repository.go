package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict signals the order changed since the caller read it.
	ErrVersionConflict = errors.New("order was modified concurrently")
	ErrDuplicateTicket = errors.New("ticket code already in use")
)

// ListFilter narrows order queries; an empty filter returns every order.
type ListFilter struct {
	Statuses []domain.StepKey
}

// Repository is the order store. Every Persist call is atomic for one row,
// succeeds only when the stored version equals expectedVersion, and bumps
// the version by one.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	PersistStatus(ctx context.Context, id string, expectedVersion int64, status domain.StepKey, at time.Time) error
	PersistPayment(ctx context.Context, id string, expectedVersion int64, paidAmount decimal.Decimal, isPaid bool) error
	PersistPickupAssignment(ctx context.Context, id string, expectedVersion int64, driverID string) error
	PersistDeliveryAssignment(ctx context.Context, id string, expectedVersion int64, driverID string) error
	PersistPickupStatus(ctx context.Context, id string, expectedVersion int64, status domain.PickupStatus) error
	PersistDeliveryStatus(ctx context.Context, id string, expectedVersion int64, status domain.DeliveryStatus) error
}
