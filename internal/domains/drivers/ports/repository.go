package ports

import (
	"context"
	"errors"

	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
)

var ErrNotFound = errors.New("driver not found")

// Repository persists drivers and their live counters.
type Repository interface {
	Save(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	List(ctx context.Context) ([]*domain.Driver, error)
	// PersistStatus writes the availability and workload counters of one driver.
	PersistStatus(ctx context.Context, id string, status domain.Status, currentOrders, completedToday int) error
	// ResetDailyCounters zeroes completedToday for every driver and returns how many changed.
	ResetDailyCounters(ctx context.Context) (int64, error)
}
