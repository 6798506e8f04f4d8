package ports

import (
	"context"

	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
)

// Service exposes the driver registry (inbound/driving port). Status and
// workload counters change only through the order lifecycle; the daily
// completed counter is also reset here.
type Service interface {
	Register(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	GetDriver(ctx context.Context, id string) (*domain.Driver, error)
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	Candidates(ctx context.Context) ([]*domain.Driver, error)
	ResetDailyCounters(ctx context.Context) (int64, error)
}
