package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
	"github.com/freshfold/laundry-api/internal/domains/drivers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory driver persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
}

func NewRepository() *Repository {
	return &Repository{drivers: map[string]*domain.Driver{}}
}

func (r *Repository) Save(_ context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if driver == nil {
		return nil, errors.New("driver is nil")
	}
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	clone := *driver
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *driver
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Driver, 0, len(r.drivers))
	for _, driver := range r.drivers {
		clone := *driver
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) PersistStatus(_ context.Context, id string, status domain.Status, currentOrders, completedToday int) error {
	if !domain.IsValidStatus(status) {
		return domain.ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return ports.ErrNotFound
	}
	next := *driver
	next.Status = status
	next.CurrentOrders = currentOrders
	next.CompletedToday = completedToday
	r.drivers[id] = &next
	return nil
}

func (r *Repository) ResetDailyCounters(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for id, driver := range r.drivers {
		if driver.CompletedToday == 0 {
			continue
		}
		next := *driver
		next.ResetDailyCounters()
		r.drivers[id] = &next
		changed++
	}
	return changed, nil
}

// Snapshot captures the current state; calling the returned func restores it.
func (r *Repository) Snapshot() func() {
	r.mu.RLock()
	drivers := make(map[string]*domain.Driver, len(r.drivers))
	for id, driver := range r.drivers {
		clone := *driver
		drivers[id] = &clone
	}
	r.mu.RUnlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.drivers = drivers
	}
}
