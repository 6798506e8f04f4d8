package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	tickets map[string]string
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}, tickets: map[string]string{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := order.Clone()
	clone.Version = 1
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[clone.ID]; exists {
		return nil, errors.New("order already exists")
	}
	if _, taken := r.tickets[clone.TicketCode]; taken {
		return nil, ports.ErrDuplicateTicket
	}
	r.orders[clone.ID] = clone
	r.tickets[clone.TicketCode] = clone.ID
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if !matchesStatus(order.Status, filter.Statuses) {
			continue
		}
		list = append(list, order.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) PersistStatus(_ context.Context, id string, expectedVersion int64, status domain.StepKey, at time.Time) error {
	return r.update(id, expectedVersion, func(order *domain.Order) error {
		order.Status = status
		order.UpdatedAt = at
		if status == domain.StepDelivered {
			delivered := at
			order.DeliveredAt = &delivered
		}
		return nil
	})
}

func (r *Repository) PersistPayment(_ context.Context, id string, expectedVersion int64, paidAmount decimal.Decimal, isPaid bool) error {
	return r.update(id, expectedVersion, func(order *domain.Order) error {
		order.PaidAmount = paidAmount
		order.IsPaid = isPaid
		return nil
	})
}

func (r *Repository) PersistPickupAssignment(_ context.Context, id string, expectedVersion int64, driverID string) error {
	return r.update(id, expectedVersion, func(order *domain.Order) error {
		if order.Pickup == nil {
			return errors.New("order has no pickup")
		}
		order.Pickup.DriverID = driverID
		return nil
	})
}

func (r *Repository) PersistDeliveryAssignment(_ context.Context, id string, expectedVersion int64, driverID string) error {
	return r.update(id, expectedVersion, func(order *domain.Order) error {
		if order.Delivery == nil {
			return errors.New("order has no delivery")
		}
		order.Delivery.DriverID = driverID
		return nil
	})
}

func (r *Repository) PersistPickupStatus(_ context.Context, id string, expectedVersion int64, status domain.PickupStatus) error {
	return r.update(id, expectedVersion, func(order *domain.Order) error {
		if order.Pickup == nil {
			return errors.New("order has no pickup")
		}
		order.Pickup.Status = status
		return nil
	})
}

func (r *Repository) PersistDeliveryStatus(_ context.Context, id string, expectedVersion int64, status domain.DeliveryStatus) error {
	return r.update(id, expectedVersion, func(order *domain.Order) error {
		if order.Delivery == nil {
			return errors.New("order has no delivery")
		}
		order.Delivery.Status = status
		return nil
	})
}

// Snapshot captures the current state; calling the returned func restores it.
func (r *Repository) Snapshot() func() {
	r.mu.RLock()
	orders := make(map[string]*domain.Order, len(r.orders))
	for id, order := range r.orders {
		orders[id] = order.Clone()
	}
	tickets := make(map[string]string, len(r.tickets))
	for code, id := range r.tickets {
		tickets[code] = id
	}
	r.mu.RUnlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.orders = orders
		r.tickets = tickets
	}
}

func (r *Repository) update(id string, expectedVersion int64, apply func(*domain.Order) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Version != expectedVersion {
		return ports.ErrVersionConflict
	}
	next := order.Clone()
	if err := apply(next); err != nil {
		return err
	}
	next.Version++
	r.orders[id] = next
	return nil
}

func matchesStatus(status domain.StepKey, statuses []domain.StepKey) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
