package memory

import (
	"context"
	"sync"

	ledgerports "github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// Snapshotter is implemented by in-memory stores that can roll back.
type Snapshotter interface {
	Snapshot() (restore func())
}

// UnitOfWork serialises lifecycle operations over in-memory stores and
// restores every store that supports snapshots when fn fails.
type UnitOfWork struct {
	mu     sync.Mutex
	stores ports.Stores
}

func NewUnitOfWork(orders ports.Repository, drivers driverports.Repository, ledger ledgerports.Repository) *UnitOfWork {
	return &UnitOfWork{stores: ports.Stores{Orders: orders, Drivers: drivers, Ledger: ledger}}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) (err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var restores []func()
	for _, store := range []any{u.stores.Orders, u.stores.Drivers, u.stores.Ledger} {
		if s, ok := store.(Snapshotter); ok {
			restores = append(restores, s.Snapshot())
		}
	}
	defer func() {
		if r := recover(); r != nil {
			rollback(restores)
			panic(r)
		}
		if err != nil {
			rollback(restores)
		}
	}()
	return fn(ctx, u.stores)
}

func rollback(restores []func()) {
	for _, restore := range restores {
		restore()
	}
}
