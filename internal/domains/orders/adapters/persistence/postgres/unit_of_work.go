package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	ledgerpostgres "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/persistence/postgres"
	driverpostgres "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/persistence/postgres"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs lifecycle operations in one database transaction spanning
// orders, drivers and the cash ledger. Rows read through it are locked.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, ports.Stores{
			Orders:  NewRepository(tx).WithRowLocks(),
			Drivers: driverpostgres.NewRepository(tx).WithRowLocks(),
			Ledger:  ledgerpostgres.NewRepository(tx),
		})
	})
}
