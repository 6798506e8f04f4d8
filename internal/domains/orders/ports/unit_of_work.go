package ports

import (
	"context"

	ledgerports "github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
)

// Stores groups the collaborators a lifecycle operation writes to.
type Stores struct {
	Orders  Repository
	Drivers driverports.Repository
	Ledger  ledgerports.Repository
}

// UnitOfWork runs fn so that either every write through the given stores
// persists or none does.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
